package public

import (
	"context"

	"rheuma-portal/internal/schema"
	"rheuma-portal/pkg/client"
	"rheuma-portal/pkg/i18n"
)

type CenterWithStaff struct {
	Center client.Record
	Staff  []client.Record
}

// CentersView - активные центры по order и их активные сотрудники.
type CentersView struct {
	centers Lister
	staff   Lister
}

func NewCentersView(centers, staff Lister) *CentersView {
	return &CentersView{centers: centers, staff: staff}
}

// Load загружает центры (при region != "" только этого региона) и сотрудников,
// группирует сотрудников по center_id и локализует всё под locale.
func (v *CentersView) Load(ctx context.Context, region string, locale i18n.Locale) ([]CenterWithStaff, error) {
	q := client.ListQuery{ActiveOnly: true}
	if region != "" {
		q.Filter = map[string]string{"region": region}
	}
	centers, _, err := v.centers.List(ctx, q)
	if err != nil {
		return nil, err
	}
	staff, _, err := v.staff.List(ctx, client.ListQuery{ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	byCenter := make(map[int64][]client.Record)
	for _, s := range SortByOrder(ActiveOnly(staff, schema.CenterStaff.ActiveColumn)) {
		id := intValue(s["center_id"])
		byCenter[id] = append(byCenter[id], s)
	}

	sorted := SortByOrder(ActiveOnly(centers, schema.Centers.ActiveColumn))
	out := make([]CenterWithStaff, 0, len(sorted))
	for _, c := range sorted {
		id := intValue(c["id"])
		out = append(out, CenterWithStaff{
			Center: i18n.Localize(c, schema.Centers.LocalizedAttributes(), locale),
			Staff:  localizeAll(byCenter[id], schema.CenterStaff, locale),
		})
	}
	return out, nil
}
