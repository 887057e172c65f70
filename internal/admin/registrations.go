package admin

import (
	"context"
	"strconv"

	"rheuma-portal/internal/schema"
	"rheuma-portal/pkg/client"
	"rheuma-portal/pkg/constants"
)

// Registrations - описание раздела заявок для экрана только для чтения.
var Registrations = &schema.Entity{Name: "registrations", Title: "Заявки"}

// RegistrationSource отдаёт заявки как записи; запись через неё невозможна.
type RegistrationSource struct {
	Client *client.Client
}

func (r RegistrationSource) List(ctx context.Context, q client.ListQuery) ([]client.Record, uint64, error) {
	list, total, err := r.Client.Registrations(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]client.Record, 0, len(list))
	for _, reg := range list {
		rec := client.Record{
			"id":             reg.ID,
			"school_type":    reg.SchoolType,
			"event_id":       nil,
			"last_name":      reg.LastName,
			"first_name":     reg.FirstName,
			"middle_name":    reg.MiddleName,
			"phone":          reg.Phone,
			"city":           reg.City,
			"category":       reg.Category,
			"inn":            reg.INN,
			"email":          reg.Email,
			"specialization": reg.Specialization,
			"workplace":      reg.Workplace,
			"created_at":     reg.CreatedAt,
		}
		if reg.EventID != nil {
			rec["event_id"] = *reg.EventID
		}
		out = append(out, rec)
	}
	return out, total, nil
}

func (RegistrationSource) Create(context.Context, client.Record) (client.Record, error) {
	return nil, ErrReadOnly
}

func (RegistrationSource) Update(context.Context, uint64, client.Record) (client.Record, error) {
	return nil, ErrReadOnly
}

func (RegistrationSource) Patch(context.Context, uint64, client.Record) (client.Record, error) {
	return nil, ErrReadOnly
}

func (RegistrationSource) Delete(context.Context, uint64) error { return ErrReadOnly }

// NewCongressRegistrationsScreen - заявки на конгресс, при eventID > 0 только на одно мероприятие.
func NewCongressRegistrationsScreen(c *client.Client, eventID uint64, opts ...Option) *Screen {
	q := client.ListQuery{Filter: map[string]string{"school_type": constants.SchoolTypeCongress}}
	if eventID > 0 {
		q.Filter["event_id"] = strconv.FormatUint(eventID, 10)
	}
	return NewScreen(Registrations, RegistrationSource{Client: c}, append([]Option{ReadOnly(), WithQuery(q)}, opts...)...)
}

// NewSchoolRegistrationsScreen - заявки в школу ревматолога.
func NewSchoolRegistrationsScreen(c *client.Client, opts ...Option) *Screen {
	q := client.ListQuery{Filter: map[string]string{"school_type": constants.SchoolTypeRheumatologist}}
	return NewScreen(Registrations, RegistrationSource{Client: c}, append([]Option{ReadOnly(), WithQuery(q)}, opts...)...)
}
