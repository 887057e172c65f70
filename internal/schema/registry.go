package schema

import (
	"sort"
	"time"

	apperrors "rheuma-portal/pkg/errors"
)

const (
	NewsTypeNews  = "news"
	NewsTypeEvent = "event"
)

var defaultOrder = []string{`"order" ASC`, "created_at DESC", "id DESC"}

func order() Field { return Field{Name: "order", Kind: Number} }

func active(def bool) Field { return Field{Name: "is_active", Kind: Boolean, Default: def} }

var News = &Entity{
	Name:  "news",
	Title: "Новости и мероприятия",
	Table: "news",
	Fields: []Field{
		{Name: "news_type", Kind: Select, Options: []string{NewsTypeNews, NewsTypeEvent}},
		{Name: "title", Kind: LocalizedText, Required: true},
		{Name: "summary", Kind: LocalizedTextarea},
		{Name: "content", Kind: LocalizedTextarea},
		{Name: "event_location", Kind: LocalizedText},
		{Name: "event_date_start", Kind: Timestamp},
		{Name: "event_date_end", Kind: Timestamp},
		{Name: "registration_url", Kind: Text},
		{Name: "image_url", Kind: File, UploadContext: "image"},
		order(),
		{Name: "is_published", Kind: Boolean, Default: false},
		{Name: "is_featured", Kind: Boolean, Default: false},
	},
	ActiveColumn: "is_published",
	TypeColumn:   "news_type",
	OrderBy:      defaultOrder,
	Check:        checkEventDates,
}

var Centers = &Entity{
	Name:  "centers",
	Title: "Ревматологические центры",
	Table: "centers",
	Fields: []Field{
		{Name: "name", Kind: LocalizedText, Required: true},
		{Name: "description", Kind: LocalizedTextarea},
		{Name: "address", Kind: LocalizedText},
		{Name: "region", Kind: Text},
		{Name: "phone", Kind: Text},
		{Name: "email", Kind: Text},
		{Name: "website", Kind: Text},
		{Name: "image_url", Kind: File, UploadContext: "image"},
		order(),
		active(true),
	},
	ActiveColumn:  "is_active",
	FilterColumns: []string{"region"},
	OrderBy:       defaultOrder,
	Children:      []Child{{Entity: "center-staff", ForeignKey: "center_id"}},
}

var CenterStaff = &Entity{
	Name:  "center-staff",
	Title: "Сотрудники центров",
	Table: "center_staff",
	Fields: []Field{
		{Name: "center_id", Kind: Reference, Required: true, References: "centers"},
		{Name: "name", Kind: LocalizedText, Required: true},
		{Name: "position", Kind: LocalizedText},
		{Name: "phone", Kind: Text},
		{Name: "email", Kind: Text},
		{Name: "photo_url", Kind: File, UploadContext: "photo"},
		order(),
		active(true),
	},
	ActiveColumn:  "is_active",
	FilterColumns: []string{"center_id"},
	OrderBy:       defaultOrder,
}

var Partners = &Entity{
	Name:  "partners",
	Title: "Партнёры",
	Table: "partners",
	Fields: []Field{
		{Name: "name", Kind: LocalizedText, Required: true},
		{Name: "description", Kind: LocalizedTextarea},
		{Name: "logo_url", Kind: File, UploadContext: "logo"},
		{Name: "website", Kind: Text},
		order(),
		active(true),
	},
	ActiveColumn: "is_active",
	OrderBy:      defaultOrder,
}

var ChiefRheumatologists = &Entity{
	Name:  "chief-rheumatologists",
	Title: "Главные ревматологи",
	Table: "chief_rheumatologists",
	Fields: []Field{
		{Name: "name", Kind: LocalizedText, Required: true},
		{Name: "position", Kind: LocalizedText},
		{Name: "region", Kind: LocalizedText},
		{Name: "phone", Kind: Text},
		{Name: "email", Kind: Text},
		{Name: "photo_url", Kind: File, UploadContext: "photo"},
		order(),
		active(true),
	},
	ActiveColumn: "is_active",
	OrderBy:      defaultOrder,
}

var Diseases = &Entity{
	Name:  "diseases",
	Title: "Заболевания и документы",
	Table: "diseases",
	Fields: []Field{
		{Name: "title", Kind: LocalizedText, Required: true},
		{Name: "description", Kind: LocalizedTextarea},
		{Name: "document_type", Kind: Select, Options: []string{"disease", "guideline", "document"}},
		{Name: "file_url", Kind: File, UploadContext: "document"},
		{Name: "image_url", Kind: File, UploadContext: "image"},
		order(),
		active(true),
	},
	ActiveColumn: "is_active",
	TypeColumn:   "document_type",
	OrderBy:      defaultOrder,
}

var Charter = &Entity{
	Name:  "charter",
	Title: "Устав",
	Table: "charter",
	Fields: []Field{
		{Name: "title", Kind: LocalizedText, Required: true},
		{Name: "description", Kind: LocalizedTextarea},
		{Name: "file_url", Kind: File, UploadContext: "document"},
		order(),
		active(true),
	},
	ActiveColumn: "is_active",
	OrderBy:      defaultOrder,
}

var registry = map[string]*Entity{}

func init() {
	for _, e := range []*Entity{News, Centers, CenterStaff, Partners, ChiefRheumatologists, Diseases, Charter} {
		registry[e.Name] = e
	}
}

// Lookup возвращает описание сущности по имени из URL.
func Lookup(name string) (*Entity, error) {
	if e, ok := registry[name]; ok {
		return e, nil
	}
	return nil, apperrors.ErrUnknownEntity
}

// All - все зарегистрированные сущности, отсортированные по имени.
func All() []*Entity {
	out := make([]*Entity, 0, len(registry))
	for _, e := range registry {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func checkEventDates(record map[string]any) map[string]string {
	start, okStart := record["event_date_start"].(time.Time)
	end, okEnd := record["event_date_end"].(time.Time)
	if okStart && okEnd && end.Before(start) {
		return map[string]string{"event_date_end": "дата окончания раньше даты начала"}
	}
	return nil
}
