package schema

import (
	"sort"

	"rheuma-portal/pkg/i18n"
)

// Child - зависимая сущность, которая удаляется вместе с родителем.
type Child struct {
	Entity     string
	ForeignKey string
}

type Entity struct {
	Name  string
	Title string
	Table string

	Fields []Field

	// ActiveColumn скрывает запись на публичной части сайта, когда false.
	ActiveColumn string
	// TypeColumn - колонка, по которой фильтрует параметр ?type=.
	TypeColumn    string
	FilterColumns []string
	OrderBy       []string
	Children      []Child

	// Check - дополнительные проверки, которым нужно несколько полей сразу.
	Check func(record map[string]any) map[string]string
}

var systemColumns = []string{"created_at", "updated_at"}

// Columns - все колонки таблицы в порядке полей.
func (e *Entity) Columns() []string {
	cols := []string{"id"}
	for _, f := range e.Fields {
		cols = append(cols, f.Columns()...)
	}
	return append(cols, systemColumns...)
}

// Field ищет поле по имени поля или по имени колонки (title_uz -> title).
func (e *Entity) Field(name string) (Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
		if f.Localized() {
			for _, col := range f.Columns() {
				if col == name {
					return f, true
				}
			}
		}
	}
	return Field{}, false
}

// LocalizedAttributes - имена атрибутов с суффиксами локалей.
func (e *Entity) LocalizedAttributes() []string {
	var out []string
	for _, f := range e.Fields {
		if f.Localized() {
			out = append(out, f.Name)
		}
	}
	return out
}

// FileColumns - колонки, в которых хранятся URL загруженных файлов.
func (e *Entity) FileColumns() []string {
	var out []string
	for _, f := range e.Fields {
		if f.Kind == File {
			out = append(out, f.Name)
		}
	}
	return out
}

// SearchColumns - колонки для ILIKE-поиска: все локализованные варианты первого атрибута.
func (e *Entity) SearchColumns() []string {
	attrs := e.LocalizedAttributes()
	if len(attrs) == 0 {
		return nil
	}
	return i18n.Columns(attrs[0])
}

func (e *Entity) Filterable(column string) bool {
	if column == e.TypeColumn && column != "" {
		return true
	}
	for _, c := range e.FilterColumns {
		if c == column {
			return true
		}
	}
	return false
}

// EmptyTemplate - заготовка новой записи: локализованные поля пустые,
// флаги по соглашению сущности, order = 0, без id.
func (e *Entity) EmptyTemplate() map[string]any {
	out := make(map[string]any)
	for _, f := range e.Fields {
		for _, col := range f.Columns() {
			out[col] = f.zero()
		}
	}
	return out
}

// Label - подпись записи для подтверждений ("Удалить «...»?").
func (e *Entity) Label(record map[string]any) string {
	attrs := e.LocalizedAttributes()
	if len(attrs) == 0 {
		return ""
	}
	return i18n.Resolve(record, attrs[0], i18n.Canonical)
}

// HasOrder сообщает, есть ли у сущности колонка сортировки order.
func (e *Entity) HasOrder() bool {
	_, ok := e.Field("order")
	return ok
}

func sortedKeys(m map[string]Field) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
