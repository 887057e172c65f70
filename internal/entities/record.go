package entities

import (
	"encoding/json"
	"time"
)

// Record - строка таблицы контента: колонка -> значение.
// Набор колонок задаёт schema.Entity.
type Record map[string]interface{}

// ID возвращает идентификатор записи, если он присвоен.
func (r Record) ID() (uint64, bool) {
	switch v := r["id"].(type) {
	case int64:
		return uint64(v), v > 0
	case int32:
		return uint64(v), v > 0
	case int:
		return uint64(v), v > 0
	case uint64:
		return v, v > 0
	case float64:
		return uint64(v), v > 0
	case json.Number:
		n, err := v.Int64()
		return uint64(n), err == nil && n > 0
	}
	return 0, false
}

// Bool читает булеву колонку; отсутствующая колонка даёт false.
func (r Record) Bool(column string) bool {
	b, _ := r[column].(bool)
	return b
}

func (r Record) String(column string) string {
	s, _ := r[column].(string)
	return s
}

// Time читает колонку даты; NULL и отсутствующая колонка дают nil.
func (r Record) Time(column string) *time.Time {
	switch v := r[column].(type) {
	case time.Time:
		return &v
	case *time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &t
		}
	}
	return nil
}

// Clone - поверхностная копия, значений-ссылок в записях нет.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
