// Package public - представления публичной части сайта поверх pkg/client:
// фильтрация и сортировка уже загруженных списков, локализация при выводе.
package public

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"rheuma-portal/pkg/client"
)

func intValue(v interface{}) int64 {
	switch t := v.(type) {
	case json.Number:
		n, _ := t.Int64()
		return n
	case float64:
		return int64(t)
	case int64:
		return t
	case int:
		return int64(t)
	case uint64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	}
	return 0
}

// timeValue разбирает дату из ответа API; пустое значение - ok=false.
func timeValue(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func boolValue(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	}
	return false
}

// ActiveOnly оставляет записи с истинным флагом column (is_active, is_published).
func ActiveOnly(items []client.Record, column string) []client.Record {
	out := make([]client.Record, 0, len(items))
	for _, it := range items {
		if boolValue(it[column]) {
			out = append(out, it)
		}
	}
	return out
}

// SortByOrder - устойчивая сортировка по возрастанию order. Исходный срез не меняется.
func SortByOrder(items []client.Record) []client.Record {
	out := append([]client.Record(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return intValue(out[i]["order"]) < intValue(out[j]["order"])
	})
	return out
}

func FilterByType(items []client.Record, column, value string) []client.Record {
	out := make([]client.Record, 0, len(items))
	for _, it := range items {
		if s, _ := it[column].(string); s == value {
			out = append(out, it)
		}
	}
	return out
}
