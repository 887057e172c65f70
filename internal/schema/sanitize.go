package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "rheuma-portal/pkg/errors"
)

// Форматы дат, которые приходят из форм админки.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (e *Entity) columnFields() map[string]Field {
	out := make(map[string]Field)
	for _, f := range e.Fields {
		for _, col := range f.Columns() {
			out[col] = f
		}
	}
	return out
}

// Sanitize оставляет только известные колонки и приводит значения к типам колонок.
// id и системные колонки отбрасываются. При partial=false отсутствующие колонки
// заполняются значениями из EmptyTemplate.
func (e *Entity) Sanitize(input map[string]any, partial bool) (map[string]any, error) {
	fields := e.columnFields()
	out := make(map[string]any)
	var verr *apperrors.ValidationError

	for _, col := range sortedKeys(fields) {
		raw, sent := input[col]
		if !sent {
			continue
		}
		val, err := coerce(fields[col], raw)
		if err != nil {
			verr = verr.Add(col, err.Error())
			continue
		}
		out[col] = val
	}
	if verr != nil {
		return nil, verr
	}

	if !partial {
		for col, val := range e.EmptyTemplate() {
			if _, ok := out[col]; !ok {
				out[col] = val
			}
		}
	}
	return out, nil
}

func coerce(f Field, raw any) (any, error) {
	switch f.Kind {
	case LocalizedText, LocalizedTextarea, Text, File:
		if raw == nil {
			return "", nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("ожидается строка")
		}
		return strings.TrimSpace(s), nil

	case Select:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("ожидается строка")
		}
		if !slices.Contains(f.Options, s) {
			return nil, fmt.Errorf("допустимые значения: %s", strings.Join(f.Options, ", "))
		}
		return s, nil

	case Number, Reference:
		if raw == nil {
			return int64(0), nil
		}
		return toInt64(raw)

	case Boolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("ожидается true или false")
			}
			return b, nil
		}
		return nil, fmt.Errorf("ожидается true или false")

	case Timestamp:
		switch v := raw.(type) {
		case nil:
			return nil, nil
		case time.Time:
			return v, nil
		case string:
			if strings.TrimSpace(v) == "" {
				return nil, nil
			}
			for _, layout := range timestampLayouts {
				if t, err := time.Parse(layout, v); err == nil {
					return t, nil
				}
			}
		}
		return nil, fmt.Errorf("неверный формат даты")
	}
	return nil, fmt.Errorf("неизвестный тип поля %q", f.Kind)
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("число вне диапазона")
		}
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("ожидается целое число")
		}
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("ожидается целое число")
		}
		return n, nil
	}
	return 0, fmt.Errorf("ожидается целое число")
}
