package schema

import (
	"strings"

	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/i18n"
)

// Validate проверяет обязательные поля. Для локализованных полей обязателен
// только канонический вариант _ru. При partial=true проверяются лишь
// присланные колонки.
func (e *Entity) Validate(record map[string]any, partial bool) error {
	return e.validate(record, record, partial)
}

// ValidateUpdate проверяет частичное изменение patch: обязательность - по
// присланным колонкам, межполевые проверки (даты мероприятия) - по stored с
// наложенным patch.
func (e *Entity) ValidateUpdate(stored, patch map[string]any) error {
	merged := make(map[string]any, len(stored)+len(patch))
	for k, v := range stored {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return e.validate(patch, merged, true)
}

func (e *Entity) validate(record, checked map[string]any, partial bool) error {
	var verr *apperrors.ValidationError

	for _, f := range e.Fields {
		if !f.Required {
			continue
		}
		col := f.Name
		if f.Localized() {
			col = i18n.Column(f.Name, i18n.Canonical)
		}
		val, present := record[col]
		if partial && !present {
			continue
		}
		if isBlank(f, val) {
			verr = verr.Add(col, "обязательное поле")
		}
	}

	if e.Check != nil {
		for col, msg := range e.Check(checked) {
			verr = verr.Add(col, msg)
		}
	}

	if verr != nil {
		return verr
	}
	return nil
}

func isBlank(f Field, val any) bool {
	switch f.Kind {
	case Number, Reference:
		n, ok := val.(int64)
		return !ok || (f.Kind == Reference && n <= 0)
	case Boolean:
		_, ok := val.(bool)
		return !ok
	case Timestamp:
		return val == nil
	default:
		s, _ := val.(string)
		return strings.TrimSpace(s) == ""
	}
}
