package validation

import (
	"reflect"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
)

// registerNullTypes отдаёт валидатору значение внутри null.*; пустое значение
// становится nil, и `omitempty` пропускает поле (event_id у заявки на школу).
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		switch val := field.Interface().(type) {
		case null.Int64:
			if val.Valid {
				return val.Int64
			}
		case null.String:
			if val.Valid {
				return val.String
			}
		}
		return nil
	}, null.Int64{}, null.String{})
}
