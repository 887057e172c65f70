package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"rheuma-portal/pkg/constants"
	"rheuma-portal/pkg/i18n"
)

var (
	uzPhoneRegex = regexp.MustCompile(`^\+998\d{9}$`)
	innRegex     = regexp.MustCompile(`^\d{9}(\d{5})?$`)
)

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("uz_phone", isUzbekPhoneNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("locale", isSupportedLocale); err != nil {
		return err
	}
	if err := v.RegisterValidation("role", isKnownRole); err != nil {
		return err
	}
	if err := v.RegisterValidation("inn", isINN); err != nil {
		return err
	}
	if err := v.RegisterValidation("notblank", isNotBlank); err != nil {
		return err
	}
	return nil
}

// registerJSONNames - в ошибках валидации поля называются так же, как в JSON.
func registerJSONNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// isUzbekPhoneNumber - +998 и 9 цифр; пробелы, скобки и дефисы допускаются.
func isUzbekPhoneNumber(fl validator.FieldLevel) bool {
	return uzPhoneRegex.MatchString(NormalizePhone(fl.Field().String()))
}

func isSupportedLocale(fl validator.FieldLevel) bool {
	return i18n.Locale(strings.ToLower(strings.TrimSpace(fl.Field().String()))).Valid()
}

func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func isKnownRole(fl validator.FieldLevel) bool {
	return constants.IsRole(fl.Field().String())
}

// isINN - ИНН: 9 цифр у организаций, 14 (ПИНФЛ) у физлиц.
func isINN(fl validator.FieldLevel) bool {
	return innRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

// NormalizePhone убирает всё, кроме цифр и ведущего плюса.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
