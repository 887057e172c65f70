// Package i18n хранит соглашение о локализованных полях X_ru / X_uz / X_en
// и выбор активной локали.
package i18n

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type Locale string

const (
	RU Locale = "ru"
	UZ Locale = "uz"
	EN Locale = "en"

	// Canonical - локаль, на которую откатывается Resolve.
	Canonical = RU
	Default   = RU

	// LangParam - query-параметр выбора языка.
	LangParam = "lang"
	// LangHeader - заголовок, которым клиент передаёт язык.
	LangHeader = "Lang"
)

var supported = []Locale{RU, UZ, EN}

var matcher = language.NewMatcher([]language.Tag{
	language.Russian,
	language.Uzbek,
	language.English,
})

// Supported возвращает локали в порядке отображения.
func Supported() []Locale {
	out := make([]Locale, len(supported))
	copy(out, supported)
	return out
}

func (l Locale) String() string { return string(l) }

func (l Locale) Valid() bool {
	switch l {
	case RU, UZ, EN:
		return true
	}
	return false
}

// ParseLocale принимает "ru", "uz", "en" и BCP-47 варианты вроде "uz-Latn-UZ".
func ParseLocale(value string) (Locale, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if l := Locale(strings.ToLower(value)); l.Valid() {
		return l, true
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return supported[idx], true
}

// Normalize приводит произвольную строку к поддерживаемой локали или к Default.
func Normalize(value string) Locale {
	if l, ok := ParseLocale(value); ok {
		return l
	}
	return Default
}

// Negotiate выбирает локаль запроса: ?lang=, затем заголовок Lang,
// затем Accept-Language, иначе Default.
func Negotiate(r *http.Request) Locale {
	if r == nil {
		return Default
	}
	if l, ok := ParseLocale(r.URL.Query().Get(LangParam)); ok {
		return l
	}
	if l, ok := ParseLocale(r.Header.Get(LangHeader)); ok {
		return l
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			if _, idx, conf := matcher.Match(tags...); conf != language.No {
				return supported[idx]
			}
		}
	}
	return Default
}

type ctxKey struct{}

func WithLocale(ctx context.Context, l Locale) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext возвращает локаль из контекста или Default.
func FromContext(ctx context.Context) Locale {
	if l, ok := ctx.Value(ctxKey{}).(Locale); ok && l.Valid() {
		return l
	}
	return Default
}
