package i18n

import "fmt"

// Column возвращает имя колонки локализованного атрибута: Column("title", UZ) == "title_uz".
func Column(attribute string, l Locale) string {
	return attribute + "_" + string(l)
}

// Columns раскрывает атрибут во все три колонки.
func Columns(attribute string) []string {
	out := make([]string, 0, len(supported))
	for _, l := range supported {
		out = append(out, Column(attribute, l))
	}
	return out
}

// Resolve берёт значение атрибута для локали l, при пустом значении -
// канонический вариант _ru, иначе пустую строку. Не паникует и не
// возвращает ошибок для отсутствующих атрибутов.
func Resolve(record map[string]any, attribute string, l Locale) string {
	if v := text(record[Column(attribute, l)]); v != "" {
		return v
	}
	return text(record[Column(attribute, Canonical)])
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case fmt.Stringer:
		return t.String()
	default:
		return ""
	}
}

// Localize копирует запись и добавляет в неё разрешённые атрибуты без суффикса
// (title, name, ...) и ключ "locale".
func Localize(record map[string]any, attributes []string, l Locale) map[string]any {
	out := make(map[string]any, len(record)+len(attributes)+1)
	for k, v := range record {
		out[k] = v
	}
	for _, attr := range attributes {
		out[attr] = Resolve(record, attr, l)
	}
	out["locale"] = string(l)
	return out
}
