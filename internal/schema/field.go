// Package schema описывает типы контента сайта: какие поля есть у сущности,
// какие из них локализованы и как их проверять. Одно описание обслуживает
// хранилище, REST API и экраны админки.
package schema

import (
	"rheuma-portal/pkg/i18n"
)

type Kind string

const (
	LocalizedText     Kind = "localized-text"
	LocalizedTextarea Kind = "localized-textarea"
	Text              Kind = "text"
	File              Kind = "file"
	Number            Kind = "number"
	Boolean           Kind = "boolean"
	Select            Kind = "select"
	Timestamp         Kind = "timestamp"
	Reference         Kind = "reference"
)

type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Default  any
	// Options - допустимые значения для Select.
	Options []string
	// References - имя сущности, на которую ссылается Reference.
	References string
	// UploadContext - ключ config.UploadContexts для File.
	UploadContext string
}

func (f Field) Localized() bool {
	return f.Kind == LocalizedText || f.Kind == LocalizedTextarea
}

// Columns возвращает колонки поля: три для локализованных, одну для остальных.
func (f Field) Columns() []string {
	if f.Localized() {
		return i18n.Columns(f.Name)
	}
	return []string{f.Name}
}

func (f Field) zero() any {
	if f.Default != nil {
		return f.Default
	}
	switch f.Kind {
	case Number, Reference:
		return int64(0)
	case Boolean:
		return false
	case Timestamp:
		return nil
	case Select:
		if len(f.Options) > 0 {
			return f.Options[0]
		}
		return ""
	default:
		return ""
	}
}
