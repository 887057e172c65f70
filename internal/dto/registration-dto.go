package dto

import (
	"github.com/aarondl/null/v8"
)

// CreateRegistrationDTO - форма записи в школу ревматолога или на конгресс.
// notblank отсекает строки из одних пробелов: сервис их обрезает перед сохранением.
type CreateRegistrationDTO struct {
	SchoolType     string     `json:"school_type" validate:"omitempty,max=50"`
	EventID        null.Int64 `json:"event_id" validate:"omitempty,gt=0"`
	LastName       string     `json:"last_name" validate:"required,notblank,max=100"`
	FirstName      string     `json:"first_name" validate:"required,notblank,max=100"`
	MiddleName     string     `json:"middle_name" validate:"omitempty,max=100"`
	Phone          string     `json:"phone" validate:"required,uz_phone"`
	City           string     `json:"city" validate:"required,notblank,max=100"`
	Category       string     `json:"category" validate:"required,notblank,max=100"`
	INN            string     `json:"inn" validate:"required,inn"`
	Email          string     `json:"email" validate:"required,email"`
	Specialization string     `json:"specialization" validate:"required,notblank,max=255"`
	Workplace      string     `json:"workplace" validate:"required,notblank,max=255"`
}

// LocaleQueryDTO - ?lang= у публичных списков: разворачивать ли X_ru/X_uz/X_en в X.
type LocaleQueryDTO struct {
	Lang string `json:"lang" query:"lang" validate:"omitempty,locale"`
}
