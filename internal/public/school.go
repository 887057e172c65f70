package public

import (
	"context"
	"strings"
	"sync"

	"rheuma-portal/pkg/client"
	"rheuma-portal/pkg/constants"
)

type RegistrationSubmitter interface {
	SubmitRegistration(ctx context.Context, in client.RegistrationInput) (*client.Registration, error)
}

const requiredFieldMessage = "Обязательное поле"

// SchoolForm - форма записи в школу ревматолога.
type SchoolForm struct {
	mu sync.Mutex

	LastName       string
	FirstName      string
	MiddleName     string
	Phone          string
	City           string
	Category       string
	INN            string
	Email          string
	Specialization string
	Workplace      string
	// EventID - выбранное мероприятие; nil уходит как null.
	EventID *uint64

	Success    bool
	Submitting bool
	Errors     map[string]string
}

func (f *SchoolForm) required() map[string]string {
	return map[string]string{
		"last_name":      f.LastName,
		"first_name":     f.FirstName,
		"phone":          f.Phone,
		"city":           f.City,
		"category":       f.Category,
		"inn":            f.INN,
		"email":          f.Email,
		"specialization": f.Specialization,
		"workplace":      f.Workplace,
	}
}

// Validate заполняет Errors незаполненными обязательными полями.
func (f *SchoolForm) Validate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validate()
}

func (f *SchoolForm) validate() bool {
	f.Errors = map[string]string{}
	for field, value := range f.required() {
		if strings.TrimSpace(value) == "" {
			f.Errors[field] = requiredFieldMessage
		}
	}
	return len(f.Errors) == 0
}

// Submit отправляет заявку. При успехе Success = true и поля очищаются.
func (f *SchoolForm) Submit(ctx context.Context, api RegistrationSubmitter) error {
	f.mu.Lock()
	if f.Submitting {
		f.mu.Unlock()
		return ErrBusy
	}
	f.Success = false
	if !f.validate() {
		f.mu.Unlock()
		return ErrInvalidForm
	}
	in := client.RegistrationInput{
		SchoolType:     constants.SchoolTypeRheumatologist,
		EventID:        f.EventID,
		LastName:       f.LastName,
		FirstName:      f.FirstName,
		MiddleName:     f.MiddleName,
		Phone:          f.Phone,
		City:           f.City,
		Category:       f.Category,
		INN:            f.INN,
		Email:          f.Email,
		Specialization: f.Specialization,
		Workplace:      f.Workplace,
	}
	f.Submitting = true
	f.mu.Unlock()

	_, err := api.SubmitRegistration(ctx, in)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Submitting = false
	if err != nil {
		return err
	}
	f.Success = true
	f.reset()
	return nil
}

func (f *SchoolForm) reset() {
	f.LastName, f.FirstName, f.MiddleName = "", "", ""
	f.Phone, f.City, f.Category, f.INN = "", "", "", ""
	f.Email, f.Specialization, f.Workplace = "", "", ""
	f.EventID = nil
	f.Errors = map[string]string{}
}
