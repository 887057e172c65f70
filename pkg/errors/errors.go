package errors

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrUnauthorized       = fmt.Errorf("неавторизован")
	ErrForbidden          = fmt.Errorf("доступ запрещён")
	ErrTooManyRequests    = fmt.Errorf("слишком много попыток, попробуйте позже")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")
	ErrUserNotFound            = fmt.Errorf("пользователь не найден")

	// Общие
	ErrNotFound       = fmt.Errorf("запись не найдена")
	ErrBadRequest     = fmt.Errorf("неверный запрос")
	ErrConflict       = fmt.Errorf("запись уже существует")
	ErrUnknownEntity  = fmt.Errorf("неизвестный тип сущности")
	ErrInternalServer = fmt.Errorf("внутренняя ошибка сервера")
)

// HttpError несёт HTTP-код и сообщение для клиента; Err остаётся для логов.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

func NewBadRequestError(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message, ErrBadRequest, nil)
}

// ValidationError перечисляет поля, не прошедшие проверку: поле -> сообщение.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "ошибка валидации: " + strings.Join(parts, "; ")
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add копит ошибки по полям; nil-получатель создаёт новую ошибку.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e == nil {
		return NewValidationError(field, message)
	}
	e.Fields[field] = message
	return e
}
