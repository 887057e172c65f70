package public

import "errors"

var (
	ErrBusy        = errors.New("заявка уже отправляется")
	ErrInvalidForm = errors.New("заполнены не все обязательные поля")
)
