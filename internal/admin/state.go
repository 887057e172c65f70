package admin

import (
	"encoding/json"
	"errors"
)

type ListState int

const (
	ListIdle ListState = iota
	ListLoading
	ListLoaded
	// ListFailed - явное состояние ошибки: список пуст, Err() хранит причину.
	ListFailed
)

func (s ListState) String() string {
	switch s {
	case ListLoading:
		return "loading"
	case ListLoaded:
		return "loaded"
	case ListFailed:
		return "failed"
	}
	return "idle"
}

type ModalState int

const (
	ModalClosed ModalState = iota
	ModalEditing
	ModalSaving
	ModalConfirmingDelete
	ModalDeleting
)

func (s ModalState) String() string {
	switch s {
	case ModalEditing:
		return "editing"
	case ModalSaving:
		return "saving"
	case ModalConfirmingDelete:
		return "confirming_delete"
	case ModalDeleting:
		return "deleting"
	}
	return "closed"
}

// Тексты блокирующих уведомлений.
const (
	AlertUploadFailed = "Ошибка загрузки файла"
	AlertSaveFailed   = "Ошибка сохранения"
	AlertDeleteFailed = "Ошибка удаления"
)

var (
	ErrBusy         = errors.New("операция уже выполняется")
	ErrReadOnly     = errors.New("раздел доступен только для чтения")
	ErrNotEditing   = errors.New("форма редактирования не открыта")
	ErrUnknownItem  = errors.New("запись не найдена в списке")
	ErrNotFileField = errors.New("поле не принимает файлы")
	ErrNoActiveFlag = errors.New("у сущности нет флага публикации")
	ErrUnknownRole  = errors.New("неизвестная роль")
)

// deepCopy копирует запись вместе с вложенными картами и срезами,
// чтобы черновик не делил память со списком.
func deepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	case json.RawMessage:
		return append(json.RawMessage(nil), t...)
	}
	return v
}

func copyRecord(r map[string]interface{}) map[string]interface{} {
	if r == nil {
		return nil
	}
	return deepCopy(r).(map[string]interface{})
}
