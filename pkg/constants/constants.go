// pkg/constants/constants.go
package constants

import "time"

//============== CACHE KEYS ==============

const (
	// PublicListCachePrefix - кешированные публичные списки: public:list:<entity>:v<версия>:<параметры>.
	PublicListCachePrefix = "public:list:"
	// PublicVersionKeyPrefix - счётчик версии списка сущности, растёт при каждом изменении.
	PublicVersionKeyPrefix = "public:ver:"
	// LoginAttemptsKeyPrefix - счётчик неудачных входов по логину.
	LoginAttemptsKeyPrefix = "auth:attempts:"
)

//============== HTTP ==============

const (
	// RequestTimeout ограничивает обращения к БД и Redis из обработчиков.
	RequestTimeout   = 10 * time.Second
	DefaultListLimit = 100
	MaxListLimit     = 500
)
