package client

import "sync"

// Ключи, которые клиент хранит между сессиями.
const (
	TokenKey    = "token"
	LanguageKey = "language"
)

// Storage - постоянное хранилище клиента (localStorage браузера, файл, память).
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStorage) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Navigator выполняет жёсткий переход на другую страницу.
type Navigator interface {
	Redirect(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Redirect(path string) { f(path) }
