// Package memory хранит корзины в памяти процесса для локального запуска и тестов.
package memory

import (
	"context"
	"sync"
)

type CartStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewCartStorage() *CartStorage {
	return &CartStorage{data: make(map[string]string)}
}

func (s *CartStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	return v, ok, nil
}

func (s *CartStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return nil
}

func (s *CartStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return nil
}
