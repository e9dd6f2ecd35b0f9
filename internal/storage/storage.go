package storage

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"immo-client/internal/model"
)

// Store is the durable string key/value storage the session lives in.
type Store interface {
	Get(key string) (string, error)
	Set(key string, value string) error
	Remove(key string) error
}

// FileStore keeps one file per key, written with owner-only permissions.
type FileStore struct {
	validator *KeyValidator
	mu        sync.Mutex
}

func NewFileStore(root string) (*FileStore, error) {
	validator, err := NewKeyValidator(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(validator.RootAbs(), 0o700); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &FileStore{validator: validator}, nil
}

func (s *FileStore) RootAbs() string {
	return s.validator.RootAbs()
}

func (s *FileStore) Get(key string) (string, error) {
	resolved, err := s.validator.ResolveKey(key)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(resolved)
	if errors.Is(err, os.ErrNotExist) {
		return "", model.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read %q: %w", key, err)
	}

	return string(data), nil
}

func (s *FileStore) Set(key string, value string) error {
	resolved, err := s.validator.ResolveKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.validator.RootAbs(), "."+key+"-*")
	if err != nil {
		return fmt.Errorf("create temp for %q: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %q: %w", key, err)
	}

	if err := os.Rename(tmpName, resolved); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %q: %w", key, err)
	}

	return nil
}

func (s *FileStore) Remove(key string) error {
	resolved, err := s.validator.ResolveKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(resolved); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", key, err)
	}

	return nil
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return "", model.ErrKeyNotFound
	}

	return value, nil
}

func (s *MemoryStore) Set(key string, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
