package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// TokenStorageKey is the single key the state holder persists under.
const TokenStorageKey = "token"

// MemoryStorage is an in-process TokenStorage, mostly useful in tests.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ TokenStorage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values: map[string]string{},
	}
}

func (m *MemoryStorage) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// FileStorage persists values as files under a directory, one file per key,
// so the session survives process restarts.
type FileStorage struct {
	dir string
}

var _ TokenStorage = (*FileStorage)(nil)

// NewFileStorage creates the backing directory if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		return nil, goerrors.New("storage directory is required", goerrors.CategoryBadInput)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create storage directory")
	}

	return &FileStorage{dir: dir}, nil
}

func (f *FileStorage) Get(key string) (string, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read stored value")
	}
	return strings.TrimSpace(string(data)), nil
}

func (f *FileStorage) Set(key, value string) error {
	if err := os.WriteFile(f.path(key), []byte(value), 0o600); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist value")
	}
	return nil
}

func (f *FileStorage) Remove(key string) error {
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to remove stored value")
	}
	return nil
}

func (f *FileStorage) path(key string) string {
	return filepath.Join(f.dir, key)
}
