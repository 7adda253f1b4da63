// Package localstore provides the durable key-value persistence used by
// client-side state: the guest cart and the staff session. Values are opaque
// strings keyed by a fixed namespace key.
package localstore

import (
	"os"
	"path/filepath"
	"sync"
)

// Store persists string values under fixed keys.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (m *MemStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemStore) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *MemStore) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

// FileStore keeps each key in its own file under a directory. Writes are
// fire-and-forget: errors are reported to onError (if set) and otherwise
// dropped, matching the cart's persistence contract.
type FileStore struct {
	dir     string
	onError func(op, key string, err error)
	mu      sync.Mutex
}

// NewFileStore creates a file-backed store rooted at dir.
func NewFileStore(dir string, onError func(op, key string, err error)) *FileStore {
	return &FileStore{dir: dir, onError: onError}
}

func (f *FileStore) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			f.report("get", key, err)
		}
		return "", false
	}
	return string(data), true
}

func (f *FileStore) Set(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		f.report("set", key, err)
		return
	}
	if err := os.WriteFile(f.path(key), []byte(value), 0o644); err != nil {
		f.report("set", key, err)
	}
}

func (f *FileStore) Remove(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		f.report("remove", key, err)
	}
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileStore) report(op, key string, err error) {
	if f.onError != nil {
		f.onError(op, key, err)
	}
}
