package storage

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// MemoryObject is an object held by MemoryObjectStorage
type MemoryObject struct {
	Data        []byte
	ContentType string
}

// MemoryObjectStorage keeps objects in process memory. It backs archiving
// in development without an S3 endpoint, and in tests.
type MemoryObjectStorage struct {
	// BaseURL prefixes generated download links
	BaseURL string

	mu      sync.RWMutex
	objects map[string]MemoryObject
}

// NewMemoryObjectStorage creates an empty store
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "http://localhost:9000/cotizador",
		objects: make(map[string]MemoryObject),
	}
}

// EnsureBucket always succeeds
func (m *MemoryObjectStorage) EnsureBucket(context.Context) error {
	return nil
}

// Upload stores a copy of data
func (m *MemoryObjectStorage) Upload(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = MemoryObject{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

// PresignDownload returns a fake link carrying the expiry
func (m *MemoryObjectStorage) PresignDownload(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	expiresAt := time.Now().Add(expiresIn)
	link := m.BaseURL + "/" + key + "?expires=" + url.QueryEscape(strconv.FormatInt(expiresAt.Unix(), 10))
	return link, expiresAt, nil
}

// Delete removes an object
func (m *MemoryObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Exists reports whether key was uploaded
func (m *MemoryObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

// Object returns a stored object (for tests)
func (m *MemoryObjectStorage) Object(key string) (MemoryObject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}
