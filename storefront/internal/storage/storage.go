// Package storage holds the storefront's durable client-side state: opaque
// string blobs under a small set of well-known keys.
package storage

import (
	"errors"
	"sync"
)

const (
	TokenKey    = "token"
	CartKey     = "cart"
	IdentityKey = "identity"
)

var ErrNotFound = errors.New("storage: key not found")

type Local interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Memory is a process-local Local. Nothing survives a restart.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

var _ Local = (*Memory)(nil)
