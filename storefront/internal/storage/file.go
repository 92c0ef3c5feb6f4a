package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File keeps every key in a single JSON object on disk. Writes go through a
// temp file and rename so a crash never leaves a half-written state file.
type File struct {
	Path string
	mu   sync.Mutex
}

func NewFile(path string) *File {
	return &File{Path: path}
}

// DefaultPath is $FOODZONE_STATE, or ~/.foodzone/state.json.
func DefaultPath() string {
	if p := os.Getenv("FOODZONE_STATE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".foodzone", "state.json")
	}
	return filepath.Join(home, ".foodzone", "state.json")
}

func (f *File) Get(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value
	return f.write(values)
}

func (f *File) Remove(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.write(values)
}

func (f *File) read() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}
	return values, nil
}

func (f *File) write(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".state-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}

var _ Local = (*File)(nil)
