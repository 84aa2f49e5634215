// Package settings implements a JSON-file backed key-value store.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// File is a key-value store persisted as a single JSON object.
// It is loaded on first use; Save writes the whole object back.
type File struct {
	mu     sync.Mutex
	path   string
	values map[string]json.RawMessage
}

// New creates a File for path. Nothing is read until the first operation.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the location of the settings file.
func (f *File) Path() string {
	return f.path
}

// Get returns the raw JSON value stored under key.
func (f *File) Get(key string) (json.RawMessage, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.load(); err != nil {
		return nil, false, err
	}

	v, ok := f.values[key]

	return v, ok, nil
}

// Set stores value under key. The change is kept in memory until Save.
func (f *File) Set(key string, value json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.load(); err != nil {
		return err
	}

	f.values[key] = value

	return nil
}

// Delete removes key and reports whether it was present.
func (f *File) Delete(key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.load(); err != nil {
		return false, err
	}

	_, ok := f.values[key]
	delete(f.values, key)

	return ok, nil
}

// Save writes the store to disk.
func (f *File) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.load(); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("os.MkdirAll failed: %w", err)
	}

	return writeAtomic(f.path, raw)
}

// writeAtomic replaces path with raw through a temporary file in the same
// directory, so readers see either the old or the new content.
func writeAtomic(path string, raw []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp failed: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Println(fmt.Errorf("os.Remove failed: %w", err))
		}
	}()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("tmp.Write failed: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("tmp.Sync failed: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close failed: %w", err)
	}

	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("os.Chmod failed: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("os.Rename failed: %w", err)
	}

	return nil
}

func (f *File) load() error {
	if f.values != nil {
		return nil
	}

	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("File %s doesn't exist, but will be created on save", f.path)
			f.values = make(map[string]json.RawMessage)

			return nil
		}

		return fmt.Errorf("os.ReadFile failed: %w", err)
	}

	values := make(map[string]json.RawMessage)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("json.Unmarshal failed: %w", err)
		}
	}
	f.values = values

	return nil
}
