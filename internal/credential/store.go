// Package credential manages the single Resend API key kept in the settings store.
package credential

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/hal9000y/resend-mcp/internal/apperr"
)

// RecordKey is the settings key holding the API key.
const RecordKey = "resend_api_key"

type kv interface {
	Get(key string) (json.RawMessage, bool, error)
	Set(key string, value json.RawMessage) error
	Delete(key string) (bool, error)
	Save() error
}

// Store reads and writes the API key record.
type Store struct {
	kv kv
}

// NewStore creates a Store on top of a settings key-value store.
func NewStore(kv kv) *Store {
	return &Store{kv: kv}
}

// Has reports whether an API key record exists.
func (s *Store) Has() (bool, error) {
	_, ok, err := s.kv.Get(RecordKey)
	if err != nil {
		return false, apperr.StoreUnavailable("load store", err)
	}

	return ok, nil
}

// Get returns the stored API key. A missing record is not an error.
func (s *Store) Get() (string, bool, error) {
	raw, ok, err := s.kv.Get(RecordKey)
	if err != nil {
		return "", false, apperr.StoreUnavailable("load store", err)
	}
	if !ok {
		log.Println("API key not found")
		return "", false, nil
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false, fmt.Errorf("json.Unmarshal failed: %w", apperr.ErrCredentialCorrupt)
	}

	key, ok := value.(string)
	if !ok {
		return "", false, fmt.Errorf("stored value is %T: %w", value, apperr.ErrCredentialCorrupt)
	}

	return key, true, nil
}

// Save stores key, replacing any previous value, and flushes the store.
func (s *Store) Save(key string) error {
	raw, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("json.Marshal failed: %w", err)
	}

	if err := s.kv.Set(RecordKey, raw); err != nil {
		return apperr.StoreUnavailable("load store", err)
	}

	if err := s.kv.Save(); err != nil {
		return apperr.StoreUnavailable("save store", err)
	}

	log.Println("API key saved")

	return nil
}

// Delete removes the API key record and flushes the store.
func (s *Store) Delete() error {
	deleted, err := s.kv.Delete(RecordKey)
	if err != nil {
		return apperr.StoreUnavailable("load store", err)
	}

	if !deleted {
		log.Println("Warning: API key was not found in store")
	}

	if err := s.kv.Save(); err != nil {
		return apperr.StoreUnavailable("save store", err)
	}

	log.Println("API key deleted")

	return nil
}
