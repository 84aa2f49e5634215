package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HasAPIKeyRequest takes no arguments.
type HasAPIKeyRequest struct{}

// HasAPIKeyResponse reports whether a key is stored.
type HasAPIKeyResponse struct {
	HasAPIKey bool `json:"has_api_key" jsonschema:"true when an API key is stored"`
}

// SaveAPIKeyRequest carries a Resend API key. Keys are "re_" followed by 33 characters.
type SaveAPIKeyRequest struct {
	APIKey string `json:"api_key" jsonschema:"the Resend API key" validate:"required,startswith=re_,len=36"`
}

// SaveAPIKeyResponse is empty on success.
type SaveAPIKeyResponse struct{}

// GetAPIKeyRequest takes no arguments.
type GetAPIKeyRequest struct{}

// GetAPIKeyResponse carries the stored key, if any.
type GetAPIKeyResponse struct {
	APIKey *string `json:"api_key,omitempty" jsonschema:"the stored API key, absent when not configured"`
}

// DeleteAPIKeyRequest takes no arguments.
type DeleteAPIKeyRequest struct{}

// DeleteAPIKeyResponse is empty on success.
type DeleteAPIKeyResponse struct{}

type apiKeyStore interface {
	Has() (bool, error)
	Get() (string, bool, error)
	Save(key string) error
	Delete() error
}

// NewAPIKey creates the API key tools.
func NewAPIKey(keys apiKeyStore) *APIKey {
	return &APIKey{keys: keys}
}

// APIKey manages the stored Resend API key.
type APIKey struct {
	keys apiKeyStore
}

// HasAPIKey reports whether an API key record exists.
func (t *APIKey) HasAPIKey(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ HasAPIKeyRequest,
) (*mcp.CallToolResult, HasAPIKeyResponse, error) {
	has, err := t.keys.Has()
	if err != nil {
		return nil, HasAPIKeyResponse{}, displayError(err)
	}

	return nil, HasAPIKeyResponse{HasAPIKey: has}, nil
}

// SaveAPIKey validates the key format and stores it, replacing any previous key.
func (t *APIKey) SaveAPIKey(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SaveAPIKeyRequest,
) (*mcp.CallToolResult, SaveAPIKeyResponse, error) {
	if err := validateInput(input); err != nil {
		return nil, SaveAPIKeyResponse{}, displayError(err)
	}

	if err := t.keys.Save(input.APIKey); err != nil {
		return nil, SaveAPIKeyResponse{}, displayError(err)
	}

	return nil, SaveAPIKeyResponse{}, nil
}

// GetAPIKey returns the stored key; an unconfigured key is not an error.
func (t *APIKey) GetAPIKey(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ GetAPIKeyRequest,
) (*mcp.CallToolResult, GetAPIKeyResponse, error) {
	key, ok, err := t.keys.Get()
	if err != nil {
		return nil, GetAPIKeyResponse{}, displayError(err)
	}
	if !ok {
		return nil, GetAPIKeyResponse{}, nil
	}

	return nil, GetAPIKeyResponse{APIKey: &key}, nil
}

// DeleteAPIKey removes the stored key. Deleting a missing key succeeds.
func (t *APIKey) DeleteAPIKey(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ DeleteAPIKeyRequest,
) (*mcp.CallToolResult, DeleteAPIKeyResponse, error) {
	if err := t.keys.Delete(); err != nil {
		return nil, DeleteAPIKeyResponse{}, displayError(err)
	}

	return nil, DeleteAPIKeyResponse{}, nil
}
