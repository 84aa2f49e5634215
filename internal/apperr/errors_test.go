package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hal9000y/resend-mcp/internal/apperr"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected apperr.Kind
	}{
		{name: "missing", err: apperr.ErrCredentialMissing, expected: apperr.KindCredentialMissing},
		{name: "wrapped store", err: fmt.Errorf("has: %w", apperr.StoreUnavailable("load store", errors.New("eof"))), expected: apperr.KindStoreUnavailable},
		{name: "remote", err: apperr.Remote("fetch email", errors.New("boom")), expected: apperr.KindRemoteFailure},
		{name: "plain", err: errors.New("plain"), expected: apperr.KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, apperr.KindOf(tc.err))
		})
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("svc: %w", apperr.Remote("send email", errors.New("[ERROR]: invalid from")))

	assert.ErrorIs(t, err, apperr.ErrRemoteFailure)
	assert.NotErrorIs(t, err, apperr.ErrCredentialMissing)
}

func TestDisplay(t *testing.T) {
	cases := []struct {
		err      error
		expected string
	}{
		{err: apperr.ErrCredentialMissing, expected: "[ERROR] API key not configured"},
		{err: apperr.ErrCredentialCorrupt, expected: "[ERROR] API key is not a string"},
		{err: apperr.StoreUnavailable("save store", errors.New("read-only fs")), expected: "[ERROR] Failed to save store: read-only fs"},
		{err: fmt.Errorf("list: %w", apperr.Remote("fetch sent emails", errors.New("timeout"))), expected: "[ERROR] Failed to fetch sent emails: timeout"},
		{err: errors.New("unexpected"), expected: "[ERROR] unexpected"},
	}

	for _, tc := range cases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, apperr.Display(tc.err))
		})
	}
}
