// Package apperr defines the closed set of failures surfaced to callers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindStoreUnavailable
	KindCredentialMissing
	KindCredentialCorrupt
	KindRemoteFailure
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindStoreUnavailable:
		return "store unavailable"
	case KindCredentialMissing:
		return "credential missing"
	case KindCredentialCorrupt:
		return "credential corrupt"
	case KindRemoteFailure:
		return "remote failure"
	case KindInvalidInput:
		return "invalid input"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Op names the action that failed and is part
// of the display message ("load store", "fetch sent emails").
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrStoreUnavailable  = &Error{Kind: KindStoreUnavailable}
	ErrCredentialMissing = &Error{Kind: KindCredentialMissing}
	ErrCredentialCorrupt = &Error{Kind: KindCredentialCorrupt}
	ErrRemoteFailure     = &Error{Kind: KindRemoteFailure}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindCredentialMissing:
		return "API key not configured"
	case KindCredentialCorrupt:
		return "API key is not a string"
	}

	msg := e.Kind.String()
	if e.Op != "" {
		msg = "Failed to " + e.Op
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// StoreUnavailable wraps a settings store failure.
func StoreUnavailable(op string, err error) error {
	return &Error{Kind: KindStoreUnavailable, Op: op, Err: err}
}

// Remote wraps a transport or API failure reported by the email service.
func Remote(op string, err error) error {
	return &Error{Kind: KindRemoteFailure, Op: op, Err: err}
}

// InvalidInput wraps an argument validation failure.
func InvalidInput(err error) error {
	return &Error{Kind: KindInvalidInput, Op: "validate input", Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

// Display renders err for the front-end.
func Display(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return "[ERROR] " + e.Error()
	}

	return "[ERROR] " + err.Error()
}
