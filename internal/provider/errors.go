package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind categorizes a provider failure so the orchestrator can decide
// whether to retry the same provider, fail over, or abort.
type ErrorKind string

const (
	KindAuth             ErrorKind = "auth"
	KindRateLimit        ErrorKind = "rate_limit"
	KindTimeout          ErrorKind = "timeout"
	KindMalformedRequest ErrorKind = "malformed_request"
	KindUnknown          ErrorKind = "unknown"
)

// Error is a provider failure tagged with its kind.
type Error struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a kind-tagged provider error.
func NewError(provider string, kind ErrorKind, err error) *Error {
	return &Error{Provider: provider, Kind: kind, Err: err}
}

// KindOf returns the kind of a provider error in the chain, or KindUnknown.
func KindOf(err error) ErrorKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// Retryable reports whether the same provider is worth retrying. Auth and
// malformed-request failures are not recoverable by retrying.
func Retryable(kind ErrorKind) bool {
	return kind == KindRateLimit || kind == KindTimeout
}

// Classify tags err with the kind inferred from the HTTP status and the
// error chain. Pass status 0 when no HTTP response was received.
func Classify(providerID string, status int, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(providerID, KindTimeout, err)
	}

	switch status {
	case 401, 403:
		return NewError(providerID, KindAuth, err)
	case 429:
		return NewError(providerID, KindRateLimit, err)
	case 408, 504:
		return NewError(providerID, KindTimeout, err)
	case 400, 404, 413, 422:
		return NewError(providerID, KindMalformedRequest, err)
	}
	return NewError(providerID, KindUnknown, err)
}
