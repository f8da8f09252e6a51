package domain

import (
	"errors"
	"fmt"
)

// Failure kinds a platform fetch can end with. None of them is shown to chat users;
// they all collapse to the platform's apology text.
var (
	ErrTransport = errors.New("transport error")
	ErrUpstream  = errors.New("upstream error")
	ErrNotFound  = errors.New("not found")
	ErrConfig    = errors.New("configuration error")
)

// FetchError is the only error a platform returns from Fetch.
type FetchError struct {
	Platform string
	Kind     error
	Err      error
}

// NewFetchError wraps err as a failure of the given kind.
func NewFetchError(platform string, kind, err error) *FetchError {
	return &FetchError{Platform: platform, Kind: kind, Err: err}
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Platform, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Platform, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns a short label for the failure kind of err, for logs.
func KindOf(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrConfig):
		return "config"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	default:
		return "unknown"
	}
}
