package model

import (
	"errors"
	"fmt"
)

var (
	ErrAllProvidersFailed = errors.New("all search providers failed")

	ErrNetwork           = errors.New("provider network error")
	ErrAuth              = errors.New("provider authentication error")
	ErrQuota             = errors.New("provider quota exceeded")
	ErrMalformedResponse = errors.New("malformed provider response")
	ErrTimeout           = errors.New("provider timed out")
)

type ErrorKind string

const (
	KindNetwork   ErrorKind = "network"
	KindAuth      ErrorKind = "auth"
	KindQuota     ErrorKind = "quota"
	KindMalformed ErrorKind = "malformed"
	KindTimeout   ErrorKind = "timeout"
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindAuth:
		return ErrAuth
	case KindQuota:
		return ErrQuota
	case KindMalformed:
		return ErrMalformedResponse
	case KindTimeout:
		return ErrTimeout
	default:
		return ErrNetwork
	}
}

// ProviderError is a failure of a single adapter. It is never fatal to an
// aggregate search on its own.
type ProviderError struct {
	Provider Source
	Kind     ErrorKind
	Err      error
}

func NewProviderError(provider Source, kind ErrorKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Provider, e.Kind.sentinel())
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind, so callers can write
// errors.Is(err, model.ErrQuota).
func (e *ProviderError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// AsProviderError wraps err as a ProviderError for provider unless it already
// is one. Unclassified errors are treated as network failures.
func AsProviderError(provider Source, err error) *ProviderError {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		if pe.Provider == "" {
			pe.Provider = provider
		}
		return pe
	}
	return NewProviderError(provider, KindNetwork, err)
}

// AggregateError is returned when every configured adapter failed.
type AggregateError struct {
	Errors []*ProviderError
}

func (e *AggregateError) Error() string {
	errs := make([]error, len(e.Errors))
	for i, pe := range e.Errors {
		errs[i] = pe
	}
	return fmt.Sprintf("%s: %v", ErrAllProvidersFailed, errors.Join(errs...))
}

func (e *AggregateError) Is(target error) bool {
	return target == ErrAllProvidersFailed
}

func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, pe := range e.Errors {
		errs[i] = pe
	}
	return errs
}
