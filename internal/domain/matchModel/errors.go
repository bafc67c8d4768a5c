package matchModel

import (
	"errors"
	"fmt"
)

// ErrDomain marks failures caused by the input itself. Retrying will not help.
var ErrDomain = errors.New("domain error")

var (
	ErrEmptyDocument     = fmt.Errorf("%w: empty document cannot be matched", ErrDomain)
	ErrDimensionMismatch = fmt.Errorf("%w: vector dimensions differ", ErrDomain)
	ErrZeroNorm          = fmt.Errorf("%w: zero-norm vector has no direction", ErrDomain)
	ErrEmptyVector       = fmt.Errorf("%w: empty vector", ErrDomain)
	ErrInvalidChunkSize  = fmt.Errorf("%w: chunk size must be positive", ErrDomain)
)

// ErrNonFiniteVector marks an embedding response carrying NaN or Inf.
var ErrNonFiniteVector = errors.New("embedding contains non-finite values")

// UpstreamError wraps a failed call to OCR or the embedding service.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s service failed: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func NewUpstreamError(service string, err error) error {
	return &UpstreamError{Service: service, Err: err}
}

// StoreError wraps a failed object store operation.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func IsDomainError(err error) bool {
	return errors.Is(err, ErrDomain)
}

func IsUpstreamError(err error) bool {
	var up *UpstreamError
	return errors.As(err, &up)
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// ErrorKind names the taxonomy bucket of err, used for logs and metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsDomainError(err):
		return "domain"
	case IsUpstreamError(err):
		return "upstream"
	case IsStoreError(err):
		return "store"
	default:
		return "internal"
	}
}
