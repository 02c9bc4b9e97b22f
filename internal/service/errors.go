package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"

	"vaultmind/internal/health"
	"vaultmind/internal/indexer"
	"vaultmind/internal/memory"
	"vaultmind/internal/storage"
	"vaultmind/internal/vault"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested document or concept is not found.
	ErrNotFound = errors.New("not found")
	// ErrCorpusTooLarge is returned when the vault exceeds the document ceiling.
	ErrCorpusTooLarge = errors.New("corpus too large")
	// ErrTimeout is returned when an operation exceeds its deadline.
	ErrTimeout = errors.New("operation timed out")
	// ErrStoreUnavailable is returned when a collaborator store is unreachable or corrupt.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrFeatureDisabled is returned when an operation's capability is turned off.
	ErrFeatureDisabled = errors.New("feature disabled")
)

// ValidationError represents a validation error with a field name.
// It matches ErrInvalidInput with errors.Is, as well as its cause.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Unwrap returns ErrInvalidInput and the underlying cause, if any.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidInput}
	}
	return []error{ErrInvalidInput, e.Err}
}

// mapError translates leaf package errors into the service taxonomy while
// keeping the original cause in the chain.
func mapError(err error) error {
	var ve *ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ve),
		errors.Is(err, ErrFeatureDisabled),
		errors.Is(err, ErrTimeout),
		errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrCorpusTooLarge):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, memory.ErrInvalidRecord),
		errors.Is(err, memory.ErrInvalidQuery),
		errors.Is(err, health.ErrInvalidWeights):
		return &ValidationError{Message: err.Error(), Err: err}
	case errors.Is(err, vault.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, indexer.ErrCorpusTooLarge):
		return fmt.Errorf("%w: %w", ErrCorpusTooLarge, err)
	case errors.Is(err, storage.ErrUnavailable),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}

// isCollaboratorFailure reports whether err signals a broken collaborator
// rather than a bad request or an expected miss. Breakers count only these.
func isCollaboratorFailure(err error) bool {
	if err == nil {
		return false
	}
	for _, expected := range []error{
		context.Canceled,
		vault.ErrNotFound,
		storage.ErrNotFound,
		indexer.ErrCorpusTooLarge,
		memory.ErrInvalidRecord,
		memory.ErrInvalidQuery,
	} {
		if errors.Is(err, expected) {
			return false
		}
	}
	return true
}

// outcome labels an error for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrCorpusTooLarge):
		return "too_large"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrStoreUnavailable):
		return "unavailable"
	case errors.Is(err, ErrFeatureDisabled):
		return "disabled"
	}
	return "error"
}
