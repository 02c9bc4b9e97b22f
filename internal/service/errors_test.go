package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sony/gobreaker"

	"vaultmind/internal/health"
	"vaultmind/internal/indexer"
	"vaultmind/internal/memory"
	"vaultmind/internal/storage"
	"vaultmind/internal/vault"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "field and message",
			err: &ValidationError{
				Field:   "content",
				Message: "is required",
			},
			want: "validation error on field content: is required",
		},
		{
			name: "empty field",
			err: &ValidationError{
				Field:   "",
				Message: "invalid",
			},
			want: "validation error on field : invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("ValidationError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := error(&ValidationError{Field: "x", Message: "bad", Err: cause})

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("errors.Is(err, ErrInvalidInput) = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if !errors.Is(&ValidationError{Field: "x"}, ErrInvalidInput) {
		t.Error("ValidationError without cause should still match ErrInvalidInput")
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    error
		wantOut string
	}{
		{name: "nil", err: nil, want: nil, wantOut: "ok"},
		{name: "vault not found", err: fmt.Errorf("load: %w", vault.ErrNotFound), want: ErrNotFound, wantOut: "not_found"},
		{name: "unknown concept", err: storage.ErrNotFound, want: ErrNotFound, wantOut: "not_found"},
		{name: "corpus too large", err: indexer.ErrCorpusTooLarge, want: ErrCorpusTooLarge, wantOut: "too_large"},
		{name: "deadline", err: fmt.Errorf("list: %w", context.DeadlineExceeded), want: ErrTimeout, wantOut: "timeout"},
		{name: "cancelled", err: context.Canceled, want: ErrTimeout, wantOut: "timeout"},
		{name: "store corrupt", err: storage.ErrUnavailable, want: ErrStoreUnavailable, wantOut: "unavailable"},
		{name: "breaker open", err: gobreaker.ErrOpenState, want: ErrStoreUnavailable, wantOut: "unavailable"},
		{name: "invalid record", err: memory.ErrInvalidRecord, want: ErrInvalidInput, wantOut: "invalid"},
		{name: "invalid query", err: memory.ErrInvalidQuery, want: ErrInvalidInput, wantOut: "invalid"},
		{name: "invalid weights", err: health.ErrInvalidWeights, want: ErrInvalidInput, wantOut: "invalid"},
		{name: "disabled passes through", err: ErrFeatureDisabled, want: ErrFeatureDisabled, wantOut: "disabled"},
		{name: "unknown stays unknown", err: errors.New("boom"), want: nil, wantOut: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Errorf("mapError(nil) = %v, want nil", got)
				}
			} else {
				if tt.want != nil && !errors.Is(got, tt.want) {
					t.Errorf("mapError() = %v, want errors.Is %v", got, tt.want)
				}
				if !errors.Is(got, tt.err) {
					t.Errorf("mapError() = %v, lost cause %v", got, tt.err)
				}
			}
			if o := outcome(got); o != tt.wantOut {
				t.Errorf("outcome() = %q, want %q", o, tt.wantOut)
			}
		})
	}
}

func TestIsCollaboratorFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "not found", err: storage.ErrNotFound, want: false},
		{name: "invalid", err: memory.ErrInvalidRecord, want: false},
		{name: "cancelled", err: context.Canceled, want: false},
		{name: "too large", err: indexer.ErrCorpusTooLarge, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "io", err: errors.New("input/output error"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isCollaboratorFailure(tt.err); got != tt.want {
				t.Errorf("isCollaboratorFailure(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
