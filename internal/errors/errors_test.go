// Package errors provides unit tests for error code handling.
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

// TestAppErrorMessage tests the formatted error string.
func TestAppErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrPostNotFound, "post missing"),
			want: "[POST_NOT_FOUND] post missing",
		},
		{
			name: "with cause",
			err:  Wrap(ErrStorage, "update failed", fmt.Errorf("disk full")),
			want: "[STORAGE_ERROR] update failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestUnwrap tests that the cause survives wrapping.
func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("constraint violated")
	err := Wrap(ErrConstraint, "insert rejected", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}

// TestIs tests code matching.
func TestIs(t *testing.T) {
	err := New(ErrTagNotFound, "no such tag")

	if !Is(err, ErrTagNotFound) {
		t.Error("Is() should match the carried code")
	}
	if Is(err, ErrPostNotFound) {
		t.Error("Is() matched the wrong code")
	}
	if Is(fmt.Errorf("plain"), ErrTagNotFound) {
		t.Error("Is() matched a plain error")
	}
}

// TestCodeOf tests code extraction with the plain-error fallback.
func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(ErrPageNotFound, "x")); got != ErrPageNotFound {
		t.Errorf("CodeOf() = %v, want %v", got, ErrPageNotFound)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != ErrInternal {
		t.Errorf("CodeOf(plain) = %v, want %v", got, ErrInternal)
	}
}
