package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestStructuredError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StructuredError
		want string
	}{
		{"without cause", New(ErrCodeConfigInvalid, "missing"), "[CONFIG_INVALID] missing"},
		{"with cause", Wrap(ErrCodeInternal, "boom", fmt.Errorf("inner")), "[INTERNAL] boom: inner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	base := New(ErrCodeNonZeroExit, "exit 1")
	wrapped := fmt.Errorf("listing groups: %w", base)
	joined := stderrors.Join(fmt.Errorf("other"), wrapped)

	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"direct", base, ErrCodeNonZeroExit, true},
		{"wrapped", wrapped, ErrCodeNonZeroExit, true},
		{"joined", joined, ErrCodeNonZeroExit, true},
		{"different code", wrapped, ErrCodeTimeout, false},
		{"plain error", fmt.Errorf("plain"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCode(tt.err, tt.code); got != tt.want {
				t.Fatalf("IsCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(nil); got != "" {
		t.Fatalf("CodeOf(nil) = %q, want empty", got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != ErrCodeInternal {
		t.Fatalf("CodeOf(plain) = %q, want %q", got, ErrCodeInternal)
	}
	err := fmt.Errorf("ctx: %w", New(ErrCodeTimeout, "slow"))
	if got := CodeOf(err); got != ErrCodeTimeout {
		t.Fatalf("CodeOf(wrapped) = %q, want %q", got, ErrCodeTimeout)
	}
}

func TestWithContext(t *testing.T) {
	err := New(ErrCodeInvalidRequest, "bad").WithContext("arg", "x").WithContext("n", 2)
	if len(err.Context) != 2 || err.Context["arg"] != "x" || err.Context["n"] != 2 {
		t.Fatalf("unexpected context: %#v", err.Context)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrCodeTimeout, true},
		{ErrCodeEmptyCompletion, true},
		{ErrCodeInternal, true},
		{ErrCodeInvalidRequest, false},
		{ErrCodeSpawnFailed, false},
		{ErrorCode("SOMETHING_ELSE"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := Retryable(tt.code); got != tt.want {
				t.Fatalf("Retryable(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
