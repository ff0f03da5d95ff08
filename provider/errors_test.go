package provider

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := NewError("ollama", "complete", errors.New("boom"), false)

	want := "ollama complete: boom"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestError_ErrorWithoutProvider(t *testing.T) {
	err := &Error{Op: "complete", Err: errors.New("boom")}

	want := "complete: boom"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewError("ollama", "stream", fmt.Errorf("outer: %w", inner), false)

	if !errors.Is(err, inner) {
		t.Error("errors.Is should reach the inner error through Unwrap")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "retryable gateway error",
			err:  NewError("ollama", "complete", errors.New("cuda error"), true),
			want: true,
		},
		{
			name: "terminal gateway error",
			err:  NewError("ollama", "complete", errors.New("bad request"), false),
			want: false,
		},
		{
			name: "wrapped unavailable sentinel",
			err:  fmt.Errorf("send: %w", ErrUnavailable),
			want: true,
		},
		{
			name: "wrapped timeout sentinel",
			err:  fmt.Errorf("send: %w", ErrTimeout),
			want: true,
		},
		{
			name: "wrapped accelerator sentinel",
			err:  fmt.Errorf("send: %w", ErrAcceleratorFault),
			want: true,
		},
		{
			name: "plain error",
			err:  errors.New("nope"),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
