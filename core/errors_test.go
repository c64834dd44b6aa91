package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsageError(t *testing.T) {
	err := NewUsageError("enqueue", "context disposed")
	assert.ErrorIs(t, err, ErrUsage)
	assert.Equal(t, "hostbridge: enqueue: context disposed", err.Error())

	wrapped := fmt.Errorf("stage begin: %w", err)
	var ue *UsageError
	assert.True(t, errors.As(wrapped, &ue))
	assert.Equal(t, "enqueue", ue.Op)
}

func TestCancelled(t *testing.T) {
	err := Cancelled(nil)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, IsCancellation(err))

	// Already a cancellation: returned unchanged.
	assert.Same(t, err, Cancelled(err))

	deadline := Cancelled(context.DeadlineExceeded)
	assert.ErrorIs(t, deadline, context.DeadlineExceeded)
}

func TestIsCancellation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, true},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), true},
		{"sentinel", ErrCancelled, true},
		{"other", errors.New("boom"), false},
		{"halted", ErrHostHalted, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCancellation(tt.err))
		})
	}
}

func TestErrors_Flatten(t *testing.T) {
	a := errors.New("a")
	b := errors.New("b")
	c := errors.New("c")

	assert.Empty(t, Errors(nil))
	assert.Equal(t, []error{a}, Errors(a))
	assert.Equal(t, []error{a, b, c}, Errors(errors.Join(a, errors.Join(b, c))))
	assert.True(t, IsHostHalted(fmt.Errorf("write: %w", ErrHostHalted)))
}
