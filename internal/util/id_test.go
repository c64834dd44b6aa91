package util

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id := NewID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewID())
}

func TestNewActionIDIsMonotonic(t *testing.T) {
	prev := NewActionID()
	for i := 0; i < 100; i++ {
		next := NewActionID()
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestGoroutineID(t *testing.T) {
	own := GoroutineID()
	assert.NotZero(t, own)
	assert.Equal(t, own, GoroutineID())

	other := make(chan uint64)
	go func() { other <- GoroutineID() }()
	assert.NotEqual(t, own, <-other)
}
