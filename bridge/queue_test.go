package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAction struct {
	id      string
	invoked int
}

func (s *stubAction) ID() string { return s.id }
func (s *stubAction) Invoke()    { s.invoked++ }

func drainIDs(q *actionQueue) []string {
	var ids []string
	for a := range q.all() {
		ids = append(ids, a.ID())
	}
	return ids
}

func TestActionQueue_FIFO(t *testing.T) {
	q := newActionQueue()
	for _, id := range []string{"a", "b", "c"} {
		require.True(t, q.push(&stubAction{id: id}))
	}
	assert.Equal(t, 3, q.len())
	q.close()

	assert.Equal(t, []string{"a", "b", "c"}, drainIDs(q))
	assert.Zero(t, q.len())
}

func TestActionQueue_PushAfterClose(t *testing.T) {
	q := newActionQueue()
	q.close()
	q.close()

	assert.False(t, q.push(&stubAction{id: "late"}))
	assert.True(t, q.isClosed())
	assert.Empty(t, drainIDs(q))
}

func TestActionQueue_PopBlocksUntilPushOrClose(t *testing.T) {
	q := newActionQueue()
	got := make(chan []string)
	go func() { got <- drainIDs(q) }()

	select {
	case <-got:
		t.Fatal("drain returned while the queue was open")
	case <-time.After(20 * time.Millisecond):
	}

	q.push(&stubAction{id: "x"})
	q.push(&stubAction{id: "y"})
	q.close()
	assert.Equal(t, []string{"x", "y"}, <-got)
}

func TestActionQueue_StopIteration(t *testing.T) {
	q := newActionQueue()
	q.push(&stubAction{id: "a"})
	q.push(&stubAction{id: "b"})
	q.close()

	for a := range q.all() {
		assert.Equal(t, "a", a.ID())
		break
	}
	assert.Equal(t, []string{"b"}, drainIDs(q))
}
