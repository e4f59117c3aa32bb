package tasktree

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitasks/internal/core"
)

func TestTaskQueue_LIFO(t *testing.T) {
	q := newTaskQueue()
	q.push(1)
	q.push(2)
	q.push(3)
	require.Equal(t, 3, q.len())

	for _, want := range []core.TaskSeed{3, 2, 1} {
		got, ok := q.pop()
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestTaskQueue_CloseDrainsThenStops(t *testing.T) {
	q := newTaskQueue()
	q.push(7)
	q.close()

	got, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, core.TaskSeed(7), got)

	_, ok = q.pop()
	assert.False(t, ok)
}

func TestTaskQueue_CloseWakesBlockedPoppers(t *testing.T) {
	q := newTaskQueue()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := q.pop()
			assert.False(t, ok)
		}()
	}

	time.Sleep(10 * time.Millisecond)
	q.close()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("blocked poppers were not released by close")
	}
}

func TestTaskQueue_PushWakesBlockedPopper(t *testing.T) {
	q := newTaskQueue()
	got := make(chan core.TaskSeed, 1)
	go func() {
		s, ok := q.pop()
		if ok {
			got <- s
		}
	}()
	q.push(99)

	select {
	case s := <-got:
		assert.Equal(t, core.TaskSeed(99), s)
	case <-time.After(5 * time.Second):
		t.Fatal("popper never received the pushed seed")
	}
}
