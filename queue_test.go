package klang_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atheler/klang"
)

func TestQueueOrder(t *testing.T) {
	var q klang.Queue
	q.Push(1)
	q.Push(2)
	q.Push(3)
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, []klang.Message{1, 2, 3}, q.Drain())
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, q.Drain())
}

func TestQueuePop(t *testing.T) {
	var q klang.Queue
	_, ok := q.Pop()
	assert.False(t, ok)

	q.Push("a")
	q.Push("b")
	m, ok := q.Pop()
	assert.True(t, ok)
	assert.Equal(t, klang.Message("a"), m)
	assert.Equal(t, 1, q.Len())
}

func TestQueueConcurrentPush(t *testing.T) {
	const (
		producers = 8
		messages  = 100
	)
	var (
		q  klang.Queue
		wg sync.WaitGroup
	)
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for n := 0; n < messages; n++ {
				q.Push([2]int{p, n})
			}
		}(p)
	}
	wg.Wait()

	got := q.Drain()
	assert.Len(t, got, producers*messages)

	// FIFO per producer
	last := make(map[int]int, producers)
	for _, m := range got {
		pair := m.([2]int)
		if prev, ok := last[pair[0]]; ok {
			assert.Equal(t, prev+1, pair[1])
		}
		last[pair[0]] = pair[1]
	}
}

func TestNote(t *testing.T) {
	assert.True(t, klang.Note{Frequency: 440, Velocity: 1}.On())
	assert.False(t, klang.Note{Frequency: 440}.On())
}
