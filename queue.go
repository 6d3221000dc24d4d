package klang

import "sync"

// Message is a discrete payload delivered over message connections.
type Message interface{}

// Note is a musical note message. Pitch is optional and used for voice
// mapping; zero velocity reads as note off.
type Note struct {
	Frequency float64
	Velocity  float64
	Pitch     int
}

// On reports whether the note gates an envelope on.
func (n Note) On() bool { return n.Velocity > 0 }

// Queue is an unbounded-until-drained, insertion-ordered message FIFO.
// Pushing is safe from any goroutine; it is the only legitimate crossing
// between an external producer thread and the engine's cycle thread.
type Queue struct {
	mu    sync.Mutex
	items []Message
}

// Push appends a message to the queue.
func (q *Queue) Push(m Message) {
	q.mu.Lock()
	q.items = append(q.items, m)
	q.mu.Unlock()
}

// Drain removes and returns all queued messages in arrival order.
func (q *Queue) Drain() []Message {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

// Pop removes and returns the oldest message.
func (q *Queue) Pop() (Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	m := q.items[0]
	q.items = q.items[1:]
	return m, true
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
