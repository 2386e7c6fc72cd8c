// Package wall interprets payment notifications and keeps the rolling
// display state of the zap wall.
package wall

import "sync"

const DefaultCapacity = 6

// Message is one accepted event ready for display.
type Message struct {
	Text string
	Sats int64
}

// Board holds the at most N most recent messages (strict FIFO, oldest
// evicted first) and the cumulative satoshi total. The UI loop is the
// sole writer at runtime; the lock keeps it safe should a second
// notification source ever be added.
type Board struct {
	mu       sync.Mutex
	capacity int
	messages []string
	total    int64
}

func NewBoard(capacity int) *Board {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Board{
		capacity: capacity,
		messages: make([]string, 0, capacity),
	}
}

// Add appends a message, evicting the oldest entry beyond capacity,
// and adds the amount to the running total.
func (b *Board) Add(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.messages) >= b.capacity {
		b.messages = b.messages[1:]
	}
	b.messages = append(b.messages, msg.Text)
	b.total += msg.Sats
}

// Messages returns a copy of the visible messages in insertion order.
func (b *Board) Messages() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.messages))
	copy(out, b.messages)
	return out
}

func (b *Board) TotalSats() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

func (b *Board) Capacity() int {
	return b.capacity
}
