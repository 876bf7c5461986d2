package bus

import (
	"context"
	"sync"
)

// InMemoryBus is a MessageBus for tests. It records every sent payload per
// destination and can be configured to fail specific destinations.
type InMemoryBus struct {
	mu       sync.Mutex
	messages map[string][][]byte
	failures map[string]error
}

// NewInMemoryBus creates an empty InMemoryBus.
func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{
		messages: make(map[string][][]byte),
		failures: make(map[string]error),
	}
}

// Send records the payload, or returns the configured failure for the destination.
func (b *InMemoryBus) Send(ctx context.Context, destination string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err, ok := b.failures[destination]; ok {
		return err
	}

	b.messages[destination] = append(b.messages[destination], payload)
	return nil
}

// FailDestination makes Send return err for the given destination.
func (b *InMemoryBus) FailDestination(destination string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[destination] = err
}

// RestoreDestination clears a configured failure.
func (b *InMemoryBus) RestoreDestination(destination string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, destination)
}

// Messages returns the payloads sent to a destination.
func (b *InMemoryBus) Messages(destination string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([][]byte, len(b.messages[destination]))
	copy(out, b.messages[destination])
	return out
}

// TotalSent returns the number of successfully sent messages across all destinations.
func (b *InMemoryBus) TotalSent() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := 0
	for _, msgs := range b.messages {
		total += len(msgs)
	}
	return total
}
