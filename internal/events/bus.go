package events

import (
	"sync"
	"time"
)

// Event types published by the backend. The dashboard refreshes the matching
// table when one arrives.
const (
	TypeOrderUpdated      = "order.updated"
	TypeOrderAssigned     = "order.assigned"
	TypePackerScan        = "scan.packer"
	TypeTechScan          = "scan.tech"
	TypeExceptionOpened   = "exception.opened"
	TypeExceptionResolved = "exception.resolved"
	TypeSyncCompleted     = "sync.completed"
	TypeRepairUpdated     = "repair.updated"
)

// Event is one dashboard notification.
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Bus fans events out to in-process subscribers. Publish never blocks: a
// subscriber that falls behind drops events rather than stalling the
// publishing request.
type Bus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a buffered channel for all future events. Call the
// returned func to unsubscribe; the channel is closed then.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish sends an event to all subscribers.
func (b *Bus) Publish(eventType string, payload interface{}) {
	ev := Event{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
