// Package feed receives activity records from the scraping collaborator and
// distributes them to the endorsement and notification consumers.
package feed

import (
	"sync"

	"kudosd/internal/models"
	"kudosd/internal/providers"
)

// Event is one detected activity with its evaluation attached. Delivery is
// at-least-once: the same activity may arrive again on a later rescan, so
// every consumer performs its own idempotency check before acting.
type Event struct {
	Activity   *models.Activity
	Evaluation *models.Evaluation
}

type subscription struct {
	name string
	ch   chan Event
}

// Bus is a typed fan-out: each subscriber gets its own bounded channel and a
// slow subscriber sheds load instead of blocking the producer.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	logger providers.Logger
}

func NewBus(logger providers.Logger) *Bus {
	return &Bus{logger: logger}
}

func (b *Bus) Subscribe(name string, buffer int) <-chan Event {
	ch := make(chan Event, buffer)
	b.mu.Lock()
	b.subs = append(b.subs, subscription{name: name, ch: ch})
	b.mu.Unlock()
	return ch
}

func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		select {
		case sub.ch <- ev:
		default:
			b.logger.Warnf(providers.TypeApp, "Subscriber %s full, dropping %s (rescan will redeliver)", sub.name, ev.Activity.ID)
		}
	}
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		close(sub.ch)
	}
	b.subs = nil
}
