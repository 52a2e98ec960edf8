package store

import (
	"time"

	"github.com/lucsky/cuid"

	"github.com/fooddash/fooddash/internal/models"
)

const (
	EventOrderPlaced    = "order_placed"
	EventStatusUpdated  = "status_updated"
	EventOrderCancelled = "order_cancelled"
)

// Event is delivered to subscribers after each committed order transition.
// Order is a snapshot taken at commit time.
type Event struct {
	EventID string
	Type    string
	OrderID int64
	From    string
	To      string
	At      time.Time
	Order   *models.Order
}

func (s *OrderStore) eventLocked(eventType string, order *models.Order, from, to string) Event {
	return Event{
		EventID: cuid.New(),
		Type:    eventType,
		OrderID: order.ID,
		From:    from,
		To:      to,
		At:      s.now(),
		Order:   order.Clone(),
	}
}

// emit delivers an event to every subscriber. Called outside the store lock
// so subscribers are free to call back into the store.
func (s *OrderStore) emit(ev Event) {
	s.mu.Lock()
	subs := append([]func(Event){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

// Subscribe registers fn to be called after every committed transition.
// Delivery is synchronous on the goroutine that committed the transition, so
// progression tasks of different orders invoke fn concurrently; subscribers
// must be safe for concurrent use.
func (s *OrderStore) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}
