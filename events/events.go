package events

import (
	"context"
	"sync"

	"rombet/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeSimulationStarted EventType = "simulation_started"
	EventTypeRoundCreated      EventType = "round_created"
	EventTypeRoundRandomized   EventType = "round_randomized"
	EventTypeBetPlaced         EventType = "bet_placed"
	EventTypeBetsSettled       EventType = "bets_settled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// SimulationStartedEvent fires when a client's simulation is created
type SimulationStartedEvent struct {
	SimulationID models.ID[models.Simulation]
	ClientKey    string
	Balance      models.Amount
}

func (e SimulationStartedEvent) Type() EventType {
	return EventTypeSimulationStarted
}

// RoundCreatedEvent fires when a new round's fixtures are persisted
type RoundCreatedEvent struct {
	SimulationID models.ID[models.Simulation]
	Round        uint32
	Fixtures     int
}

func (e RoundCreatedEvent) Type() EventType {
	return EventTypeRoundCreated
}

// RoundRandomizedEvent fires when every fixture of a round is resolved
type RoundRandomizedEvent struct {
	SimulationID models.ID[models.Simulation]
	Round        uint32
	Fixtures     int
}

func (e RoundRandomizedEvent) Type() EventType {
	return EventTypeRoundRandomized
}

// BetPlacedEvent fires when a stake is accepted against a quoted coefficient
type BetPlacedEvent struct {
	SimulationID models.ID[models.Simulation]
	BetID        models.ID[models.Bet]
	GameID       models.ID[models.Game]
	Amount       models.Amount
	Coefficient  models.Coefficient
}

func (e BetPlacedEvent) Type() EventType {
	return EventTypeBetPlaced
}

// BetsSettledEvent fires once per settlement batch
type BetsSettledEvent struct {
	SimulationID models.ID[models.Simulation]
	Settled      int
	Profit       models.Amount
}

func (e BetsSettledEvent) Type() EventType {
	return EventTypeBetsSettled
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after a successful commit.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit. Events are emitted on a
// background context so handlers outlive the request's deadline.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard is called after rollback to drop pending events.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
