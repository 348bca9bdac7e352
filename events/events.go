package events

import (
	"context"
	"sync"
	"time"

	"raffle/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange        EventType = "balance_change"
	EventTypeTicketsPurchased     EventType = "tickets_purchased"
	EventTypeDrawResolved         EventType = "draw_resolved"
	EventTypeNotificationEnqueued EventType = "notification_enqueued"
)

// AllEventTypes lists every event type the core publishes
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeBalanceChange,
		EventTypeTicketsPurchased,
		EventTypeDrawResolved,
		EventTypeNotificationEnqueued,
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          uuid.UUID
	OldBalance      decimal.Decimal
	NewBalance      decimal.Decimal
	ChangeAmount    decimal.Decimal
	TransactionType models.TransactionType
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// TicketsPurchasedEvent represents a committed ticket purchase
type TicketsPurchasedEvent struct {
	UserID    uuid.UUID
	DrawID    uuid.UUID
	Quantity  int
	TotalCost decimal.Decimal
}

func (e TicketsPurchasedEvent) Type() EventType {
	return EventTypeTicketsPurchased
}

// DrawResolvedEvent represents a draw reaching a terminal state
type DrawResolvedEvent struct {
	DrawID       uuid.UUID
	DrawTime     time.Time
	Status       models.DrawStatus
	TotalTickets int

	WinnerID        uuid.UUID
	WinningTicketID uuid.UUID
	PrizeAmount     decimal.Decimal

	RefundedTickets       int
	RefundAmountPerTicket decimal.Decimal
}

func (e DrawResolvedEvent) Type() EventType {
	return EventTypeDrawResolved
}

// NotificationEnqueuedEvent represents a notification written to the outbox
type NotificationEnqueuedEvent struct {
	NotificationID   uuid.UUID
	UserID           uuid.UUID
	NotificationType models.NotificationType
	Message          string
	CreatedAt        time.Time
}

func (e NotificationEnqueuedEvent) Type() EventType {
	return EventTypeNotificationEnqueued
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

// Emit publishes an event to all registered handlers.
// Handlers run on their own goroutines; a panicking handler is logged and does not affect others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

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

// TransactionalBus holds events published inside a unit of work until it commits.
type TransactionalBus struct {
	real    *Bus
	mu      sync.Mutex
	pending []Event
}

// NewTransactionalBus creates a transactional bus flushing to real
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish stashes an event until Flush
func (b *TransactionalBus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(b.pending, e)
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Queued event on transactional bus")
}

// Pending returns the number of events waiting for Flush
func (b *TransactionalBus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Flush emits pending events to the underlying bus. Called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	log.WithField("pendingEventCount", len(pending)).Debug("Flushing transactional bus")

	// Handlers outlive the request that committed the transaction
	eventCtx := context.WithoutCancel(ctx)
	for _, ev := range pending {
		b.real.Emit(eventCtx, ev)
	}
	return nil
}

// Discard drops pending events. Called after a rollback.
func (b *TransactionalBus) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = nil
}
