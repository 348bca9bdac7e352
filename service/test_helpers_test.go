package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"raffle/events"
	"raffle/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures events published inside a unit of work
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) ofType(eventType events.EventType) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var matched []events.Event
	for _, event := range p.events {
		if event.Type() == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

type serviceMocks struct {
	factory       *MockUnitOfWorkFactory
	uow           *MockUnitOfWork
	accounts      *MockAccountRepository
	history       *MockBalanceHistoryRepository
	draws         *MockDrawRepository
	tickets       *MockTicketRepository
	winners       *MockWinnerRepository
	notifications *MockNotificationRepository
	publisher     *recordingPublisher
}

func newServiceMocks(ctx context.Context) *serviceMocks {
	m := &serviceMocks{
		factory:       new(MockUnitOfWorkFactory),
		uow:           new(MockUnitOfWork),
		accounts:      new(MockAccountRepository),
		history:       new(MockBalanceHistoryRepository),
		draws:         new(MockDrawRepository),
		tickets:       new(MockTicketRepository),
		winners:       new(MockWinnerRepository),
		notifications: new(MockNotificationRepository),
		publisher:     &recordingPublisher{},
	}

	m.factory.On("Create").Return(m.uow).Maybe()
	m.uow.On("Begin", ctx).Return(nil).Maybe()
	m.uow.On("Rollback").Return(nil).Maybe()
	m.uow.On("AccountRepository").Return(m.accounts).Maybe()
	m.uow.On("BalanceHistoryRepository").Return(m.history).Maybe()
	m.uow.On("DrawRepository").Return(m.draws).Maybe()
	m.uow.On("TicketRepository").Return(m.tickets).Maybe()
	m.uow.On("WinnerRepository").Return(m.winners).Maybe()
	m.uow.On("NotificationRepository").Return(m.notifications).Maybe()
	m.uow.On("EventBus").Return(m.publisher).Maybe()

	return m
}

// expectOutbox accepts every history record and notification and assigns them ids
func (m *serviceMocks) expectOutbox() {
	m.history.On("Record", mock.Anything, mock.AnythingOfType("*models.BalanceHistory")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.BalanceHistory).ID = 1
	}).Maybe()
	m.notifications.On("Enqueue", mock.Anything, mock.AnythingOfType("*models.Notification")).Return(nil).Run(func(args mock.Arguments) {
		n := args.Get(1).(*models.Notification)
		n.ID = uuid.New()
		n.CreatedAt = time.Now()
	}).Maybe()
}

func (m *serviceMocks) assertExpectations(t *testing.T) {
	m.factory.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	m.accounts.AssertExpectations(t)
	m.history.AssertExpectations(t)
	m.draws.AssertExpectations(t)
	m.tickets.AssertExpectations(t)
	m.winners.AssertExpectations(t)
	m.notifications.AssertExpectations(t)
}

// enqueued returns every notification passed to Enqueue
func (m *serviceMocks) enqueued() []*models.Notification {
	var out []*models.Notification
	for _, call := range m.notifications.Calls {
		if call.Method == "Enqueue" {
			out = append(out, call.Arguments.Get(1).(*models.Notification))
		}
	}
	return out
}

func money(t *testing.T, amount string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(amount)
	require.NoError(t, err)
	return d
}

// decimalEq matches a decimal argument by value
func decimalEq(amount string) interface{} {
	expected := decimal.RequireFromString(amount)
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(expected)
	})
}

func fixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

func ticketsFor(drawID uuid.UUID, owners ...uuid.UUID) []*models.Ticket {
	tickets := make([]*models.Ticket, len(owners))
	for i, owner := range owners {
		tickets[i] = &models.Ticket{ID: uuid.New(), DrawID: drawID, UserID: owner}
	}
	return tickets
}
