package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"raffle/events"
	"raffle/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestTicketService(m *serviceMocks, now time.Time) *ticketService {
	return &ticketService{uowFactory: m.factory, now: fixedClock(now)}
}

func TestTicketService_PurchaseTickets_InvalidQuantity(t *testing.T) {
	ctx := context.Background()

	for _, quantity := range []int{-1, 0, 11, 100} {
		m := newServiceMocks(ctx)
		svc := newTestTicketService(m, time.Now())

		result, err := svc.PurchaseTickets(ctx, uuid.New(), uuid.New(), quantity)

		assert.ErrorIs(t, err, ErrInvalidQuantity, "quantity %d", quantity)
		assert.Nil(t, result)
		m.factory.AssertNotCalled(t, "Create")
	}
}

func TestTicketService_PurchaseTickets_Preconditions(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	drawID := uuid.New()

	pendingDraw := func() *models.Draw {
		return &models.Draw{ID: drawID, DrawTime: now.Add(time.Hour), TicketPrice: money(t, "10.00"), Status: models.DrawStatusPending}
	}

	tests := []struct {
		name        string
		setup       func(m *serviceMocks)
		expectedErr error
	}{
		{
			name: "draw not found",
			setup: func(m *serviceMocks) {
				m.draws.On("GetByIDForShare", ctx, drawID).Return(nil, nil)
			},
			expectedErr: ErrDrawNotFound,
		},
		{
			name: "draw completed",
			setup: func(m *serviceMocks) {
				draw := pendingDraw()
				draw.Status = models.DrawStatusCompleted
				m.draws.On("GetByIDForShare", ctx, drawID).Return(draw, nil)
			},
			expectedErr: ErrDrawNotActive,
		},
		{
			name: "draw time reached",
			setup: func(m *serviceMocks) {
				draw := pendingDraw()
				draw.DrawTime = now
				m.draws.On("GetByIDForShare", ctx, drawID).Return(draw, nil)
			},
			expectedErr: ErrDrawNotActive,
		},
		{
			name: "user not found",
			setup: func(m *serviceMocks) {
				m.draws.On("GetByIDForShare", ctx, drawID).Return(pendingDraw(), nil)
				m.accounts.On("GetByID", ctx, userID).Return(nil, nil)
			},
			expectedErr: ErrUserNotFound,
		},
		{
			name: "insufficient balance",
			setup: func(m *serviceMocks) {
				m.draws.On("GetByIDForShare", ctx, drawID).Return(pendingDraw(), nil)
				m.accounts.On("GetByID", ctx, userID).Return(&models.Account{ID: userID, Balance: money(t, "29.99")}, nil)
			},
			expectedErr: ErrInsufficientBalance,
		},
		{
			name: "balance spent concurrently",
			setup: func(m *serviceMocks) {
				m.draws.On("GetByIDForShare", ctx, drawID).Return(pendingDraw(), nil)
				m.accounts.On("GetByID", ctx, userID).Return(&models.Account{ID: userID, Balance: money(t, "30.00")}, nil)
				m.accounts.On("Debit", ctx, userID, decimalEq("30.00")).Return(money(t, "0"), ErrInsufficientBalance)
			},
			expectedErr: ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newServiceMocks(ctx)
			tt.setup(m)
			svc := newTestTicketService(m, now)

			result, err := svc.PurchaseTickets(ctx, userID, drawID, 3)

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, result)
			m.uow.AssertNotCalled(t, "Commit")
			m.tickets.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
			assert.Empty(t, m.publisher.events)
			m.assertExpectations(t)
		})
	}
}

func TestTicketService_PurchaseTickets_Success(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	drawID := uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

	m := newServiceMocks(ctx)
	m.expectOutbox()
	svc := newTestTicketService(m, now)

	draw := &models.Draw{ID: drawID, DrawTime: now.Add(time.Hour), TicketPrice: money(t, "10.00"), Status: models.DrawStatusPending}
	m.draws.On("GetByIDForShare", ctx, drawID).Return(draw, nil)
	m.accounts.On("GetByID", ctx, userID).Return(&models.Account{ID: userID, Balance: money(t, "50.00")}, nil)
	m.accounts.On("Debit", ctx, userID, decimalEq("30.00")).Return(money(t, "20.00"), nil)
	m.tickets.On("CreateBatch", ctx, mock.MatchedBy(func(tickets []*models.Ticket) bool {
		if len(tickets) != 3 {
			return false
		}
		for _, ticket := range tickets {
			if ticket.DrawID != drawID || ticket.UserID != userID {
				return false
			}
		}
		return true
	})).Return(nil).Run(func(args mock.Arguments) {
		for _, ticket := range args.Get(1).([]*models.Ticket) {
			ticket.ID = uuid.New()
		}
	})
	m.uow.On("Commit").Return(nil)

	result, err := svc.PurchaseTickets(ctx, userID, drawID, 3)

	require.NoError(t, err)
	assert.Equal(t, 3, result.TicketsIssued())
	assert.Equal(t, "30.00", result.TotalCost.StringFixed(2))
	assert.Equal(t, "20.00", result.NewBalance.StringFixed(2))

	m.history.AssertCalled(t, "Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.UserID == userID &&
			h.BalanceBefore.Equal(money(t, "50.00")) &&
			h.BalanceAfter.Equal(money(t, "20.00")) &&
			h.ChangeAmount.Equal(money(t, "-30.00")) &&
			h.TransactionType == models.TransactionTypeTicketPurchase
	}))

	notifications := m.enqueued()
	require.Len(t, notifications, 1)
	assert.Equal(t, userID, notifications[0].UserID)
	assert.Equal(t, models.NotificationTypeTicketPurchase, notifications[0].Type)
	assert.Equal(t, "Purchased 3 ticket(s) for draw #f90ae7", notifications[0].Message)

	assert.Len(t, m.publisher.ofType(events.EventTypeBalanceChange), 1)
	assert.Len(t, m.publisher.ofType(events.EventTypeNotificationEnqueued), 1)
	purchased := m.publisher.ofType(events.EventTypeTicketsPurchased)
	require.Len(t, purchased, 1)
	assert.Equal(t, 3, purchased[0].(events.TicketsPurchasedEvent).Quantity)

	m.assertExpectations(t)
}

func TestTicketService_PurchaseTickets_IssueFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	userID := uuid.New()
	drawID := uuid.New()

	m := newServiceMocks(ctx)
	svc := newTestTicketService(m, now)

	draw := &models.Draw{ID: drawID, DrawTime: now.Add(time.Hour), TicketPrice: money(t, "1.00"), Status: models.DrawStatusPending}
	m.draws.On("GetByIDForShare", ctx, drawID).Return(draw, nil)
	m.accounts.On("GetByID", ctx, userID).Return(&models.Account{ID: userID, Balance: money(t, "10.00")}, nil)
	m.accounts.On("Debit", ctx, userID, decimalEq("10.00")).Return(money(t, "0"), nil)
	m.tickets.On("CreateBatch", ctx, mock.Anything).Return(errors.New("connection reset"))

	result, err := svc.PurchaseTickets(ctx, userID, drawID, 10)

	assert.Error(t, err)
	assert.Nil(t, result)
	m.uow.AssertNotCalled(t, "Commit")
	m.uow.AssertCalled(t, "Rollback")
	m.assertExpectations(t)
}

func TestTicketService_GetUserTickets(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	m := newServiceMocks(ctx)
	svc := NewTicketService(m.factory)

	expected := []*models.UserTicket{{Ticket: models.Ticket{ID: uuid.New(), UserID: userID}}}
	m.tickets.On("GetByUser", ctx, userID).Return(expected, nil)

	tickets, err := svc.GetUserTickets(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, expected, tickets)
	m.assertExpectations(t)
}
