package service

import (
	"context"
	"fmt"
	"time"

	"raffle/events"
	"raffle/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type ticketService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewTicketService creates a new ticket service
func NewTicketService(uowFactory UnitOfWorkFactory) TicketService {
	return &ticketService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// PurchaseTickets debits quantity × ticketPrice from the user and issues the tickets.
// Either everything commits or nothing does.
func (s *ticketService) PurchaseTickets(ctx context.Context, userID, drawID uuid.UUID, quantity int) (*models.PurchaseResult, error) {
	if quantity < 1 || quantity > models.MaxTicketsPerPurchase {
		return nil, ErrInvalidQuantity
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Share lock: resolution of this draw waits until the purchase commits or rolls back
	draw, err := uow.DrawRepository().GetByIDForShare(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	if draw == nil {
		return nil, ErrDrawNotFound
	}
	if !draw.CanPurchaseTickets(s.now()) {
		return nil, ErrDrawNotActive
	}

	account, err := uow.AccountRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, ErrUserNotFound
	}

	totalCost := draw.TicketsCost(quantity)
	if !account.CanAfford(totalCost) {
		return nil, ErrInsufficientBalance
	}

	// The debit re-checks the balance; a concurrent spend surfaces as ErrInsufficientBalance
	newBalance, err := uow.AccountRepository().Debit(ctx, userID, totalCost)
	if err != nil {
		return nil, err
	}

	tickets := make([]*models.Ticket, quantity)
	for i := range tickets {
		tickets[i] = &models.Ticket{DrawID: draw.ID, UserID: userID}
	}
	if err := uow.TicketRepository().CreateBatch(ctx, tickets); err != nil {
		return nil, fmt.Errorf("failed to issue tickets: %w", err)
	}

	history := models.NewDrawBalanceHistory(userID, draw.ID, newBalance, totalCost.Neg(), models.TransactionTypeTicketPurchase, map[string]any{
		"quantity":     quantity,
		"ticket_price": draw.TicketPrice.StringFixed(2),
	})
	if err := RecordBalanceChange(ctx, uow, history); err != nil {
		return nil, fmt.Errorf("failed to record balance change: %w", err)
	}

	if err := EnqueueNotification(ctx, uow, models.NewPurchaseNotification(userID, draw, quantity)); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.TicketsPurchasedEvent{
		UserID:    userID,
		DrawID:    draw.ID,
		Quantity:  quantity,
		TotalCost: totalCost,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"user_id":    userID,
		"draw_id":    draw.ID,
		"quantity":   quantity,
		"total_cost": totalCost.StringFixed(2),
	}).Info("Tickets purchased")

	return &models.PurchaseResult{
		Draw:       draw,
		Tickets:    tickets,
		TotalCost:  totalCost,
		NewBalance: newBalance,
	}, nil
}

// GetUserTickets returns every ticket the user holds across draws
func (s *ticketService) GetUserTickets(ctx context.Context, userID uuid.UUID) ([]*models.UserTicket, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tickets, err := uow.TicketRepository().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}

	return tickets, nil
}
