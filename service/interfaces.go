package service

import (
	"context"
	"time"

	"raffle/events"
	"raffle/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account balance access
type AccountRepository interface {
	// GetByID retrieves an account, returning nil when it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)

	// Create opens an account with the given balance
	Create(ctx context.Context, initialBalance decimal.Decimal) (*models.Account, error)

	// Debit atomically subtracts amount, failing with ErrInsufficientBalance
	// if the balance would go negative. Returns the new balance.
	Debit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)

	// Credit atomically adds amount and returns the new balance
	Credit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns the most recent balance history for a user
	GetByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.BalanceHistory, error)
}

// DrawRepository defines the interface for draw data access
type DrawRepository interface {
	Create(ctx context.Context, draw *models.Draw) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Draw, error)

	// GetByIDForShare locks the draw row against concurrent resolution
	GetByIDForShare(ctx context.Context, id uuid.UUID) (*models.Draw, error)

	// GetByIDForUpdate locks the draw row exclusively
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Draw, error)

	// MarkCompleted and MarkCancelled only transition pending draws and
	// return ErrDrawAlreadyResolved otherwise
	MarkCompleted(ctx context.Context, id uuid.UUID, winningTicketID uuid.UUID) error
	MarkCancelled(ctx context.Context, id uuid.UUID) error

	// ListUpcoming returns pending draws after now, soonest first. limit <= 0 means no limit.
	ListUpcoming(ctx context.Context, now time.Time, limit int) ([]*models.DrawSummary, error)
	ListAll(ctx context.Context) ([]*models.DrawSummary, error)
	GetDueDraws(ctx context.Context, now time.Time) ([]*models.Draw, error)
	GetNextPendingDrawTime(ctx context.Context) (*time.Time, error)
	GetStats(ctx context.Context) (*models.Stats, error)
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// CreateBatch inserts all tickets in one statement and fills in their ids
	CreateBatch(ctx context.Context, tickets []*models.Ticket) error

	// GetByDraw returns the draw's tickets in purchase order
	GetByDraw(ctx context.Context, drawID uuid.UUID) ([]*models.Ticket, error)

	CountByDraw(ctx context.Context, drawID uuid.UUID) (int, error)
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserTicket, error)
}

// WinnerRepository defines the interface for winner records
type WinnerRepository interface {
	Create(ctx context.Context, winner *models.Winner) error
	GetByDraw(ctx context.Context, drawID uuid.UUID) (*models.Winner, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Winner, error)
}

// NotificationRepository defines the interface for the notification outbox
type NotificationRepository interface {
	Enqueue(ctx context.Context, notification *models.Notification) error
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// TicketService defines the ticket purchase operations
type TicketService interface {
	// PurchaseTickets debits the user and issues quantity tickets for the draw in one transaction
	PurchaseTickets(ctx context.Context, userID, drawID uuid.UUID, quantity int) (*models.PurchaseResult, error)

	// GetUserTickets returns every ticket the user holds
	GetUserTickets(ctx context.Context, userID uuid.UUID) ([]*models.UserTicket, error)
}

// DrawService defines draw administration and resolution operations
type DrawService interface {
	// ResolveDraw completes or cancels a due draw exactly once
	ResolveDraw(ctx context.Context, drawID uuid.UUID) (*models.DrawResolution, error)

	// ResolveDueDraws resolves every pending draw whose time has passed
	ResolveDueDraws(ctx context.Context) (*BatchResolution, error)

	CreateDraw(ctx context.Context, drawTime time.Time, ticketPrice decimal.Decimal) (*models.Draw, error)

	// GetDraw returns a draw with its ticket count and winner
	GetDraw(ctx context.Context, drawID uuid.UUID) (*models.DrawDetail, error)

	ListDraws(ctx context.Context) ([]*models.DrawSummary, error)
	GetUpcomingDraws(ctx context.Context, limit int) ([]*models.DrawSummary, error)
	GetAvailableDraws(ctx context.Context) ([]*models.DrawSummary, error)
	GetRecentWinners(ctx context.Context, limit int) ([]*models.Winner, error)
	GetStats(ctx context.Context) (*models.Stats, error)
	GetNextDrawTime(ctx context.Context) (*time.Time, error)
}

// AccountService defines account read operations
type AccountService interface {
	GetAccount(ctx context.Context, userID uuid.UUID) (*models.Account, error)
	GetBalanceHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*models.BalanceHistory, error)
}

// NotificationService defines the user notification inbox
type NotificationService interface {
	GetNotifications(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events.
	// It is a no-op after Commit.
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	DrawRepository() DrawRepository
	TicketRepository() TicketRepository
	WinnerRepository() WinnerRepository
	NotificationRepository() NotificationRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
