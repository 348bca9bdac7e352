package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NotificationType categorizes user notifications
type NotificationType string

const (
	NotificationTypeTicketPurchase NotificationType = "ticket_purchase"
	NotificationTypeRefund         NotificationType = "refund"
	NotificationTypeWinner         NotificationType = "winner"
	NotificationTypeDrawCompleted  NotificationType = "draw_completed"
)

// Notification is a message queued for a user
type Notification struct {
	ID        uuid.UUID        `db:"id"`
	UserID    uuid.UUID        `db:"user_id"`
	Message   string           `db:"message"`
	Type      NotificationType `db:"type"`
	IsRead    bool             `db:"is_read"`
	CreatedAt time.Time        `db:"created_at"`
}

// NewPurchaseNotification builds the confirmation sent after a ticket purchase
func NewPurchaseNotification(userID uuid.UUID, draw *Draw, quantity int) *Notification {
	return &Notification{
		UserID:  userID,
		Type:    NotificationTypeTicketPurchase,
		Message: fmt.Sprintf("Purchased %d ticket(s) for draw #%s", quantity, draw.ShortID()),
	}
}

// NewRefundNotification builds the notice sent when a draw is cancelled for lack of tickets
func NewRefundNotification(userID uuid.UUID, draw *Draw, ticketCount int, amount decimal.Decimal) *Notification {
	return &Notification{
		UserID: userID,
		Type:   NotificationTypeRefund,
		Message: fmt.Sprintf("Draw #%s was cancelled (minimum %d tickets not met). %d ticket(s) refunded: ETB %s",
			draw.ShortID(), MinimumTickets, ticketCount, amount.StringFixed(2)),
	}
}

// NewWinnerNotification builds the notice sent to the winner of a draw
func NewWinnerNotification(userID uuid.UUID, draw *Draw, prize decimal.Decimal) *Notification {
	return &Notification{
		UserID:  userID,
		Type:    NotificationTypeWinner,
		Message: fmt.Sprintf("Congratulations! You won ETB %s in draw #%s", prize.StringFixed(2), draw.ShortID()),
	}
}

// NewDrawCompletedNotification builds the notice sent to participants who did not win
func NewDrawCompletedNotification(userID uuid.UUID, draw *Draw) *Notification {
	return &Notification{
		UserID:  userID,
		Type:    NotificationTypeDrawCompleted,
		Message: fmt.Sprintf("Draw #%s has been completed. Better luck next time!", draw.ShortID()),
	}
}
