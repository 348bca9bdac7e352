package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Winner records the outcome of a completed draw
type Winner struct {
	ID          uuid.UUID       `db:"id"`
	DrawID      uuid.UUID       `db:"draw_id"`
	TicketID    uuid.UUID       `db:"ticket_id"`
	UserID      uuid.UUID       `db:"user_id"`
	PrizeAmount decimal.Decimal `db:"prize_amount"`
	AnnouncedAt time.Time       `db:"announced_at"`
}
