package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DrawStatus represents the lifecycle state of a draw
type DrawStatus string

const (
	DrawStatusPending   DrawStatus = "pending"
	DrawStatusCompleted DrawStatus = "completed"
	DrawStatusCancelled DrawStatus = "cancelled"
)

// IsTerminal returns true once a draw can no longer change state
func (s DrawStatus) IsTerminal() bool {
	return s == DrawStatusCompleted || s == DrawStatusCancelled
}

const (
	// MinimumTickets is the quorum a draw needs to award a prize
	MinimumTickets = 5

	// MaxTicketsPerPurchase bounds a single purchase
	MaxTicketsPerPurchase = 10

	// PrizePoolRatio is the share of ticket revenue paid to the winner
	PrizePoolRatio = "0.8"
)

var prizePoolRatio = decimal.RequireFromString(PrizePoolRatio)

// Draw is a scheduled raffle event
type Draw struct {
	ID              uuid.UUID       `db:"id"`
	DrawTime        time.Time       `db:"draw_time"`
	TicketPrice     decimal.Decimal `db:"ticket_price"`
	Status          DrawStatus      `db:"status"`
	WinningTicketID *uuid.UUID      `db:"winning_ticket_id"` // NULL until completed
	CreatedAt       time.Time       `db:"created_at"`
	ResolvedAt      *time.Time      `db:"resolved_at"`
}

// IsPending returns true while the draw accepts purchases and awaits resolution
func (d *Draw) IsPending() bool {
	return d.Status == DrawStatusPending
}

// CanPurchaseTickets returns true if tickets can still be bought at now
func (d *Draw) CanPurchaseTickets(now time.Time) bool {
	return d.IsPending() && now.Before(d.DrawTime)
}

// IsDue returns true once the draw time has been reached
func (d *Draw) IsDue(now time.Time) bool {
	return !now.Before(d.DrawTime)
}

// TicketsCost returns the price of quantity tickets
func (d *Draw) TicketsCost(quantity int) decimal.Decimal {
	return d.TicketPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// PrizeAmount returns the prize for a draw that sold ticketCount tickets.
// Fractional cents are dropped so the payout never exceeds the pool share.
func (d *Draw) PrizeAmount(ticketCount int) decimal.Decimal {
	return d.TicketsCost(ticketCount).Mul(prizePoolRatio).RoundFloor(2)
}

// ShortID returns the last six characters of the draw id, used in user-facing messages
func (d *Draw) ShortID() string {
	return ShortID(d.ID)
}

// ShortID returns the last six characters of id
func ShortID(id uuid.UUID) string {
	s := id.String()
	return s[len(s)-6:]
}

// DrawSummary is a draw together with the number of tickets sold
type DrawSummary struct {
	Draw        *Draw
	TicketCount int
}

// PrizePool returns the prize the draw would pay if resolved with its current tickets
func (s *DrawSummary) PrizePool() decimal.Decimal {
	return s.Draw.PrizeAmount(s.TicketCount)
}
