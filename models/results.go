package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseResult represents the outcome of a ticket purchase (returned to the user)
type PurchaseResult struct {
	Draw       *Draw
	Tickets    []*Ticket
	TotalCost  decimal.Decimal
	NewBalance decimal.Decimal
}

// TicketsIssued returns how many tickets the purchase created
func (r *PurchaseResult) TicketsIssued() int {
	return len(r.Tickets)
}

// DrawResolution represents the outcome of resolving a draw
type DrawResolution struct {
	DrawID       uuid.UUID
	Status       DrawStatus
	TotalTickets int
	Participants []*ParticipantSummary

	// Set when Status is completed
	WinnerID        uuid.UUID
	WinningTicketID uuid.UUID
	PrizeAmount     decimal.Decimal

	// Set when Status is cancelled
	RefundedTickets       int
	RefundAmountPerTicket decimal.Decimal
}

// Completed returns true if the draw awarded a prize
func (r *DrawResolution) Completed() bool {
	return r.Status == DrawStatusCompleted
}

// DrawDetail is a single draw with its ticket count and, once completed, its winner
type DrawDetail struct {
	Draw        *Draw
	TicketCount int
	Winner      *Winner
}

// Resolved returns true once the draw has been completed or cancelled
func (d *DrawDetail) Resolved() bool {
	return d.Draw.Status.IsTerminal()
}

// PrizePool returns the prize paid, or the prize the draw would pay at its current ticket count
func (d *DrawDetail) PrizePool() decimal.Decimal {
	if d.Winner != nil {
		return d.Winner.PrizeAmount
	}
	return d.Draw.PrizeAmount(d.TicketCount)
}

// Stats represents platform-wide raffle statistics
type Stats struct {
	TotalAccounts   int
	ActiveDraws     int
	TotalWinners    int
	TotalPrizesPaid decimal.Decimal
}
