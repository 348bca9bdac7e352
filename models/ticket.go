package models

import (
	"bytes"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ticket is one entry of a user into a draw
type Ticket struct {
	ID          uuid.UUID `db:"id"`
	DrawID      uuid.UUID `db:"draw_id"`
	UserID      uuid.UUID `db:"user_id"`
	PurchasedAt time.Time `db:"purchased_at"`
}

// UserTicket is a ticket joined with the state of its draw
type UserTicket struct {
	Ticket
	DrawTime    time.Time
	DrawStatus  DrawStatus
	TicketPrice decimal.Decimal
	IsWinner    bool
}

// ParticipantSummary aggregates the tickets a single user holds in a draw
type ParticipantSummary struct {
	UserID      uuid.UUID
	TicketCount int
}

// SummarizeParticipants groups tickets by owner in order of first purchase
func SummarizeParticipants(tickets []*Ticket) []*ParticipantSummary {
	index := make(map[uuid.UUID]*ParticipantSummary)
	var participants []*ParticipantSummary
	for _, ticket := range tickets {
		summary, ok := index[ticket.UserID]
		if !ok {
			summary = &ParticipantSummary{UserID: ticket.UserID}
			index[ticket.UserID] = summary
			participants = append(participants, summary)
		}
		summary.TicketCount++
	}
	return participants
}

// SortParticipantsByUser orders participants by user id so account rows are always locked in the same order
func SortParticipantsByUser(participants []*ParticipantSummary) {
	slices.SortFunc(participants, func(a, b *ParticipantSummary) int {
		return bytes.Compare(a.UserID[:], b.UserID[:])
	})
}
