package server

import (
	"time"

	"raffle/models"
	"raffle/service"

	"github.com/shopspring/decimal"
)

// PurchaseTicketsRequest is the body of a ticket purchase
type PurchaseTicketsRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid"`
	DrawID   string `json:"draw_id" validate:"required,uuid"`
	Quantity int    `json:"quantity"`
}

// PurchaseTicketsResponse reports a committed purchase
type PurchaseTicketsResponse struct {
	DrawID        string   `json:"draw_id"`
	TicketIDs     []string `json:"ticket_ids"`
	TicketsIssued int      `json:"tickets_issued"`
	TotalCost     string   `json:"total_cost"`
	NewBalance    string   `json:"new_balance"`
}

// CreateDrawRequest is the body of an admin draw creation
type CreateDrawRequest struct {
	DrawTime    time.Time       `json:"draw_time" validate:"required"`
	TicketPrice decimal.Decimal `json:"ticket_price"`
}

// DrawResponse describes a draw
type DrawResponse struct {
	ID              string     `json:"id"`
	DrawTime        time.Time  `json:"draw_time"`
	TicketPrice     string     `json:"ticket_price"`
	Status          string     `json:"status"`
	WinningTicketID *string    `json:"winning_ticket_id,omitempty"`
	TicketCount     *int       `json:"ticket_count,omitempty"`
	PrizePool       *string    `json:"prize_pool,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
}

// DrawDetailResponse describes a single draw and its winner
type DrawDetailResponse struct {
	DrawResponse
	Resolved bool            `json:"resolved"`
	Winner   *WinnerResponse `json:"winner,omitempty"`
}

// ResolutionResponse reports the outcome of resolving a draw
type ResolutionResponse struct {
	DrawID                string  `json:"draw_id"`
	Status                string  `json:"status"`
	TotalTickets          int     `json:"total_tickets"`
	WinnerID              *string `json:"winner_id,omitempty"`
	WinningTicketID       *string `json:"winning_ticket_id,omitempty"`
	PrizeAmount           *string `json:"prize_amount,omitempty"`
	RefundedTickets       *int    `json:"refunded_tickets,omitempty"`
	RefundAmountPerTicket *string `json:"refund_amount_per_ticket,omitempty"`
}

// BatchResolutionResponse reports a resolve-due run
type BatchResolutionResponse struct {
	Resolved []ResolutionResponse `json:"resolved"`
	Skipped  int                  `json:"skipped"`
	Failed   int                  `json:"failed"`
}

// TicketResponse describes one of a user's tickets
type TicketResponse struct {
	ID          string    `json:"id"`
	DrawID      string    `json:"draw_id"`
	DrawTime    time.Time `json:"draw_time"`
	DrawStatus  string    `json:"draw_status"`
	TicketPrice string    `json:"ticket_price"`
	IsWinner    bool      `json:"is_winner"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// WinnerResponse describes a draw winner
type WinnerResponse struct {
	DrawID      string    `json:"draw_id"`
	TicketID    string    `json:"ticket_id"`
	UserID      string    `json:"user_id"`
	PrizeAmount string    `json:"prize_amount"`
	AnnouncedAt time.Time `json:"announced_at"`
}

// StatsResponse reports platform statistics
type StatsResponse struct {
	TotalAccounts   int    `json:"total_accounts"`
	ActiveDraws     int    `json:"active_draws"`
	TotalWinners    int    `json:"total_winners"`
	TotalPrizesPaid string `json:"total_prizes_paid"`
}

// AccountResponse describes an account balance
type AccountResponse struct {
	ID        string    `json:"id"`
	Balance   string    `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BalanceHistoryResponse describes one balance change
type BalanceHistoryResponse struct {
	ID              int64          `json:"id"`
	BalanceBefore   string         `json:"balance_before"`
	BalanceAfter    string         `json:"balance_after"`
	ChangeAmount    string         `json:"change_amount"`
	TransactionType string         `json:"transaction_type"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	RelatedID       *string        `json:"related_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// NotificationResponse describes an inbox entry
type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// MarkAllReadResponse reports how many notifications were marked
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func stringPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func newPurchaseResponse(result *models.PurchaseResult) PurchaseTicketsResponse {
	ids := make([]string, len(result.Tickets))
	for i, ticket := range result.Tickets {
		ids[i] = ticket.ID.String()
	}
	return PurchaseTicketsResponse{
		DrawID:        result.Draw.ID.String(),
		TicketIDs:     ids,
		TicketsIssued: result.TicketsIssued(),
		TotalCost:     result.TotalCost.StringFixed(2),
		NewBalance:    result.NewBalance.StringFixed(2),
	}
}

func newDrawResponse(draw *models.Draw) DrawResponse {
	resp := DrawResponse{
		ID:          draw.ID.String(),
		DrawTime:    draw.DrawTime,
		TicketPrice: draw.TicketPrice.StringFixed(2),
		Status:      string(draw.Status),
		CreatedAt:   draw.CreatedAt,
		ResolvedAt:  draw.ResolvedAt,
	}
	if draw.WinningTicketID != nil {
		resp.WinningTicketID = stringPtr(draw.WinningTicketID.String())
	}
	return resp
}

func newDrawSummaryResponses(summaries []*models.DrawSummary) []DrawResponse {
	out := make([]DrawResponse, len(summaries))
	for i, summary := range summaries {
		resp := newDrawResponse(summary.Draw)
		resp.TicketCount = intPtr(summary.TicketCount)
		resp.PrizePool = stringPtr(summary.PrizePool().StringFixed(2))
		out[i] = resp
	}
	return out
}

func newDrawDetailResponse(detail *models.DrawDetail) DrawDetailResponse {
	draw := newDrawResponse(detail.Draw)
	draw.TicketCount = intPtr(detail.TicketCount)
	draw.PrizePool = stringPtr(detail.PrizePool().StringFixed(2))

	resp := DrawDetailResponse{
		DrawResponse: draw,
		Resolved:     detail.Resolved(),
	}
	if detail.Winner != nil {
		winner := newWinnerResponses([]*models.Winner{detail.Winner})[0]
		resp.Winner = &winner
	}
	return resp
}

func newResolutionResponse(resolution *models.DrawResolution) ResolutionResponse {
	resp := ResolutionResponse{
		DrawID:       resolution.DrawID.String(),
		Status:       string(resolution.Status),
		TotalTickets: resolution.TotalTickets,
	}
	if resolution.Completed() {
		resp.WinnerID = stringPtr(resolution.WinnerID.String())
		resp.WinningTicketID = stringPtr(resolution.WinningTicketID.String())
		resp.PrizeAmount = stringPtr(resolution.PrizeAmount.StringFixed(2))
	} else {
		resp.RefundedTickets = intPtr(resolution.RefundedTickets)
		resp.RefundAmountPerTicket = stringPtr(resolution.RefundAmountPerTicket.StringFixed(2))
	}
	return resp
}

func newBatchResolutionResponse(batch *service.BatchResolution) BatchResolutionResponse {
	resolved := make([]ResolutionResponse, len(batch.Resolved))
	for i, resolution := range batch.Resolved {
		resolved[i] = newResolutionResponse(resolution)
	}
	return BatchResolutionResponse{
		Resolved: resolved,
		Skipped:  batch.Skipped,
		Failed:   batch.Failed,
	}
}

func newTicketResponses(tickets []*models.UserTicket) []TicketResponse {
	out := make([]TicketResponse, len(tickets))
	for i, ticket := range tickets {
		out[i] = TicketResponse{
			ID:          ticket.ID.String(),
			DrawID:      ticket.DrawID.String(),
			DrawTime:    ticket.DrawTime,
			DrawStatus:  string(ticket.DrawStatus),
			TicketPrice: ticket.TicketPrice.StringFixed(2),
			IsWinner:    ticket.IsWinner,
			PurchasedAt: ticket.PurchasedAt,
		}
	}
	return out
}

func newWinnerResponses(winners []*models.Winner) []WinnerResponse {
	out := make([]WinnerResponse, len(winners))
	for i, winner := range winners {
		out[i] = WinnerResponse{
			DrawID:      winner.DrawID.String(),
			TicketID:    winner.TicketID.String(),
			UserID:      winner.UserID.String(),
			PrizeAmount: winner.PrizeAmount.StringFixed(2),
			AnnouncedAt: winner.AnnouncedAt,
		}
	}
	return out
}

func newBalanceHistoryResponses(history []*models.BalanceHistory) []BalanceHistoryResponse {
	out := make([]BalanceHistoryResponse, len(history))
	for i, entry := range history {
		resp := BalanceHistoryResponse{
			ID:              entry.ID,
			BalanceBefore:   entry.BalanceBefore.StringFixed(2),
			BalanceAfter:    entry.BalanceAfter.StringFixed(2),
			ChangeAmount:    entry.ChangeAmount.StringFixed(2),
			TransactionType: string(entry.TransactionType),
			Metadata:        entry.TransactionMetadata,
			CreatedAt:       entry.CreatedAt,
		}
		if entry.RelatedID != nil {
			resp.RelatedID = stringPtr(entry.RelatedID.String())
		}
		out[i] = resp
	}
	return out
}

func newNotificationResponses(notifications []*models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		out[i] = NotificationResponse{
			ID:        n.ID.String(),
			Type:      string(n.Type),
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
	}
	return out
}
