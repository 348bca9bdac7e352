package server

import (
	"context"
	"net/http"

	"raffle/service"

	"github.com/google/uuid"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers serves the raffle API on top of the services
type Handlers struct {
	tickets       service.TicketService
	draws         service.DrawService
	accounts      service.AccountService
	notifications service.NotificationService
	db            Pinger
}

// NewHandlers creates the API handlers
func NewHandlers(tickets service.TicketService, draws service.DrawService, accounts service.AccountService, notifications service.NotificationService, db Pinger) *Handlers {
	return &Handlers{
		tickets:       tickets,
		draws:         draws,
		accounts:      accounts,
		notifications: notifications,
		db:            db,
	}
}

// HandleHealthz is the liveness probe
func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReadyz reports whether the database is reachable
func (h *Handlers) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// HandlePurchaseTickets buys tickets in a pending draw
func (h *Handlers) HandlePurchaseTickets(w http.ResponseWriter, r *http.Request) {
	var req PurchaseTicketsRequest
	if !DecodeAndValidateRequest(w, r, &req) {
		return
	}

	result, err := h.tickets.PurchaseTickets(r.Context(), uuid.MustParse(req.UserID), uuid.MustParse(req.DrawID), req.Quantity)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, newPurchaseResponse(result))
}

// HandleGetUserTickets lists a user's tickets
func (h *Handlers) HandleGetUserTickets(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r, "userID")
	if !ok {
		return
	}

	tickets, err := h.tickets.GetUserTickets(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newTicketResponses(tickets))
}

// HandleGetAccount returns a user's balance
func (h *Handlers) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r, "userID")
	if !ok {
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, AccountResponse{
		ID:        account.ID.String(),
		Balance:   account.Balance.StringFixed(2),
		UpdatedAt: account.UpdatedAt,
	})
}

// HandleGetBalanceHistory returns a user's recent balance changes
func (h *Handlers) HandleGetBalanceHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r, "userID")
	if !ok {
		return
	}
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}

	history, err := h.accounts.GetBalanceHistory(r.Context(), userID, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newBalanceHistoryResponses(history))
}

// HandleGetNotifications returns a user's inbox
func (h *Handlers) HandleGetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r, "userID")
	if !ok {
		return
	}

	notifications, err := h.notifications.GetNotifications(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newNotificationResponses(notifications))
}

// HandleMarkNotificationRead marks one notification as read
func (h *Handlers) HandleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r, "userID")
	if !ok {
		return
	}
	notificationID, ok := uuidParam(w, r, "notificationID")
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(r.Context(), userID, notificationID); err != nil {
		respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleMarkAllNotificationsRead marks the whole inbox as read
func (h *Handlers) HandleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, r, "userID")
	if !ok {
		return
	}

	updated, err := h.notifications.MarkAllRead(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, MarkAllReadResponse{Updated: updated})
}

// HandleGetUpcomingDraws lists the next pending draws
func (h *Handlers) HandleGetUpcomingDraws(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}

	draws, err := h.draws.GetUpcomingDraws(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newDrawSummaryResponses(draws))
}

// HandleGetAvailableDraws lists every draw still selling tickets
func (h *Handlers) HandleGetAvailableDraws(w http.ResponseWriter, r *http.Request) {
	draws, err := h.draws.GetAvailableDraws(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newDrawSummaryResponses(draws))
}

// HandleGetDraw returns a single draw with its ticket count and winner
func (h *Handlers) HandleGetDraw(w http.ResponseWriter, r *http.Request) {
	drawID, ok := uuidParam(w, r, "drawID")
	if !ok {
		return
	}

	detail, err := h.draws.GetDraw(r.Context(), drawID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newDrawDetailResponse(detail))
}

// HandleGetRecentWinners lists the latest winners
func (h *Handlers) HandleGetRecentWinners(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}

	winners, err := h.draws.GetRecentWinners(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newWinnerResponses(winners))
}

// HandleGetStats returns platform statistics
func (h *Handlers) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.draws.GetStats(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, StatsResponse{
		TotalAccounts:   stats.TotalAccounts,
		ActiveDraws:     stats.ActiveDraws,
		TotalWinners:    stats.TotalWinners,
		TotalPrizesPaid: stats.TotalPrizesPaid.StringFixed(2),
	})
}

// HandleCreateDraw schedules a draw (admin)
func (h *Handlers) HandleCreateDraw(w http.ResponseWriter, r *http.Request) {
	var req CreateDrawRequest
	if !DecodeAndValidateRequest(w, r, &req) {
		return
	}

	draw, err := h.draws.CreateDraw(r.Context(), req.DrawTime, req.TicketPrice)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, newDrawResponse(draw))
}

// HandleListDraws lists every draw (admin)
func (h *Handlers) HandleListDraws(w http.ResponseWriter, r *http.Request) {
	draws, err := h.draws.ListDraws(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newDrawSummaryResponses(draws))
}

// HandleResolveDraw resolves a single due draw (admin)
func (h *Handlers) HandleResolveDraw(w http.ResponseWriter, r *http.Request) {
	drawID, ok := uuidParam(w, r, "drawID")
	if !ok {
		return
	}

	resolution, err := h.draws.ResolveDraw(r.Context(), drawID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newResolutionResponse(resolution))
}

// HandleResolveDueDraws resolves every due draw (admin)
func (h *Handlers) HandleResolveDueDraws(w http.ResponseWriter, r *http.Request) {
	batch, err := h.draws.ResolveDueDraws(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newBatchResolutionResponse(batch))
}
