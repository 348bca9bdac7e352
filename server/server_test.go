package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"raffle/models"
	"raffle/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-admin-key"

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

type testServer struct {
	tickets       *service.MockTicketService
	draws         *service.MockDrawService
	accounts      *service.MockAccountService
	notifications *service.MockNotificationService
	handler       http.Handler
}

func newTestServer(pingErr error) *testServer {
	ts := &testServer{
		tickets:       new(service.MockTicketService),
		draws:         new(service.MockDrawService),
		accounts:      new(service.MockAccountService),
		notifications: new(service.MockNotificationService),
	}
	h := NewHandlers(ts.tickets, ts.draws, ts.accounts, ts.notifications, fakePinger{err: pingErr})
	ts.handler = NewRouter(h, testAPIKey)
	return ts
}

func (ts *testServer) do(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(nil)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/healthz", nil, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/readyz", nil, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/metrics", nil, nil).Code)

	down := newTestServer(errors.New("connection refused"))
	assert.Equal(t, http.StatusServiceUnavailable, down.do(http.MethodGet, "/readyz", nil, nil).Code)
}

func TestPurchaseTickets(t *testing.T) {
	userID := uuid.New()
	drawID := uuid.New()

	t.Run("success", func(t *testing.T) {
		ts := newTestServer(nil)
		result := &models.PurchaseResult{
			Draw:       &models.Draw{ID: drawID},
			Tickets:    []*models.Ticket{{ID: uuid.New()}, {ID: uuid.New()}},
			TotalCost:  decimal.RequireFromString("20"),
			NewBalance: decimal.RequireFromString("30.5"),
		}
		ts.tickets.On("PurchaseTickets", mock.Anything, userID, drawID, 2).Return(result, nil)

		rec := ts.do(http.MethodPost, "/api/v1/tickets/purchase", PurchaseTicketsRequest{
			UserID: userID.String(), DrawID: drawID.String(), Quantity: 2,
		}, nil)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp PurchaseTicketsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.TicketsIssued)
		assert.Len(t, resp.TicketIDs, 2)
		assert.Equal(t, "20.00", resp.TotalCost)
		assert.Equal(t, "30.50", resp.NewBalance)
		ts.tickets.AssertExpectations(t)
	})

	t.Run("validation", func(t *testing.T) {
		ts := newTestServer(nil)

		rec := ts.do(http.MethodPost, "/api/v1/tickets/purchase", map[string]interface{}{
			"user_id": "not-a-uuid", "quantity": 1,
		}, nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeError(t, rec)
		assert.Equal(t, CodeInvalidRequest, resp.Code)
		assert.Contains(t, resp.Details, "user_id")
		assert.Contains(t, resp.Details, "draw_id")
		ts.tickets.AssertNotCalled(t, "PurchaseTickets", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed body", func(t *testing.T) {
		ts := newTestServer(nil)
		rec := ts.do(http.MethodPost, "/api/v1/tickets/purchase", "{", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	errorCases := []struct {
		err    error
		status int
		code   string
	}{
		{service.ErrInvalidQuantity, http.StatusBadRequest, CodeInvalidQuantity},
		{service.ErrUserNotFound, http.StatusNotFound, CodeUserNotFound},
		{service.ErrDrawNotFound, http.StatusNotFound, CodeDrawNotFound},
		{service.ErrInsufficientBalance, http.StatusConflict, CodeInsufficientBalance},
		{service.ErrDrawNotActive, http.StatusConflict, CodeDrawNotActive},
		{errors.New("failed to commit transaction: connection reset"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tc := range errorCases {
		t.Run(tc.code, func(t *testing.T) {
			ts := newTestServer(nil)
			ts.tickets.On("PurchaseTickets", mock.Anything, userID, drawID, 11).Return(nil, tc.err)

			rec := ts.do(http.MethodPost, "/api/v1/tickets/purchase", PurchaseTicketsRequest{
				UserID: userID.String(), DrawID: drawID.String(), Quantity: 11,
			}, nil)

			assert.Equal(t, tc.status, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tc.code, resp.Code)
			assert.NotContains(t, resp.Error, "connection reset")
		})
	}
}

func TestAdminRoutesRequireAPIKey(t *testing.T) {
	ts := newTestServer(nil)

	rec := ts.do(http.MethodGet, "/api/v1/admin/draws", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/admin/draws", nil, map[string]string{HeaderAPIKey: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	ts.draws.On("ListDraws", mock.Anything).Return([]*models.DrawSummary{}, nil)
	rec = ts.do(http.MethodGet, "/api/v1/admin/draws", nil, map[string]string{HeaderAPIKey: testAPIKey})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateDraw(t *testing.T) {
	ts := newTestServer(nil)
	drawTime := time.Date(2027, 1, 1, 18, 0, 0, 0, time.UTC)
	created := &models.Draw{
		ID:          uuid.New(),
		DrawTime:    drawTime,
		TicketPrice: decimal.RequireFromString("10"),
		Status:      models.DrawStatusPending,
	}
	ts.draws.On("CreateDraw", mock.Anything, mock.MatchedBy(func(tm time.Time) bool {
		return tm.Equal(drawTime)
	}), mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(decimal.RequireFromString("10"))
	})).Return(created, nil)

	rec := ts.do(http.MethodPost, "/api/v1/admin/draws",
		`{"draw_time":"2027-01-01T18:00:00Z","ticket_price":"10.00"}`,
		map[string]string{HeaderAPIKey: testAPIKey})

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp DrawResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "10.00", resp.TicketPrice)
	assert.Equal(t, "pending", resp.Status)
}

func TestCreateDraw_MissingDrawTime(t *testing.T) {
	ts := newTestServer(nil)

	rec := ts.do(http.MethodPost, "/api/v1/admin/draws", `{"ticket_price":"10.00"}`, map[string]string{HeaderAPIKey: testAPIKey})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Details, "draw_time")
}

func TestResolveDraw(t *testing.T) {
	drawID := uuid.New()

	t.Run("completed", func(t *testing.T) {
		ts := newTestServer(nil)
		winnerID := uuid.New()
		ts.draws.On("ResolveDraw", mock.Anything, drawID).Return(&models.DrawResolution{
			DrawID:          drawID,
			Status:          models.DrawStatusCompleted,
			TotalTickets:    6,
			WinnerID:        winnerID,
			WinningTicketID: uuid.New(),
			PrizeAmount:     decimal.RequireFromString("24"),
		}, nil)

		rec := ts.do(http.MethodPost, "/api/v1/admin/draws/"+drawID.String()+"/resolve", nil, map[string]string{HeaderAPIKey: testAPIKey})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "completed", resp["status"])
		assert.Equal(t, winnerID.String(), resp["winner_id"])
		assert.Equal(t, "24.00", resp["prize_amount"])
		assert.NotContains(t, resp, "refunded_tickets")
	})

	t.Run("cancelled", func(t *testing.T) {
		ts := newTestServer(nil)
		ts.draws.On("ResolveDraw", mock.Anything, drawID).Return(&models.DrawResolution{
			DrawID:                drawID,
			Status:                models.DrawStatusCancelled,
			TotalTickets:          3,
			RefundedTickets:       3,
			RefundAmountPerTicket: decimal.RequireFromString("10"),
		}, nil)

		rec := ts.do(http.MethodPost, "/api/v1/admin/draws/"+drawID.String()+"/resolve", nil, map[string]string{HeaderAPIKey: testAPIKey})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "cancelled", resp["status"])
		assert.Equal(t, float64(3), resp["refunded_tickets"])
		assert.Equal(t, "10.00", resp["refund_amount_per_ticket"])
		assert.NotContains(t, resp, "winner_id")
	})

	t.Run("already resolved", func(t *testing.T) {
		ts := newTestServer(nil)
		ts.draws.On("ResolveDraw", mock.Anything, drawID).Return(nil, service.ErrDrawAlreadyResolved)

		rec := ts.do(http.MethodPost, "/api/v1/admin/draws/"+drawID.String()+"/resolve", nil, map[string]string{HeaderAPIKey: testAPIKey})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, CodeDrawAlreadyResolved, decodeError(t, rec).Code)
	})

	t.Run("bad id", func(t *testing.T) {
		ts := newTestServer(nil)
		rec := ts.do(http.MethodPost, "/api/v1/admin/draws/nope/resolve", nil, map[string]string{HeaderAPIKey: testAPIKey})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestResolveDueDraws(t *testing.T) {
	ts := newTestServer(nil)
	ts.draws.On("ResolveDueDraws", mock.Anything).Return(&service.BatchResolution{
		Resolved: []*models.DrawResolution{{DrawID: uuid.New(), Status: models.DrawStatusCancelled}},
		Skipped:  1,
	}, nil)

	rec := ts.do(http.MethodPost, "/api/v1/admin/draws/resolve-due", nil, map[string]string{HeaderAPIKey: testAPIKey})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp BatchResolutionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Resolved, 1)
	assert.Equal(t, 1, resp.Skipped)
}

func TestPublicDrawReads(t *testing.T) {
	ts := newTestServer(nil)
	draw := &models.Draw{ID: uuid.New(), TicketPrice: decimal.RequireFromString("5"), Status: models.DrawStatusPending}
	summaries := []*models.DrawSummary{{Draw: draw, TicketCount: 6}}

	ts.draws.On("GetUpcomingDraws", mock.Anything, 0).Return(summaries, nil)
	ts.draws.On("GetUpcomingDraws", mock.Anything, 3).Return(summaries, nil)
	ts.draws.On("GetAvailableDraws", mock.Anything).Return(summaries, nil)
	ts.draws.On("GetRecentWinners", mock.Anything, 0).Return([]*models.Winner{}, nil)
	ts.draws.On("GetStats", mock.Anything).Return(&models.Stats{TotalAccounts: 4, TotalPrizesPaid: decimal.RequireFromString("24")}, nil)

	rec := ts.do(http.MethodGet, "/api/v1/draws/upcoming", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var draws []DrawResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &draws))
	require.Len(t, draws, 1)
	assert.Equal(t, 6, *draws[0].TicketCount)
	assert.Equal(t, "24.00", *draws[0].PrizePool)

	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/v1/draws/upcoming?limit=3", nil, nil).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/api/v1/draws/upcoming?limit=abc", nil, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/v1/draws/available", nil, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/api/v1/draws/winners", nil, nil).Code)

	rec = ts.do(http.MethodGet, "/api/v1/draws/stats", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "24.00", stats.TotalPrizesPaid)

	ts.draws.AssertExpectations(t)
}

func TestGetDraw(t *testing.T) {
	drawID := uuid.New()
	winnerID := uuid.New()

	t.Run("completed draw with winner", func(t *testing.T) {
		ts := newTestServer(nil)
		draw := &models.Draw{ID: drawID, TicketPrice: decimal.RequireFromString("5"), Status: models.DrawStatusCompleted}
		detail := &models.DrawDetail{
			Draw:        draw,
			TicketCount: 6,
			Winner:      &models.Winner{DrawID: drawID, TicketID: uuid.New(), UserID: winnerID, PrizeAmount: decimal.RequireFromString("24")},
		}
		ts.draws.On("GetDraw", mock.Anything, drawID).Return(detail, nil)

		rec := ts.do(http.MethodGet, "/api/v1/draws/"+drawID.String(), nil, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp DrawDetailResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, drawID.String(), resp.ID)
		assert.Equal(t, "completed", resp.Status)
		assert.True(t, resp.Resolved)
		assert.Equal(t, 6, *resp.TicketCount)
		assert.Equal(t, "24.00", *resp.PrizePool)
		require.NotNil(t, resp.Winner)
		assert.Equal(t, winnerID.String(), resp.Winner.UserID)
		ts.draws.AssertExpectations(t)
	})

	t.Run("unknown draw", func(t *testing.T) {
		ts := newTestServer(nil)
		ts.draws.On("GetDraw", mock.Anything, drawID).Return(nil, service.ErrDrawNotFound)

		rec := ts.do(http.MethodGet, "/api/v1/draws/"+drawID.String(), nil, nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, CodeDrawNotFound, decodeError(t, rec).Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		ts := newTestServer(nil)
		rec := ts.do(http.MethodGet, "/api/v1/draws/not-a-uuid", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		ts.draws.AssertNotCalled(t, "GetDraw", mock.Anything, mock.Anything)
	})
}

func TestUserRoutes(t *testing.T) {
	ts := newTestServer(nil)
	userID := uuid.New()
	notificationID := uuid.New()
	base := "/api/v1/users/" + userID.String()

	ts.accounts.On("GetAccount", mock.Anything, userID).Return(&models.Account{ID: userID, Balance: decimal.RequireFromString("7.5")}, nil)
	ts.accounts.On("GetBalanceHistory", mock.Anything, userID, 0).Return([]*models.BalanceHistory{}, nil)
	ts.tickets.On("GetUserTickets", mock.Anything, userID).Return([]*models.UserTicket{}, nil)
	ts.notifications.On("GetNotifications", mock.Anything, userID).Return([]*models.Notification{
		{ID: notificationID, UserID: userID, Type: models.NotificationTypeRefund, Message: "refunded"},
	}, nil)
	ts.notifications.On("MarkRead", mock.Anything, userID, notificationID).Return(nil)
	ts.notifications.On("MarkAllRead", mock.Anything, userID).Return(int64(2), nil)

	rec := ts.do(http.MethodGet, base+"/account", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var account AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, "7.50", account.Balance)

	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, base+"/balance-history", nil, nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, base+"/tickets", nil, nil).Code)

	rec = ts.do(http.MethodGet, base+"/notifications", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var notifications []NotificationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notifications))
	require.Len(t, notifications, 1)
	assert.Equal(t, "refund", notifications[0].Type)

	assert.Equal(t, http.StatusNoContent, ts.do(http.MethodPost, base+"/notifications/"+notificationID.String()+"/read", nil, nil).Code)

	rec = ts.do(http.MethodPost, base+"/notifications/read", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var marked MarkAllReadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &marked))
	assert.Equal(t, int64(2), marked.Updated)

	ts.accounts.AssertExpectations(t)
	ts.tickets.AssertExpectations(t)
	ts.notifications.AssertExpectations(t)
}

func TestUserRoutes_NotFound(t *testing.T) {
	ts := newTestServer(nil)
	userID := uuid.New()
	ts.accounts.On("GetAccount", mock.Anything, userID).Return(nil, service.ErrUserNotFound)
	ts.notifications.On("MarkRead", mock.Anything, userID, mock.Anything).Return(service.ErrNotificationMissing)

	rec := ts.do(http.MethodGet, "/api/v1/users/"+userID.String()+"/account", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeUserNotFound, decodeError(t, rec).Code)

	rec = ts.do(http.MethodPost, "/api/v1/users/"+userID.String()+"/notifications/"+uuid.NewString()+"/read", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/api/v1/users/bogus/account", nil, nil).Code)
}
