package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"raffle/service"

	log "github.com/sirupsen/logrus"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Code    string            `json:"code"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// Error codes returned to clients
const (
	CodeInvalidRequest      = "invalid_request"
	CodeUnauthorized        = "unauthorized"
	CodeInvalidQuantity     = "invalid_quantity"
	CodeInvalidAmount       = "invalid_amount"
	CodeInvalidTicketPrice  = "invalid_ticket_price"
	CodeInvalidDrawTime     = "invalid_draw_time"
	CodeUserNotFound        = "user_not_found"
	CodeDrawNotFound        = "draw_not_found"
	CodeNotificationMissing = "notification_not_found"
	CodeInsufficientBalance = "insufficient_balance"
	CodeDrawNotActive       = "draw_not_active"
	CodeDrawNotYetDue       = "draw_not_yet_due"
	CodeDrawAlreadyResolved = "draw_already_resolved"
	CodeInternal            = "internal_error"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var serviceErrors = []errorMapping{
	{service.ErrInvalidQuantity, http.StatusBadRequest, CodeInvalidQuantity},
	{service.ErrInvalidAmount, http.StatusBadRequest, CodeInvalidAmount},
	{service.ErrInvalidTicketPrice, http.StatusBadRequest, CodeInvalidTicketPrice},
	{service.ErrInvalidDrawTime, http.StatusBadRequest, CodeInvalidDrawTime},
	{service.ErrUserNotFound, http.StatusNotFound, CodeUserNotFound},
	{service.ErrDrawNotFound, http.StatusNotFound, CodeDrawNotFound},
	{service.ErrNotificationMissing, http.StatusNotFound, CodeNotificationMissing},
	{service.ErrInsufficientBalance, http.StatusConflict, CodeInsufficientBalance},
	{service.ErrDrawNotActive, http.StatusConflict, CodeDrawNotActive},
	{service.ErrDrawNotYetDue, http.StatusConflict, CodeDrawNotYetDue},
	{service.ErrDrawAlreadyResolved, http.StatusConflict, CodeDrawAlreadyResolved},
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("Failed to encode JSON response")
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Code: code, Error: message})
}

// respondServiceError maps a service error to its HTTP status and code.
// Unrecognized errors are logged and reported as 500 without detail.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			respondError(w, m.status, m.code, m.target.Error())
			return
		}
	}

	log.WithFields(log.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"error":  err,
	}).Error("Request failed")
	respondError(w, http.StatusInternalServerError, CodeInternal, "Server error occurred. Please try again.")
}
