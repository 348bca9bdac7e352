package service

import (
	"errors"

	"raffle/models"
)

// Validation and precondition errors returned by the services.
// Anything else is an infrastructure failure.
var (
	ErrInvalidQuantity     = errors.New("quantity must be between 1 and 10")
	ErrInvalidTicketPrice  = errors.New("ticket price must be positive")
	ErrInvalidDrawTime     = errors.New("draw time must be in the future")
	ErrDrawNotFound        = errors.New("draw not found")
	ErrDrawNotActive       = errors.New("draw is not accepting tickets")
	ErrDrawNotYetDue       = errors.New("draw time has not yet arrived")
	ErrNotificationMissing = errors.New("notification not found")

	ErrUserNotFound        = models.ErrUserNotFound
	ErrInsufficientBalance = models.ErrInsufficientBalance
	ErrInvalidAmount       = models.ErrInvalidAmount
	ErrDrawAlreadyResolved = models.ErrDrawAlreadyResolved
)
