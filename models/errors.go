package models

import "errors"

// Errors shared between the storage layer and the services
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrDrawAlreadyResolved = errors.New("draw already completed or cancelled")
)
