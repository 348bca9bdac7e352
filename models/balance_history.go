package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeTicketPurchase TransactionType = "ticket_purchase"
	TransactionTypeLotteryWin     TransactionType = "lottery_win"
	TransactionTypeLotteryRefund  TransactionType = "lottery_refund"
)

// RelatedType represents what type of entity the related_id refers to
type RelatedType string

const (
	RelatedTypeDraw RelatedType = "draw"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	UserID              uuid.UUID       `db:"user_id"`
	BalanceBefore       decimal.Decimal `db:"balance_before"`
	BalanceAfter        decimal.Decimal `db:"balance_after"`
	ChangeAmount        decimal.Decimal `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	RelatedID           *uuid.UUID      `db:"related_id"`
	RelatedType         *RelatedType    `db:"related_type"`
	CreatedAt           time.Time       `db:"created_at"`
}

// NewDrawBalanceHistory builds a history entry for a balance change caused by a draw.
// change is signed: negative for debits.
func NewDrawBalanceHistory(userID uuid.UUID, drawID uuid.UUID, newBalance, change decimal.Decimal, txType TransactionType, metadata map[string]any) *BalanceHistory {
	relatedType := RelatedTypeDraw
	related := drawID
	return &BalanceHistory{
		UserID:              userID,
		BalanceBefore:       newBalance.Sub(change),
		BalanceAfter:        newBalance,
		ChangeAmount:        change,
		TransactionType:     txType,
		TransactionMetadata: metadata,
		RelatedID:           &related,
		RelatedType:         &relatedType,
	}
}
