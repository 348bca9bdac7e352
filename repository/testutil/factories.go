package testutil

import (
	"context"
	"testing"
	"time"

	"raffle/database"
	"raffle/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// Money parses a decimal literal, failing the test on bad input
func Money(t *testing.T, amount string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(amount)
	require.NoError(t, err)
	return d
}

// CreateTestDraw builds an unsaved pending draw
func CreateTestDraw(drawTime time.Time, ticketPrice decimal.Decimal) *models.Draw {
	return &models.Draw{
		ID:          uuid.New(),
		DrawTime:    drawTime,
		TicketPrice: ticketPrice,
		Status:      models.DrawStatusPending,
		CreatedAt:   time.Now(),
	}
}

// CreateTestTickets builds count unsaved tickets for one user
func CreateTestTickets(drawID, userID uuid.UUID, count int) []*models.Ticket {
	tickets := make([]*models.Ticket, count)
	for i := range tickets {
		tickets[i] = &models.Ticket{DrawID: drawID, UserID: userID}
	}
	return tickets
}

// SeedAccount inserts an account with the given balance
func SeedAccount(t *testing.T, db *database.DB, balance string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := db.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		return tx.QueryRow(context.Background(),
			`INSERT INTO accounts (balance) VALUES ($1) RETURNING id`,
			Money(t, balance),
		).Scan(&id)
	})
	require.NoError(t, err)
	return id
}

// SeedDraw inserts a pending draw
func SeedDraw(t *testing.T, db *database.DB, drawTime time.Time, ticketPrice string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := db.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		return tx.QueryRow(context.Background(),
			`INSERT INTO draws (draw_time, ticket_price) VALUES ($1, $2) RETURNING id`,
			drawTime, Money(t, ticketPrice),
		).Scan(&id)
	})
	require.NoError(t, err)
	return id
}

// SeedTickets inserts count tickets for userID in drawID without touching balances
func SeedTickets(t *testing.T, db *database.DB, drawID, userID uuid.UUID, count int) []uuid.UUID {
	t.Helper()

	ids := make([]uuid.UUID, 0, count)
	err := db.WithTransaction(context.Background(), func(tx pgx.Tx) error {
		for i := 0; i < count; i++ {
			var id uuid.UUID
			err := tx.QueryRow(context.Background(),
				`INSERT INTO tickets (draw_id, user_id) VALUES ($1, $2) RETURNING id`,
				drawID, userID,
			).Scan(&id)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	require.NoError(t, err)
	return ids
}

// BalanceOf reads an account balance directly
func BalanceOf(t *testing.T, db *database.DB, accountID uuid.UUID) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(context.Background(), `SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	require.NoError(t, err)
	return balance
}

// CountRows counts rows in table matching an optional where clause
func CountRows(t *testing.T, db *database.DB, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var count int
	err := db.QueryRow(context.Background(), query, args...).Scan(&count)
	require.NoError(t, err)
	return count
}
