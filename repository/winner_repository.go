package repository

import (
	"context"
	"errors"
	"fmt"

	"raffle/database"
	"raffle/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WinnerRepository implements winner data access
type WinnerRepository struct {
	q queryable
}

// NewWinnerRepository creates a new winner repository
func NewWinnerRepository(db *database.DB) *WinnerRepository {
	return &WinnerRepository{q: db.Pool}
}

// newWinnerRepositoryWithTx creates a new winner repository bound to a transaction
func newWinnerRepositoryWithTx(tx queryable) *WinnerRepository {
	return &WinnerRepository{q: tx}
}

// Create records the winner of a draw
func (r *WinnerRepository) Create(ctx context.Context, winner *models.Winner) error {
	query := `
		INSERT INTO winners (draw_id, ticket_id, user_id, prize_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, announced_at
	`

	err := r.q.QueryRow(ctx, query,
		winner.DrawID,
		winner.TicketID,
		winner.UserID,
		winner.PrizeAmount,
	).Scan(&winner.ID, &winner.AnnouncedAt)
	if err != nil {
		return fmt.Errorf("failed to create winner for draw %s: %w", winner.DrawID, err)
	}

	return nil
}

// GetByDraw returns the winner of a draw, or nil when it has none
func (r *WinnerRepository) GetByDraw(ctx context.Context, drawID uuid.UUID) (*models.Winner, error) {
	query := `
		SELECT id, draw_id, ticket_id, user_id, prize_amount, announced_at
		FROM winners
		WHERE draw_id = $1
	`

	var winner models.Winner
	err := r.q.QueryRow(ctx, query, drawID).Scan(
		&winner.ID,
		&winner.DrawID,
		&winner.TicketID,
		&winner.UserID,
		&winner.PrizeAmount,
		&winner.AnnouncedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get winner for draw %s: %w", drawID, err)
	}

	return &winner, nil
}

// ListRecent returns the most recently announced winners
func (r *WinnerRepository) ListRecent(ctx context.Context, limit int) ([]*models.Winner, error) {
	query := `
		SELECT id, draw_id, ticket_id, user_id, prize_amount, announced_at
		FROM winners
		ORDER BY announced_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent winners: %w", err)
	}
	defer rows.Close()

	var winners []*models.Winner
	for rows.Next() {
		var winner models.Winner
		err := rows.Scan(
			&winner.ID,
			&winner.DrawID,
			&winner.TicketID,
			&winner.UserID,
			&winner.PrizeAmount,
			&winner.AnnouncedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan winner: %w", err)
		}
		winners = append(winners, &winner)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate winners: %w", err)
	}

	return winners, nil
}
