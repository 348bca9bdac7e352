package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"raffle/database"
	"raffle/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const drawColumns = `id, draw_time, ticket_price, status, winning_ticket_id, created_at, resolved_at`

// DrawRepository implements draw data access
type DrawRepository struct {
	q queryable
}

// NewDrawRepository creates a new draw repository
func NewDrawRepository(db *database.DB) *DrawRepository {
	return &DrawRepository{q: db.Pool}
}

// newDrawRepositoryWithTx creates a new draw repository bound to a transaction
func newDrawRepositoryWithTx(tx queryable) *DrawRepository {
	return &DrawRepository{q: tx}
}

// Create inserts a new pending draw and fills in its generated fields
func (r *DrawRepository) Create(ctx context.Context, draw *models.Draw) error {
	query := `
		INSERT INTO draws (draw_time, ticket_price)
		VALUES ($1, $2)
		RETURNING ` + drawColumns

	err := scanDraw(r.q.QueryRow(ctx, query, draw.DrawTime, draw.TicketPrice), draw)
	if err != nil {
		return fmt.Errorf("failed to create draw: %w", err)
	}

	return nil
}

// GetByID retrieves a draw by id
func (r *DrawRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Draw, error) {
	return r.getByID(ctx, id, "")
}

// GetByIDForShare retrieves a draw and takes a share lock on it.
// The lock conflicts with GetByIDForUpdate, so purchases and resolution of the same draw serialize.
func (r *DrawRepository) GetByIDForShare(ctx context.Context, id uuid.UUID) (*models.Draw, error) {
	return r.getByID(ctx, id, "FOR SHARE")
}

// GetByIDForUpdate retrieves a draw and locks it exclusively until the transaction ends
func (r *DrawRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Draw, error) {
	return r.getByID(ctx, id, "FOR UPDATE")
}

func (r *DrawRepository) getByID(ctx context.Context, id uuid.UUID, lockClause string) (*models.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws WHERE id = $1 ` + lockClause

	var draw models.Draw
	err := scanDraw(r.q.QueryRow(ctx, query, id), &draw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw %s: %w", id, err)
	}

	return &draw, nil
}

// MarkCompleted transitions a pending draw to completed with its winning ticket
func (r *DrawRepository) MarkCompleted(ctx context.Context, id uuid.UUID, winningTicketID uuid.UUID) error {
	query := `
		UPDATE draws
		SET status = 'completed', winning_ticket_id = $2, resolved_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, id, winningTicketID)
	if err != nil {
		return fmt.Errorf("failed to complete draw %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrDrawAlreadyResolved
	}

	return nil
}

// MarkCancelled transitions a pending draw to cancelled
func (r *DrawRepository) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE draws
		SET status = 'cancelled', resolved_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to cancel draw %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrDrawAlreadyResolved
	}

	return nil
}

// ListUpcoming returns pending draws scheduled after now with their ticket counts
func (r *DrawRepository) ListUpcoming(ctx context.Context, now time.Time, limit int) ([]*models.DrawSummary, error) {
	var limitArg *int
	if limit > 0 {
		limitArg = &limit
	}

	query := `
		SELECT d.id, d.draw_time, d.ticket_price, d.status, d.winning_ticket_id, d.created_at, d.resolved_at,
		       COUNT(t.id)
		FROM draws d
		LEFT JOIN tickets t ON t.draw_id = d.id
		WHERE d.status = 'pending' AND d.draw_time > $1
		GROUP BY d.id
		ORDER BY d.draw_time ASC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, now, limitArg)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming draws: %w", err)
	}
	return collectDrawSummaries(rows)
}

// ListAll returns every draw, newest first, with ticket counts
func (r *DrawRepository) ListAll(ctx context.Context) ([]*models.DrawSummary, error) {
	query := `
		SELECT d.id, d.draw_time, d.ticket_price, d.status, d.winning_ticket_id, d.created_at, d.resolved_at,
		       COUNT(t.id)
		FROM draws d
		LEFT JOIN tickets t ON t.draw_id = d.id
		GROUP BY d.id
		ORDER BY d.draw_time DESC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list draws: %w", err)
	}
	return collectDrawSummaries(rows)
}

// GetDueDraws returns pending draws whose draw time is at or before now
func (r *DrawRepository) GetDueDraws(ctx context.Context, now time.Time) ([]*models.Draw, error) {
	query := `
		SELECT ` + drawColumns + `
		FROM draws
		WHERE status = 'pending' AND draw_time <= $1
		ORDER BY draw_time ASC
	`

	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get due draws: %w", err)
	}
	defer rows.Close()

	var draws []*models.Draw
	for rows.Next() {
		var draw models.Draw
		if err := scanDraw(rows, &draw); err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		draws = append(draws, &draw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draws: %w", err)
	}

	return draws, nil
}

// GetNextPendingDrawTime returns the earliest draw time among pending draws
func (r *DrawRepository) GetNextPendingDrawTime(ctx context.Context) (*time.Time, error) {
	query := `
		SELECT MIN(draw_time)
		FROM draws
		WHERE status = 'pending'
	`

	var drawTime *time.Time
	if err := r.q.QueryRow(ctx, query).Scan(&drawTime); err != nil {
		return nil, fmt.Errorf("failed to get next pending draw time: %w", err)
	}

	return drawTime, nil
}

// GetStats returns platform-wide counters
func (r *DrawRepository) GetStats(ctx context.Context) (*models.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM accounts),
			(SELECT COUNT(*) FROM draws WHERE status = 'pending'),
			(SELECT COUNT(*) FROM winners),
			(SELECT COALESCE(SUM(prize_amount), 0) FROM winners)
	`

	var stats models.Stats
	err := r.q.QueryRow(ctx, query).Scan(
		&stats.TotalAccounts,
		&stats.ActiveDraws,
		&stats.TotalWinners,
		&stats.TotalPrizesPaid,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return &stats, nil
}

func scanDraw(row pgx.Row, draw *models.Draw) error {
	return row.Scan(
		&draw.ID,
		&draw.DrawTime,
		&draw.TicketPrice,
		&draw.Status,
		&draw.WinningTicketID,
		&draw.CreatedAt,
		&draw.ResolvedAt,
	)
}

func collectDrawSummaries(rows pgx.Rows) ([]*models.DrawSummary, error) {
	defer rows.Close()

	var summaries []*models.DrawSummary
	for rows.Next() {
		var draw models.Draw
		var ticketCount int
		err := rows.Scan(
			&draw.ID,
			&draw.DrawTime,
			&draw.TicketPrice,
			&draw.Status,
			&draw.WinningTicketID,
			&draw.CreatedAt,
			&draw.ResolvedAt,
			&ticketCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draw summary: %w", err)
		}
		summaries = append(summaries, &models.DrawSummary{Draw: &draw, TicketCount: ticketCount})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate draws: %w", err)
	}

	return summaries, nil
}
