package repository

import (
	"context"
	"fmt"

	"raffle/database"
	"raffle/models"

	"github.com/google/uuid"
)

// TicketRepository implements ticket data access
type TicketRepository struct {
	q queryable
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{q: db.Pool}
}

// newTicketRepositoryWithTx creates a new ticket repository bound to a transaction
func newTicketRepositoryWithTx(tx queryable) *TicketRepository {
	return &TicketRepository{q: tx}
}

// CreateBatch creates multiple tickets in a single batch insert
func (r *TicketRepository) CreateBatch(ctx context.Context, tickets []*models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	query := `
		INSERT INTO tickets (draw_id, user_id)
		VALUES `

	values := make([]any, 0, len(tickets)*2)
	for i, ticket := range tickets {
		if i > 0 {
			query += ", "
		}
		paramOffset := i * 2
		query += fmt.Sprintf("($%d, $%d)", paramOffset+1, paramOffset+2)
		values = append(values, ticket.DrawID, ticket.UserID)
	}
	query += " RETURNING id, purchased_at"

	rows, err := r.q.Query(ctx, query, values...)
	if err != nil {
		return fmt.Errorf("failed to batch create tickets: %w", err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i >= len(tickets) {
			return fmt.Errorf("batch insert returned more rows than tickets")
		}
		if err := rows.Scan(&tickets[i].ID, &tickets[i].PurchasedAt); err != nil {
			return fmt.Errorf("failed to scan ticket result: %w", err)
		}
		i++
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to batch create tickets: %w", err)
	}
	if i != len(tickets) {
		return fmt.Errorf("batch insert returned %d rows for %d tickets", i, len(tickets))
	}

	return nil
}

// GetByDraw returns all tickets of a draw ordered by purchase
func (r *TicketRepository) GetByDraw(ctx context.Context, drawID uuid.UUID) ([]*models.Ticket, error) {
	query := `
		SELECT id, draw_id, user_id, purchased_at
		FROM tickets
		WHERE draw_id = $1
		ORDER BY purchased_at ASC, id ASC
	`

	rows, err := r.q.Query(ctx, query, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets for draw %s: %w", drawID, err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		var ticket models.Ticket
		if err := rows.Scan(&ticket.ID, &ticket.DrawID, &ticket.UserID, &ticket.PurchasedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	return tickets, nil
}

// CountByDraw returns how many tickets a draw has sold
func (r *TicketRepository) CountByDraw(ctx context.Context, drawID uuid.UUID) (int, error) {
	var count int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE draw_id = $1`, drawID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets for draw %s: %w", drawID, err)
	}
	return count, nil
}

// GetByUser returns a user's tickets joined with their draws, newest first
func (r *TicketRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserTicket, error) {
	query := `
		SELECT t.id, t.draw_id, t.user_id, t.purchased_at,
		       d.draw_time, d.status, d.ticket_price,
		       COALESCE(d.winning_ticket_id = t.id, FALSE)
		FROM tickets t
		JOIN draws d ON d.id = t.draw_id
		WHERE t.user_id = $1
		ORDER BY t.purchased_at DESC, t.id DESC
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets for user %s: %w", userID, err)
	}
	defer rows.Close()

	var tickets []*models.UserTicket
	for rows.Next() {
		var ticket models.UserTicket
		err := rows.Scan(
			&ticket.ID,
			&ticket.DrawID,
			&ticket.UserID,
			&ticket.PurchasedAt,
			&ticket.DrawTime,
			&ticket.DrawStatus,
			&ticket.TicketPrice,
			&ticket.IsWinner,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user ticket: %w", err)
		}
		tickets = append(tickets, &ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user tickets: %w", err)
	}

	return tickets, nil
}
