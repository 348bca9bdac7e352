package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"raffle/events"
	"raffle/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	defaultUpcomingLimit = 5
	defaultWinnersLimit  = 10
)

// BatchResolution summarizes a ResolveDueDraws run
type BatchResolution struct {
	Resolved []*models.DrawResolution
	Skipped  int // already resolved by a concurrent caller
	Failed   int
}

type drawService struct {
	uowFactory UnitOfWorkFactory
	random     RandomSource
	now        func() time.Time
}

// NewDrawService creates a new draw service
func NewDrawService(uowFactory UnitOfWorkFactory, random RandomSource) DrawService {
	return &drawService{
		uowFactory: uowFactory,
		random:     random,
		now:        time.Now,
	}
}

// ResolveDraw moves a due pending draw to completed or cancelled.
// The draw row stays locked for the whole transaction, so concurrent callers
// serialize and all but the first observe ErrDrawAlreadyResolved.
func (s *drawService) ResolveDraw(ctx context.Context, drawID uuid.UUID) (*models.DrawResolution, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	draw, err := uow.DrawRepository().GetByIDForUpdate(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	if draw == nil {
		return nil, ErrDrawNotFound
	}
	if !draw.IsPending() {
		return nil, ErrDrawAlreadyResolved
	}
	if !draw.IsDue(s.now()) {
		return nil, ErrDrawNotYetDue
	}

	tickets, err := uow.TicketRepository().GetByDraw(ctx, draw.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}

	var resolution *models.DrawResolution
	if len(tickets) < models.MinimumTickets {
		resolution, err = s.refundDraw(ctx, uow, draw, tickets)
	} else {
		resolution, err = s.awardDraw(ctx, uow, draw, tickets)
	}
	if err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.DrawResolvedEvent{
		DrawID:                draw.ID,
		DrawTime:              draw.DrawTime,
		Status:                resolution.Status,
		TotalTickets:          resolution.TotalTickets,
		WinnerID:              resolution.WinnerID,
		WinningTicketID:       resolution.WinningTicketID,
		PrizeAmount:           resolution.PrizeAmount,
		RefundedTickets:       resolution.RefundedTickets,
		RefundAmountPerTicket: resolution.RefundAmountPerTicket,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	fields := log.Fields{
		"draw_id":       draw.ID,
		"status":        resolution.Status,
		"total_tickets": resolution.TotalTickets,
		"participants":  len(resolution.Participants),
	}
	if resolution.Completed() {
		fields["winner_id"] = resolution.WinnerID
		fields["prize_amount"] = resolution.PrizeAmount.StringFixed(2)
	}
	log.WithFields(fields).Info("Draw resolved")

	return resolution, nil
}

// refundDraw credits every ticket back to its owner and cancels the draw
func (s *drawService) refundDraw(ctx context.Context, uow UnitOfWork, draw *models.Draw, tickets []*models.Ticket) (*models.DrawResolution, error) {
	participants := models.SummarizeParticipants(tickets)
	models.SortParticipantsByUser(participants)

	for _, participant := range participants {
		refund := draw.TicketsCost(participant.TicketCount)
		newBalance, err := uow.AccountRepository().Credit(ctx, participant.UserID, refund)
		if err != nil {
			return nil, fmt.Errorf("failed to refund user %s: %w", participant.UserID, err)
		}

		history := models.NewDrawBalanceHistory(participant.UserID, draw.ID, newBalance, refund, models.TransactionTypeLotteryRefund, map[string]any{
			"tickets":           participant.TicketCount,
			"refund_per_ticket": draw.TicketPrice.StringFixed(2),
		})
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record refund: %w", err)
		}

		notification := models.NewRefundNotification(participant.UserID, draw, participant.TicketCount, refund)
		if err := EnqueueNotification(ctx, uow, notification); err != nil {
			return nil, err
		}
	}

	if err := uow.DrawRepository().MarkCancelled(ctx, draw.ID); err != nil {
		return nil, fmt.Errorf("failed to cancel draw: %w", err)
	}

	return &models.DrawResolution{
		DrawID:                draw.ID,
		Status:                models.DrawStatusCancelled,
		TotalTickets:          len(tickets),
		Participants:          participants,
		RefundedTickets:       len(tickets),
		RefundAmountPerTicket: draw.TicketPrice,
	}, nil
}

// awardDraw picks a winning ticket uniformly, pays the prize and completes the draw
func (s *drawService) awardDraw(ctx context.Context, uow UnitOfWork, draw *models.Draw, tickets []*models.Ticket) (*models.DrawResolution, error) {
	index, err := s.random.Index(len(tickets))
	if err != nil {
		return nil, fmt.Errorf("failed to select winning ticket: %w", err)
	}
	if index < 0 || index >= len(tickets) {
		return nil, fmt.Errorf("random source returned index %d for %d tickets", index, len(tickets))
	}
	winningTicket := tickets[index]
	prize := draw.PrizeAmount(len(tickets))

	if err := uow.DrawRepository().MarkCompleted(ctx, draw.ID, winningTicket.ID); err != nil {
		return nil, fmt.Errorf("failed to complete draw: %w", err)
	}

	winner := &models.Winner{
		DrawID:      draw.ID,
		TicketID:    winningTicket.ID,
		UserID:      winningTicket.UserID,
		PrizeAmount: prize,
	}
	if err := uow.WinnerRepository().Create(ctx, winner); err != nil {
		return nil, fmt.Errorf("failed to record winner: %w", err)
	}

	if prize.IsPositive() {
		newBalance, err := uow.AccountRepository().Credit(ctx, winningTicket.UserID, prize)
		if err != nil {
			return nil, fmt.Errorf("failed to credit prize: %w", err)
		}

		history := models.NewDrawBalanceHistory(winningTicket.UserID, draw.ID, newBalance, prize, models.TransactionTypeLotteryWin, map[string]any{
			"ticket_id":     winningTicket.ID.String(),
			"total_tickets": len(tickets),
		})
		if err := RecordBalanceChange(ctx, uow, history); err != nil {
			return nil, fmt.Errorf("failed to record prize: %w", err)
		}
	}

	if err := EnqueueNotification(ctx, uow, models.NewWinnerNotification(winningTicket.UserID, draw, prize)); err != nil {
		return nil, err
	}

	participants := models.SummarizeParticipants(tickets)
	for _, participant := range participants {
		if participant.UserID == winningTicket.UserID {
			continue
		}
		if err := EnqueueNotification(ctx, uow, models.NewDrawCompletedNotification(participant.UserID, draw)); err != nil {
			return nil, err
		}
	}

	return &models.DrawResolution{
		DrawID:          draw.ID,
		Status:          models.DrawStatusCompleted,
		TotalTickets:    len(tickets),
		Participants:    participants,
		WinnerID:        winningTicket.UserID,
		WinningTicketID: winningTicket.ID,
		PrizeAmount:     prize,
	}, nil
}

// ResolveDueDraws resolves every pending draw whose time has passed, each in its own transaction
func (s *drawService) ResolveDueDraws(ctx context.Context) (*BatchResolution, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	due, err := uow.DrawRepository().GetDueDraws(ctx, s.now())
	uow.Rollback()
	if err != nil {
		return nil, fmt.Errorf("failed to get due draws: %w", err)
	}

	batch := &BatchResolution{}
	for _, draw := range due {
		if ctx.Err() != nil {
			return batch, ctx.Err()
		}

		resolution, err := s.ResolveDraw(ctx, draw.ID)
		switch {
		case err == nil:
			batch.Resolved = append(batch.Resolved, resolution)
		case errors.Is(err, ErrDrawAlreadyResolved):
			batch.Skipped++
		default:
			batch.Failed++
			log.WithFields(log.Fields{
				"draw_id": draw.ID,
				"error":   err,
			}).Error("Failed to resolve draw")
		}
	}

	if len(due) > 0 {
		log.WithFields(log.Fields{
			"total_draws": len(due),
			"resolved":    len(batch.Resolved),
			"skipped":     batch.Skipped,
			"failed":      batch.Failed,
		}).Info("Completed draw resolution batch")
	}

	return batch, nil
}

// CreateDraw schedules a new pending draw
func (s *drawService) CreateDraw(ctx context.Context, drawTime time.Time, ticketPrice decimal.Decimal) (*models.Draw, error) {
	if !ticketPrice.IsPositive() || !ticketPrice.Equal(ticketPrice.Round(2)) {
		return nil, ErrInvalidTicketPrice
	}
	if !drawTime.After(s.now()) {
		return nil, ErrInvalidDrawTime
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	draw := &models.Draw{
		DrawTime:    drawTime.UTC(),
		TicketPrice: ticketPrice,
	}
	if err := uow.DrawRepository().Create(ctx, draw); err != nil {
		return nil, fmt.Errorf("failed to create draw: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"draw_id":      draw.ID,
		"draw_time":    draw.DrawTime,
		"ticket_price": draw.TicketPrice.StringFixed(2),
	}).Info("Draw created")

	return draw, nil
}

// GetDraw returns a draw with its ticket count and, when completed, its winner
func (s *drawService) GetDraw(ctx context.Context, drawID uuid.UUID) (*models.DrawDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	draw, err := uow.DrawRepository().GetByID(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	if draw == nil {
		return nil, ErrDrawNotFound
	}

	count, err := uow.TicketRepository().CountByDraw(ctx, drawID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	detail := &models.DrawDetail{Draw: draw, TicketCount: count}
	if draw.Status == models.DrawStatusCompleted {
		winner, err := uow.WinnerRepository().GetByDraw(ctx, drawID)
		if err != nil {
			return nil, fmt.Errorf("failed to get winner: %w", err)
		}
		detail.Winner = winner
	}

	return detail, nil
}

// ListDraws returns every draw with its ticket count
func (s *drawService) ListDraws(ctx context.Context) ([]*models.DrawSummary, error) {
	return s.readDrawSummaries(ctx, func(ctx context.Context, repo DrawRepository) ([]*models.DrawSummary, error) {
		return repo.ListAll(ctx)
	})
}

// GetUpcomingDraws returns the next pending draws, defaulting to five
func (s *drawService) GetUpcomingDraws(ctx context.Context, limit int) ([]*models.DrawSummary, error) {
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	return s.readDrawSummaries(ctx, func(ctx context.Context, repo DrawRepository) ([]*models.DrawSummary, error) {
		return repo.ListUpcoming(ctx, s.now(), limit)
	})
}

// GetAvailableDraws returns every draw still accepting tickets
func (s *drawService) GetAvailableDraws(ctx context.Context) ([]*models.DrawSummary, error) {
	return s.readDrawSummaries(ctx, func(ctx context.Context, repo DrawRepository) ([]*models.DrawSummary, error) {
		return repo.ListUpcoming(ctx, s.now(), 0)
	})
}

func (s *drawService) readDrawSummaries(ctx context.Context, read func(context.Context, DrawRepository) ([]*models.DrawSummary, error)) ([]*models.DrawSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	summaries, err := read(ctx, uow.DrawRepository())
	if err != nil {
		return nil, fmt.Errorf("failed to list draws: %w", err)
	}
	return summaries, nil
}

// GetRecentWinners returns the latest winners, defaulting to ten
func (s *drawService) GetRecentWinners(ctx context.Context, limit int) ([]*models.Winner, error) {
	if limit <= 0 {
		limit = defaultWinnersLimit
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	winners, err := uow.WinnerRepository().ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent winners: %w", err)
	}
	return winners, nil
}

// GetStats returns platform-wide statistics
func (s *drawService) GetStats(ctx context.Context) (*models.Stats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	stats, err := uow.DrawRepository().GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

// GetNextDrawTime returns the earliest pending draw time, or nil when nothing is scheduled
func (s *drawService) GetNextDrawTime(ctx context.Context) (*time.Time, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	next, err := uow.DrawRepository().GetNextPendingDrawTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get next draw time: %w", err)
	}
	return next, nil
}
