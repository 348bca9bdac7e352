package service

import (
	"context"
	"fmt"

	"raffle/events"
	"raffle/models"
)

// RecordBalanceChange records a balance history entry and publishes a balance change event.
// This is the single entry point for all balance changes in the system.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          history.UserID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		ChangeAmount:    history.ChangeAmount,
		TransactionType: history.TransactionType,
	})

	return nil
}

// EnqueueNotification writes a notification to the outbox and announces it once the transaction commits
func EnqueueNotification(ctx context.Context, uow UnitOfWork, notification *models.Notification) error {
	if err := uow.NotificationRepository().Enqueue(ctx, notification); err != nil {
		return fmt.Errorf("failed to enqueue notification: %w", err)
	}

	uow.EventBus().Publish(events.NotificationEnqueuedEvent{
		NotificationID:   notification.ID,
		UserID:           notification.UserID,
		NotificationType: notification.Type,
		Message:          notification.Message,
		CreatedAt:        notification.CreatedAt,
	})

	return nil
}
