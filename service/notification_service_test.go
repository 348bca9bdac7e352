package service

import (
	"context"
	"testing"

	"raffle/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_GetNotifications(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	m := newServiceMocks(ctx)
	svc := NewNotificationService(m.factory)
	expected := []*models.Notification{{ID: uuid.New(), UserID: userID, Type: models.NotificationTypeWinner}}
	m.notifications.On("GetByUser", ctx, userID).Return(expected, nil)

	notifications, err := svc.GetNotifications(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, expected, notifications)
	m.uow.AssertNotCalled(t, "Commit")
	m.assertExpectations(t)
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	notificationID := uuid.New()

	t.Run("marks and commits", func(t *testing.T) {
		m := newServiceMocks(ctx)
		svc := NewNotificationService(m.factory)
		m.notifications.On("MarkRead", ctx, userID, notificationID).Return(true, nil)
		m.uow.On("Commit").Return(nil)

		require.NoError(t, svc.MarkRead(ctx, userID, notificationID))
		m.assertExpectations(t)
	})

	t.Run("unknown notification", func(t *testing.T) {
		m := newServiceMocks(ctx)
		svc := NewNotificationService(m.factory)
		m.notifications.On("MarkRead", ctx, userID, notificationID).Return(false, nil)

		err := svc.MarkRead(ctx, userID, notificationID)

		assert.ErrorIs(t, err, ErrNotificationMissing)
		m.uow.AssertNotCalled(t, "Commit")
	})
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	m := newServiceMocks(ctx)
	svc := NewNotificationService(m.factory)
	m.notifications.On("MarkAllRead", ctx, userID).Return(int64(4), nil)
	m.uow.On("Commit").Return(nil)

	updated, err := svc.MarkAllRead(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, int64(4), updated)
	m.assertExpectations(t)
}
