package repository

import (
	"context"
	"errors"

	"curamind-be/internal/model"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	// Notification Operations
	CreateNotification(ctx context.Context, notification *model.Notification) error
	GetNotificationsByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	GetUnreadCount(ctx context.Context, accountID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, accountID, notificationID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, accountID uuid.UUID) error

	// Registry Operations
	GetNotificationTypeByCode(ctx context.Context, code string) (*model.NotificationType, error)
	UpsertNotificationType(ctx context.Context, notifType *model.NotificationType) error
	GetAccountIDsByRole(ctx context.Context, role string) ([]uuid.UUID, error)

	// Preferences
	GetPreference(ctx context.Context, accountID uuid.UUID) (*model.NotificationPreference, error)
	SavePreference(ctx context.Context, pref *model.NotificationPreference) error
}
