package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"curamind-be/internal/dto"
	"curamind-be/internal/model"
	"curamind-be/internal/pkg/apperror"
	"curamind-be/internal/pkg/logger"
	"curamind-be/internal/repository"
	clinicEvents "curamind-be/pkg/clinic/events"
	"curamind-be/pkg/events"
	pktNats "curamind-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TargetSelf  = "SELF"
	TargetRole  = "ROLE"
	TargetAdmin = "ADMIN"

	notificationDurable = "curamind-notification-worker"
)

// NotificationDelivery pushes a stored notification to live connections.
// Implemented by the WebSocket hub.
type NotificationDelivery interface {
	Send(accountID uuid.UUID, notification model.Notification)
}

// EventSubscriber is the part of the NATS subscriber the service needs.
type EventSubscriber interface {
	Subscribe(subject string, durableName string, handler pktNats.EventHandler) error
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber EventSubscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
	now        func() time.Time
}

func NewNotificationService(repo repository.NotificationRepository, sub EventSubscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
		now:        time.Now,
	}
}

// Start attaches a durable consumer to every clinic event.
func (s *NotificationService) Start() error {
	if s.subscriber == nil {
		s.logger.Warn("NOTIFICATION", "No event subscriber configured, notifications disabled", nil)
		return nil
	}
	if err := s.subscriber.Subscribe("events.>", notificationDurable, s.HandleEvent); err != nil {
		return fmt.Errorf("subscribe to events: %w", err)
	}
	s.logger.Info("NOTIFICATION", "Listening to events.>", nil)
	return nil
}

// HandleEvent turns one bus event into inbox rows and live pushes. Returning
// an error makes the bus redeliver the event.
func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	config, err := s.repo.GetNotificationTypeByCode(ctx, typeCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("NOTIFICATION", "No notification type registered", map[string]interface{}{"code": typeCode})
			return nil
		}
		return err
	}
	if !config.IsActive {
		return nil
	}

	recipients, err := s.resolveRecipients(ctx, config, event)
	if err != nil {
		s.logger.Error("NOTIFICATION", "Failed to resolve recipients", map[string]interface{}{
			"code":  typeCode,
			"error": err.Error(),
		})
		return err
	}

	delivered := 0
	for _, accountID := range recipients {
		muted, err := s.isMuted(ctx, accountID, config.Code)
		if err != nil {
			return err
		}
		if muted {
			continue
		}

		notif := s.buildNotification(accountID, config, event)
		if err := s.repo.CreateNotification(ctx, &notif); err != nil {
			s.logger.Error("NOTIFICATION", "Failed to store notification", map[string]interface{}{
				"account_id": accountID,
				"error":      err.Error(),
			})
			continue
		}

		if s.delivery != nil {
			s.delivery.Send(accountID, notif)
		}
		delivered++
	}

	s.logger.Info("NOTIFICATION", "Event processed", map[string]interface{}{
		"code":       typeCode,
		"recipients": len(recipients),
		"delivered":  delivered,
	})
	return nil
}

func (s *NotificationService) resolveRecipients(ctx context.Context, config *model.NotificationType, event events.Event) ([]uuid.UUID, error) {
	switch config.TargetType {
	case TargetSelf:
		id := events.UUID(event, "user_id")
		if id == nil {
			s.logger.Warn("NOTIFICATION", "SELF target without a valid user_id", map[string]interface{}{"code": config.Code})
			return nil, nil
		}
		return []uuid.UUID{*id}, nil

	case TargetAdmin:
		return s.repo.GetAccountIDsByRole(ctx, "admin")

	case TargetRole:
		if config.TargetRole == "" {
			return nil, nil
		}
		return s.repo.GetAccountIDsByRole(ctx, config.TargetRole)
	}
	return nil, nil
}

func (s *NotificationService) isMuted(ctx context.Context, accountID uuid.UUID, code string) (bool, error) {
	pref, err := s.repo.GetPreference(ctx, accountID)
	if err != nil {
		return false, err
	}
	for _, m := range pref.MutedTypes {
		if m == code {
			return true, nil
		}
	}
	return false, nil
}

// buildNotification fills {placeholders} in the template from the payload.
func (s *NotificationService) buildNotification(accountID uuid.UUID, config *model.NotificationType, event events.Event) model.Notification {
	payload := event.Payload()

	msg := config.Template
	for k, v := range payload {
		msg = strings.ReplaceAll(msg, "{"+k+"}", fmt.Sprintf("%v", v))
	}

	actorID := events.UUID(event, "actor_id")
	entityType := events.String(event, "entity_type")
	entityID := events.UUID(event, "entity_id")

	meta := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		meta[k] = v
	}
	if entityType != "" && entityID != nil {
		meta["action_url"] = fmt.Sprintf("/%ss/%s", entityType, entityID)
	}
	metaJSON, _ := json.Marshal(meta)

	return model.Notification{
		ID:         uuid.New(),
		AccountID:  accountID,
		ActorID:    actorID,
		TypeCode:   config.Code,
		Title:      config.DisplayName,
		Message:    msg,
		Metadata:   datatypes.JSON(metaJSON),
		EntityType: entityType,
		EntityID:   entityID,
		CreatedAt:  s.now(),
	}
}

func (s *NotificationService) GetNotifications(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	items, total, err := s.repo.GetNotificationsByAccountID(ctx, accountID, limit, offset)
	if err != nil {
		return nil, 0, apperror.Persistence(err)
	}
	return items, total, nil
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	n, err := s.repo.GetUnreadCount(ctx, accountID)
	if err != nil {
		return 0, apperror.Persistence(err)
	}
	return n, nil
}

// MarkAsRead only touches the caller's own notifications.
func (s *NotificationService) MarkAsRead(ctx context.Context, accountID, id uuid.UUID) error {
	if err := s.repo.MarkAsRead(ctx, accountID, id); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return apperror.NotFound("notification not found")
		}
		return apperror.Persistence(err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, accountID uuid.UUID) error {
	if err := s.repo.MarkAllAsRead(ctx, accountID); err != nil {
		return apperror.Persistence(err)
	}
	return nil
}

func (s *NotificationService) GetPreference(ctx context.Context, accountID uuid.UUID) (*dto.NotificationPreferenceResponse, error) {
	pref, err := s.repo.GetPreference(ctx, accountID)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	muted := []string(pref.MutedTypes)
	if muted == nil {
		muted = []string{}
	}
	return &dto.NotificationPreferenceResponse{MutedTypes: muted}, nil
}

// SavePreference replaces the muted list. Only known event codes are accepted.
func (s *NotificationService) SavePreference(ctx context.Context, accountID uuid.UUID, req *dto.NotificationPreferenceRequest) (*dto.NotificationPreferenceResponse, error) {
	known := make(map[string]bool, len(clinicEvents.Codes))
	for _, c := range clinicEvents.Codes {
		known[c] = true
	}

	seen := map[string]bool{}
	muted := make([]string, 0, len(req.MutedTypes))
	for _, code := range req.MutedTypes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if !known[code] {
			return nil, apperror.InvalidInput(fmt.Sprintf("unknown notification type %q", code))
		}
		if !seen[code] {
			seen[code] = true
			muted = append(muted, code)
		}
	}

	pref := &model.NotificationPreference{AccountID: accountID, MutedTypes: muted}
	if err := s.repo.SavePreference(ctx, pref); err != nil {
		return nil, apperror.Persistence(err)
	}
	return &dto.NotificationPreferenceResponse{MutedTypes: muted}, nil
}
