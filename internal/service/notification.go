package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/The-Leet-AI/notismart-api/internal/domain"
	"github.com/The-Leet-AI/notismart-api/internal/repository"
	apperrors "github.com/The-Leet-AI/notismart-api/pkg/errors"
)

// maxNotificationContentLength bounds stored notification content.
const maxNotificationContentLength = 4096

// NotificationService implements the business logic for notification operations.
type NotificationService struct {
	repo   repository.NotificationRepository
	logger *slog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(repo repository.NotificationRepository, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		logger: logger,
	}
}

// CreateNotificationInput holds the parameters for creating a notification.
type CreateNotificationInput struct {
	Content string
	// SendAt is an optional RFC 3339 timestamp for deferred delivery.
	SendAt string
}

// Create records a notification for the account in Pending status.
func (s *NotificationService) Create(ctx context.Context, accountID string, input CreateNotificationInput) (*domain.Notification, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, apperrors.InvalidInput("content is required")
	}
	if len(content) > maxNotificationContentLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("content must not exceed %d characters", maxNotificationContentLength))
	}

	var sendAt *time.Time
	if input.SendAt != "" {
		t, err := time.Parse(time.RFC3339, input.SendAt)
		if err != nil {
			return nil, apperrors.InvalidInput("send_at must be an RFC 3339 timestamp")
		}
		utc := t.UTC()
		sendAt = &utc
	}

	notification := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    accountID,
		Content:   content,
		SendAt:    sendAt,
		Status:    domain.NotificationStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	s.logger.InfoContext(ctx, "notification created",
		slog.String("notification_id", notification.ID),
		slog.String("account_id", accountID),
	)

	return notification, nil
}

// List returns the account's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, accountID string) ([]domain.Notification, error) {
	notifications, err := s.repo.ListByUserID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}
