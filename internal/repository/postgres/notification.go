package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/The-Leet-AI/notismart-api/internal/domain"
	"github.com/The-Leet-AI/notismart-api/pkg/database"
	apperrors "github.com/The-Leet-AI/notismart-api/pkg/errors"
)

// NotificationRepository implements repository.NotificationRepository backed by PostgreSQL.
type NotificationRepository struct {
	db database.DBTX
}

// NewNotificationRepository creates a new PostgreSQL notification repository.
func NewNotificationRepository(db database.DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, content, send_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		n.ID,
		n.UserID,
		n.Content,
		n.SendAt,
		n.Status,
		n.CreatedAt,
	)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("create notification: %w", err))
	}

	return nil
}

func (r *NotificationRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Notification, error) {
	query := `
		SELECT id, user_id, content, send_at, status, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Notification{}, nil
		}
		return nil, apperrors.Internal(fmt.Errorf("list notifications: %w", err))
	}
	defer rows.Close()

	notifications := make([]domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Content, &n.SendAt, &n.Status, &n.CreatedAt); err != nil {
			return nil, apperrors.Internal(fmt.Errorf("scan notification: %w", err))
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("iterate notifications: %w", err))
	}

	return notifications, nil
}
