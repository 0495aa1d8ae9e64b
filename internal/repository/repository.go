package repository

import (
	"context"

	"github.com/The-Leet-AI/notismart-api/internal/domain"
)

// AccountRepository defines the interface for account persistence operations.
// Every call is atomic: the duplicate-email check happens inside Create (via
// the unique constraint) and the verified/token transition happens inside
// ConsumeVerificationToken, so racing callers cannot both succeed.
type AccountRepository interface {
	// Create inserts a new account. A duplicate email yields an
	// already-exists error.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// GetByEmail retrieves an account by its email address.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// ConsumeVerificationToken marks the account holding the given token as
	// verified and clears the token in a single statement, returning the
	// account ID. Unknown, already consumed, and never-issued tokens are
	// indistinguishable: all yield a not-found error.
	ConsumeVerificationToken(ctx context.Context, token string) (string, error)

	// SetVerificationToken replaces the account's verification token,
	// invalidating any previously issued one.
	SetVerificationToken(ctx context.Context, accountID, token string) error

	// Update modifies the account's mutable profile fields (email, phone).
	Update(ctx context.Context, account *domain.Account) error

	// UpdateCredentials replaces the account's password hash.
	UpdateCredentials(ctx context.Context, accountID, passwordHash string) error

	// Delete removes an account by its identifier.
	Delete(ctx context.Context, id string) error
}

// NotificationRepository defines the interface for notification persistence.
type NotificationRepository interface {
	// Create inserts a new notification record.
	Create(ctx context.Context, notification *domain.Notification) error

	// ListByUserID returns the user's notifications, newest first.
	ListByUserID(ctx context.Context, userID string) ([]domain.Notification, error)
}
