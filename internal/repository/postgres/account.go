package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/The-Leet-AI/notismart-api/internal/domain"
	"github.com/The-Leet-AI/notismart-api/pkg/database"
	apperrors "github.com/The-Leet-AI/notismart-api/pkg/errors"
)

const accountColumns = `id, email, password_hash, email_verified, verification_token,
	phone_number, phone_verified, phone_verification_code, created_at, updated_at`

// AccountRepository implements repository.AccountRepository backed by PostgreSQL.
type AccountRepository struct {
	db database.DBTX
}

// NewAccountRepository creates a new PostgreSQL account repository.
func NewAccountRepository(db database.DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, email_verified, verification_token,
			phone_number, phone_verified, phone_verification_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.EmailVerified,
		account.VerificationToken,
		account.PhoneNumber,
		account.PhoneVerified,
		account.PhoneVerificationCode,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("account", "email", account.Email)
		}
		return apperrors.Internal(fmt.Errorf("create account: %w", err))
	}

	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)

	account, err := scanAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("account", id)
		}
		return nil, apperrors.Internal(fmt.Errorf("get account by id: %w", err))
	}

	return account, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE email = $1`, accountColumns)

	account, err := scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundMsg("account not found")
		}
		return nil, apperrors.Internal(fmt.Errorf("get account by email: %w", err))
	}

	return account, nil
}

func (r *AccountRepository) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	// A single statement both checks and consumes the token, so two
	// concurrent requests with the same token cannot both succeed.
	query := `
		UPDATE accounts
		SET email_verified = true, verification_token = NULL, updated_at = NOW()
		WHERE verification_token = $1 AND email_verified = false
		RETURNING id`

	var id string
	if err := r.db.QueryRow(ctx, query, token).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NotFoundMsg("invalid or expired verification token")
		}
		return "", apperrors.Internal(fmt.Errorf("consume verification token: %w", err))
	}

	return id, nil
}

func (r *AccountRepository) SetVerificationToken(ctx context.Context, accountID, token string) error {
	query := `
		UPDATE accounts
		SET verification_token = $1, updated_at = NOW()
		WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, token, accountID)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("set verification token: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("account", accountID)
	}

	return nil
}

func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET email = $1, phone_number = $2, updated_at = NOW()
		WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, account.Email, account.PhoneNumber, account.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("account", "email", account.Email)
		}
		return apperrors.Internal(fmt.Errorf("update account: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("account", account.ID)
	}

	return nil
}

func (r *AccountRepository) UpdateCredentials(ctx context.Context, accountID, passwordHash string) error {
	query := `
		UPDATE accounts
		SET password_hash = $1, updated_at = NOW()
		WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, passwordHash, accountID)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("update credentials: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("account", accountID)
	}

	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("delete account: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("account", id)
	}

	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.EmailVerified,
		&account.VerificationToken,
		&account.PhoneNumber,
		&account.PhoneVerified,
		&account.PhoneVerificationCode,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
