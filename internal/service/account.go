package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/The-Leet-AI/notismart-api/internal/auth"
	"github.com/The-Leet-AI/notismart-api/internal/domain"
	"github.com/The-Leet-AI/notismart-api/internal/event"
	"github.com/The-Leet-AI/notismart-api/internal/mailer"
	"github.com/The-Leet-AI/notismart-api/internal/repository"
	apperrors "github.com/The-Leet-AI/notismart-api/pkg/errors"
)

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// AccountService implements the business logic for account and auth operations.
type AccountService struct {
	repo     repository.AccountRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenManager
	mail     mailer.Sender
	producer *event.Producer
	logger   *slog.Logger
	baseURL  string
}

// NewAccountService creates a new account service.
func NewAccountService(
	repo repository.AccountRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenManager,
	mail mailer.Sender,
	producer *event.Producer,
	logger *slog.Logger,
	baseURL string,
) *AccountService {
	return &AccountService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		mail:     mail,
		producer: producer,
		logger:   logger,
		baseURL:  baseURL,
	}
}

// --- Input types ---

// RegisterInput holds the parameters for registering a new account.
type RegisterInput struct {
	Email       string
	Password    string
	PhoneNumber string
}

// LoginInput holds the parameters for login.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput holds the parameters for updating an account's profile.
type UpdateProfileInput struct {
	Email       *string
	PhoneNumber *string
}

// --- Auth Operations ---

// Register creates a new account with a hashed password and an unconsumed
// verification token, then emails the verification link. The account is
// created unverified; email delivery failure does not roll it back.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	token := uuid.New().String()
	now := time.Now().UTC()
	account := &domain.Account{
		ID:                uuid.New().String(),
		Email:             input.Email,
		PasswordHash:      hash,
		EmailVerified:     false,
		VerificationToken: &token,
		PhoneNumber:       input.PhoneNumber,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.sendVerificationEmail(ctx, account.Email, token)

	// Publish registration event (non-blocking on failure).
	if err := s.producer.PublishAccountRegistered(ctx, account); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish account.registered event",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "account registered",
		slog.String("account_id", account.ID),
		slog.String("email", account.Email),
	)

	return account, nil
}

// VerifyEmail consumes a verification token and marks the owning account as
// verified. Unknown and already-consumed tokens are indistinguishable.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperrors.InvalidInput("verification token is required")
	}
	if _, err := uuid.Parse(token); err != nil {
		return "", apperrors.InvalidInput("verification token is malformed")
	}

	accountID, err := s.repo.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("consume verification token: %w", err)
	}

	// Publish verification event (non-blocking on failure).
	if err := s.producer.PublishAccountVerified(ctx, accountID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish account.verified event",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "email verified",
		slog.String("account_id", accountID),
	)

	return accountID, nil
}

// ResendVerification issues a fresh verification token for an unverified
// account and emails it, invalidating any previously issued token. For an
// already verified account it is a no-op.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.InvalidInput("email is required")
	}

	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get account for resend: %w", err)
	}

	if account.EmailVerified {
		s.logger.InfoContext(ctx, "resend requested for verified account",
			slog.String("account_id", account.ID),
		)
		return nil
	}

	token := uuid.New().String()
	if err := s.repo.SetVerificationToken(ctx, account.ID, token); err != nil {
		return fmt.Errorf("rotate verification token: %w", err)
	}

	subject, body := mailer.VerificationEmail(s.baseURL, token)
	if err := s.mail.Send(ctx, account.Email, subject, body); err != nil {
		s.logger.ErrorContext(ctx, "failed to send verification email",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
		return apperrors.Dependency("email delivery", err)
	}

	s.logger.InfoContext(ctx, "verification email resent",
		slog.String("account_id", account.ID),
	)

	return nil
}

// Login authenticates an account with email and password and returns a signed
// session token. Unknown email and wrong password produce the same error so a
// caller cannot probe which emails are registered.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (*domain.Account, *domain.SessionToken, error) {
	if input.Email == "" {
		return nil, nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, nil, apperrors.InvalidInput("password is required")
	}

	account, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	if !s.hasher.Verify(input.Password, account.PasswordHash) {
		return nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	// Only reported after the credentials checked out, so it reveals nothing
	// to a caller who does not hold the password.
	if !account.EmailVerified {
		return nil, nil, apperrors.Unauthorized("email not verified")
	}

	token, expiresAt, err := s.tokens.Generate(account.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("generate session token: %w", err)
	}

	s.logger.InfoContext(ctx, "account logged in",
		slog.String("account_id", account.ID),
	)

	return account, &domain.SessionToken{Token: token, ExpiresAt: expiresAt}, nil
}

// Authenticate validates a session token and returns the account ID it was
// issued for. All failure modes collapse into a single unauthorized error.
func (s *AccountService) Authenticate(token string) (string, error) {
	accountID, err := s.tokens.Validate(token)
	if err != nil {
		return "", apperrors.Unauthorized("missing or invalid token")
	}
	return accountID, nil
}

// --- Profile Operations ---

// GetProfile retrieves an account by its ID.
func (s *AccountService) GetProfile(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account profile: %w", err)
	}
	return account, nil
}

// UpdateProfile updates an account's mutable profile fields.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, input UpdateProfileInput) (*domain.Account, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("get account for update: %w", err)
	}

	if input.Email != nil {
		if err := validateEmail(*input.Email); err != nil {
			return nil, err
		}
		account.Email = *input.Email
	}

	if input.PhoneNumber != nil {
		account.PhoneNumber = *input.PhoneNumber
	}

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	s.logger.InfoContext(ctx, "account profile updated",
		slog.String("account_id", account.ID),
	)

	return account, nil
}

// ChangePassword allows an authenticated account to change its password.
func (s *AccountService) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return apperrors.InvalidInput("current password is required")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if currentPassword == newPassword {
		return apperrors.InvalidInput("new password must be different from current password")
	}

	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("get account for password change: %w", err)
	}

	if !s.hasher.Verify(currentPassword, account.PasswordHash) {
		return apperrors.Unauthorized("current password is incorrect")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := s.repo.UpdateCredentials(ctx, accountID, hash); err != nil {
		return fmt.Errorf("update credentials: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed",
		slog.String("account_id", accountID),
	)

	return nil
}

// DeleteAccount removes the account and everything owned by it.
func (s *AccountService) DeleteAccount(ctx context.Context, accountID string) error {
	if err := s.repo.Delete(ctx, accountID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	// Publish deletion event (non-blocking on failure).
	if err := s.producer.PublishAccountDeleted(ctx, accountID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish account.deleted event",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "account deleted",
		slog.String("account_id", accountID),
	)

	return nil
}

// --- Helpers ---

// sendVerificationEmail delivers the verification link; failure is logged and
// never surfaced, the caller can request a resend.
func (s *AccountService) sendVerificationEmail(ctx context.Context, email, token string) {
	subject, body := mailer.VerificationEmail(s.baseURL, token)
	if err := s.mail.Send(ctx, email, subject, body); err != nil {
		s.logger.ErrorContext(ctx, "failed to send verification email",
			slog.String("sender", s.mail.Name()),
			slog.String("error", err.Error()),
		)
	}
}

// validateEmail checks that the address parses as an RFC 5322 address.
func validateEmail(email string) error {
	if email == "" {
		return apperrors.InvalidInput("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return apperrors.InvalidInput("email is not a valid address")
	}
	return nil
}

// validatePassword checks that the password meets minimum complexity requirements.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}
