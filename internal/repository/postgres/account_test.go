package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Leet-AI/notismart-api/internal/domain"
	"github.com/The-Leet-AI/notismart-api/pkg/database"
	apperrors "github.com/The-Leet-AI/notismart-api/pkg/errors"
)

func newAccountTestFixture(t *testing.T) (*AccountRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewAccountRepository(mock)
	return repo, mock
}

func sampleAccount() *domain.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	token := "3b241101-e2bb-4255-8caf-4136c566a962"
	return &domain.Account{
		ID:                "a-1234",
		Email:             "alice@example.com",
		PasswordHash:      "hash-abc",
		EmailVerified:     false,
		VerificationToken: &token,
		PhoneNumber:       "+1234567890",
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// accountTestColumns returns the 10 column names scanned by scanAccount and inserted by Create.
func accountTestColumns() []string {
	return []string{
		"id", "email", "password_hash", "email_verified", "verification_token",
		"phone_number", "phone_verified", "phone_verification_code",
		"created_at", "updated_at",
	}
}

func accountRow(a *domain.Account) *pgxmock.Rows {
	return pgxmock.NewRows(accountTestColumns()).AddRow(
		a.ID, a.Email, a.PasswordHash, a.EmailVerified, a.VerificationToken,
		a.PhoneNumber, a.PhoneVerified, a.PhoneVerificationCode,
		a.CreatedAt, a.UpdatedAt,
	)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestAccountRepository_Create_Success(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(
			a.ID, a.Email, a.PasswordHash, a.EmailVerified, a.VerificationToken,
			a.PhoneNumber, a.PhoneVerified, a.PhoneVerificationCode,
			a.CreatedAt, a.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), a)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(
			a.ID, a.Email, a.PasswordHash, a.EmailVerified, a.VerificationToken,
			a.PhoneNumber, a.PhoneVerified, a.PhoneVerificationCode,
			a.CreatedAt, a.UpdatedAt,
		).
		WillReturnError(fmt.Errorf("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists), "expected ErrAlreadyExists, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID / GetByEmail
// ---------------------------------------------------------------------------

func TestAccountRepository_GetByID_Success(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE id =").
		WithArgs(a.ID).
		WillReturnRows(accountRow(a))

	got, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, a.Email, got.Email)
	require.NotNil(t, got.VerificationToken)
	assert.Equal(t, *a.VerificationToken, *got.VerificationToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE id =").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByEmail_Success(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE email =").
		WithArgs(a.Email).
		WillReturnRows(accountRow(a))

	got, err := repo.GetByEmail(context.Background(), a.Email)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, a.PasswordHash, got.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByEmail_NotFound(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE email =").
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// ConsumeVerificationToken
// ---------------------------------------------------------------------------

func TestAccountRepository_ConsumeVerificationToken_Success(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	token := "3b241101-e2bb-4255-8caf-4136c566a962"

	mock.ExpectQuery("UPDATE accounts").
		WithArgs(token).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("a-1234"))

	id, err := repo.ConsumeVerificationToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "a-1234", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_ConsumeVerificationToken_UnknownToken(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("UPDATE accounts").
		WithArgs("bogus-token").
		WillReturnError(pgx.ErrNoRows)

	id, err := repo.ConsumeVerificationToken(context.Background(), "bogus-token")
	assert.Empty(t, id)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A consumed token behaves exactly like one that never existed: the WHERE
// clause matches no row, so the second caller gets the same not-found error.
func TestAccountRepository_ConsumeVerificationToken_AlreadyConsumed(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	token := "3b241101-e2bb-4255-8caf-4136c566a962"

	mock.ExpectQuery("UPDATE accounts").
		WithArgs(token).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("a-1234"))
	mock.ExpectQuery("UPDATE accounts").
		WithArgs(token).
		WillReturnError(pgx.ErrNoRows)

	id, err := repo.ConsumeVerificationToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "a-1234", id)

	_, err = repo.ConsumeVerificationToken(context.Background(), token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// SetVerificationToken
// ---------------------------------------------------------------------------

func TestAccountRepository_SetVerificationToken_Success(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE accounts").
		WithArgs("new-token", "a-1234").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.SetVerificationToken(context.Background(), "a-1234", "new-token")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_SetVerificationToken_NotFound(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE accounts").
		WithArgs("new-token", "missing-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetVerificationToken(context.Background(), "missing-id", "new-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Update / UpdateCredentials / Delete
// ---------------------------------------------------------------------------

func TestAccountRepository_Update_Success(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectExec("UPDATE accounts").
		WithArgs(a.Email, a.PhoneNumber, a.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), a)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Update_DuplicateEmail(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	a := sampleAccount()
	a.Email = "taken@example.com"

	mock.ExpectExec("UPDATE accounts").
		WithArgs(a.Email, a.PhoneNumber, a.ID).
		WillReturnError(fmt.Errorf("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Update(context.Background(), a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists), "expected ErrAlreadyExists, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Update_NotFound(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectExec("UPDATE accounts").
		WithArgs(a.Email, a.PhoneNumber, a.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_UpdateCredentials_Success(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE accounts").
		WithArgs("new-hash", "a-1234").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateCredentials(context.Background(), "a-1234", "new-hash")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Delete_Success(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM accounts WHERE id =").
		WithArgs("a-1234").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "a-1234")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM accounts WHERE id =").
		WithArgs("missing-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing-id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound), "expected ErrNotFound, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
