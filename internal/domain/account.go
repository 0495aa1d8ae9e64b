package domain

import (
	"time"
)

// Account represents a registered account in the system.
//
// The verification token lives on the account row: it is set at registration,
// rotated by resend-verification, and cleared in the same statement that
// marks the email verified, so a token can never be consumed twice.
type Account struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	PasswordHash          string    `json:"-"`
	EmailVerified         bool      `json:"email_verified"`
	VerificationToken     *string   `json:"-"`
	PhoneNumber           string    `json:"phone_number,omitempty"`
	PhoneVerified         bool      `json:"phone_verified"`
	PhoneVerificationCode string    `json:"-"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// SessionToken is a signed session token returned by login. It is never
// persisted; expiry is the only invalidation mechanism.
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
