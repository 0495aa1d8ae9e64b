package mailer

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationEmail(t *testing.T) {
	subject, body := VerificationEmail("https://api.example.com", "3b241101-e2bb-4255-8caf-4136c566a962")

	assert.Equal(t, "Verify your email address", subject)
	assert.Contains(t, body, "https://api.example.com/api/v1/auth/verify?token=3b241101-e2bb-4255-8caf-4136c566a962")
}

func TestVerificationEmail_EscapesToken(t *testing.T) {
	_, body := VerificationEmail("https://api.example.com", "a&b=c")

	assert.Contains(t, body, "token=a%26b%3Dc")
	assert.NotContains(t, body, "token=a&b=c")
}

func TestSMTPSender_Send(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{
		Host:     "mail.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "noreply@example.com",
	})

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		assert.NotNil(t, a)
		return nil
	}

	err := s.Send(context.Background(), "alice@example.com", "Hello", "body text")
	require.NoError(t, err)
	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"alice@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Hello\r\n")
	assert.Contains(t, string(gotMsg), "\r\n\r\nbody text")
}

func TestSMTPSender_Send_CancelledContext(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "mail.example.com", Port: 587})
	s.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send should not be called with a cancelled context")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, "alice@example.com", "Hello", "body")
	assert.ErrorIs(t, err, context.Canceled)
}
