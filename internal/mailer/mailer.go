// Package mailer delivers transactional email for the account lifecycle.
package mailer

import (
	"context"
	"fmt"
	"net/url"
)

// Sender defines the interface for delivering a single email message.
type Sender interface {
	Name() string
	Send(ctx context.Context, to, subject, body string) error
}

// VerificationEmail composes the subject and body for an email-verification
// message. The link embeds the opaque token as a query parameter.
func VerificationEmail(baseURL, token string) (subject, body string) {
	link := fmt.Sprintf("%s/api/v1/auth/verify?token=%s", baseURL, url.QueryEscape(token))
	subject = "Verify your email address"
	body = fmt.Sprintf(
		"Welcome!\r\n\r\n"+
			"Please confirm your email address by opening the link below:\r\n\r\n"+
			"%s\r\n\r\n"+
			"If you did not create an account, you can ignore this message.\r\n",
		link,
	)
	return subject, body
}
