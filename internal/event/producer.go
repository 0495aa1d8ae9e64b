package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/The-Leet-AI/notismart-api/internal/domain"
	pkgkafka "github.com/The-Leet-AI/notismart-api/pkg/kafka"
)

// Kafka topic constants for account domain events.
const (
	TopicAccountRegistered = "notismart.account.registered"
	TopicAccountVerified   = "notismart.account.verified"
	TopicAccountDeleted    = "notismart.account.deleted"
)

// Aggregate type constant.
const AggregateTypeAccount = "account"

// Source identifier for events originating from this service.
const SourceAccountAPI = "notismart-api"

// AccountRegisteredData is the payload for an account.registered event.
type AccountRegisteredData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AccountVerifiedData is the payload for an account.verified event.
type AccountVerifiedData struct {
	ID string `json:"id"`
}

// AccountDeletedData is the payload for an account.deleted event.
type AccountDeletedData struct {
	ID string `json:"id"`
}

// Producer publishes account domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishAccountRegistered publishes an account.registered event.
func (p *Producer) PublishAccountRegistered(ctx context.Context, account *domain.Account) error {
	data := AccountRegisteredData{
		ID:    account.ID,
		Email: account.Email,
	}

	event, err := pkgkafka.NewEvent(TopicAccountRegistered, account.ID, AggregateTypeAccount, SourceAccountAPI, data)
	if err != nil {
		return fmt.Errorf("create account.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicAccountRegistered, event); err != nil {
		return fmt.Errorf("publish account.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published account.registered event",
		slog.String("account_id", account.ID),
	)

	return nil
}

// PublishAccountVerified publishes an account.verified event.
func (p *Producer) PublishAccountVerified(ctx context.Context, accountID string) error {
	data := AccountVerifiedData{ID: accountID}

	event, err := pkgkafka.NewEvent(TopicAccountVerified, accountID, AggregateTypeAccount, SourceAccountAPI, data)
	if err != nil {
		return fmt.Errorf("create account.verified event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicAccountVerified, event); err != nil {
		return fmt.Errorf("publish account.verified event: %w", err)
	}

	p.logger.DebugContext(ctx, "published account.verified event",
		slog.String("account_id", accountID),
	)

	return nil
}

// PublishAccountDeleted publishes an account.deleted event.
func (p *Producer) PublishAccountDeleted(ctx context.Context, accountID string) error {
	data := AccountDeletedData{ID: accountID}

	event, err := pkgkafka.NewEvent(TopicAccountDeleted, accountID, AggregateTypeAccount, SourceAccountAPI, data)
	if err != nil {
		return fmt.Errorf("create account.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicAccountDeleted, event); err != nil {
		return fmt.Errorf("publish account.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published account.deleted event",
		slog.String("account_id", accountID),
	)

	return nil
}
