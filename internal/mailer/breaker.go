package mailer

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds circuit breaker settings for email delivery.
type BreakerConfig struct {
	// MaxRequests is the maximum number of sends allowed in the half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state for clearing internal counts.
	Interval time.Duration

	// Timeout is how long the breaker stays open before moving to half-open.
	Timeout time.Duration

	// FailureRatio is the ratio of failures to total sends that trips the breaker.
	FailureRatio float64

	// MinRequests is the minimum number of sends needed before the ratio is evaluated.
	MinRequests uint32
}

// DefaultBreakerConfig returns sensible defaults for guarding an SMTP relay.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

var emailBreakerState = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "email_circuit_breaker_state",
		Help: "Current state of the email circuit breaker (0=closed, 1=half-open, 2=open)",
	},
	[]string{"sender"},
)

func init() {
	prometheus.MustRegister(emailBreakerState)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// ErrBreakerOpen is returned when the breaker is open and rejects the send.
var ErrBreakerOpen = gobreaker.ErrOpenState

// BreakerSender wraps a Sender with circuit breaker protection so a flapping
// SMTP relay fails fast instead of stalling every registration request.
type BreakerSender struct {
	next    Sender
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *slog.Logger
}

// NewBreakerSender wraps an existing sender with a circuit breaker.
func NewBreakerSender(next Sender, cfg BreakerConfig, logger *slog.Logger) *BreakerSender {
	label := next.Name()
	settings := gobreaker.Settings{
		Name:        label,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("email circuit breaker state change",
				slog.String("sender", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			emailBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}

	emailBreakerState.WithLabelValues(label).Set(0)

	return &BreakerSender{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:  logger,
	}
}

// Name returns the name of the wrapped sender.
func (s *BreakerSender) Name() string {
	return s.next.Name()
}

// Send delivers the message through the circuit breaker.
func (s *BreakerSender) Send(ctx context.Context, to, subject, body string) error {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.next.Send(ctx, to, subject, body)
	})
	return err
}

// State returns the current state of the circuit breaker.
func (s *BreakerSender) State() gobreaker.State {
	return s.breaker.State()
}
