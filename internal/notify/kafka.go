package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/falahatiali/MoneyMentor/internal/domain"
	pkgkafka "github.com/falahatiali/MoneyMentor/pkg/kafka"
	"github.com/falahatiali/MoneyMentor/pkg/logger"
)

// Event naming for email requests consumed by the mail sender.
const (
	EventEmailRequested = "notification.email_requested"
	AggregateTypeUser   = "user"
	SourceAuthService   = "auth-service"
)

// TopicEmailRequested carries EmailRequestedData envelopes.
var TopicEmailRequested = pkgkafka.Topic("notification", "email_requested")

// EmailRequestedData is the payload of an email request event.
type EmailRequestedData struct {
	UserID int64 `json:"user_id"`
	Message
}

// Publisher writes an event envelope to a topic. *kafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// KafkaNotifier hands rendered emails to the mail sender over Kafka.
type KafkaNotifier struct {
	publisher Publisher
	renderer  Renderer
	now       func() time.Time
	logger    *slog.Logger
}

// NewKafkaNotifier creates a notifier publishing through p.
func NewKafkaNotifier(p Publisher, r Renderer, logger *slog.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		publisher: p,
		renderer:  r,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

func (n *KafkaNotifier) SendVerificationEmail(ctx context.Context, u *domain.User, token string) error {
	return n.publish(ctx, u, n.renderer.Verification(u, token))
}

func (n *KafkaNotifier) SendPasswordResetEmail(ctx context.Context, u *domain.User, token string) error {
	return n.publish(ctx, u, n.renderer.PasswordReset(u, token))
}

func (n *KafkaNotifier) SendWelcomeEmail(ctx context.Context, u *domain.User) error {
	return n.publish(ctx, u, n.renderer.Welcome(u))
}

func (n *KafkaNotifier) SendAccountLockedEmail(ctx context.Context, u *domain.User) error {
	return n.publish(ctx, u, n.renderer.AccountLocked(u))
}

func (n *KafkaNotifier) publish(ctx context.Context, u *domain.User, msg Message) error {
	data := EmailRequestedData{UserID: u.ID, Message: msg}

	event, err := pkgkafka.NewEvent(EventEmailRequested, strconv.FormatInt(u.ID, 10), AggregateTypeUser, SourceAuthService, n.now(), data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", msg.Template, err)
	}
	event.WithMetadata("template", msg.Template)
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := n.publisher.Publish(ctx, TopicEmailRequested, event); err != nil {
		return fmt.Errorf("publish %s email: %w", msg.Template, err)
	}

	n.logger.DebugContext(ctx, "email requested",
		slog.String("template", msg.Template),
		slog.Int64("user_id", u.ID),
	)
	return nil
}
