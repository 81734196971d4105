package notify

import (
	"context"
	"log/slog"

	"github.com/falahatiali/MoneyMentor/internal/domain"
)

// LogNotifier writes rendered emails to the log instead of sending them.
// It backs local development where no broker runs.
type LogNotifier struct {
	renderer Renderer
	logger   *slog.Logger
}

func NewLogNotifier(r Renderer, logger *slog.Logger) *LogNotifier {
	return &LogNotifier{renderer: r, logger: logger}
}

func (n *LogNotifier) SendVerificationEmail(ctx context.Context, u *domain.User, token string) error {
	n.log(ctx, n.renderer.Verification(u, token))
	return nil
}

func (n *LogNotifier) SendPasswordResetEmail(ctx context.Context, u *domain.User, token string) error {
	n.log(ctx, n.renderer.PasswordReset(u, token))
	return nil
}

func (n *LogNotifier) SendWelcomeEmail(ctx context.Context, u *domain.User) error {
	n.log(ctx, n.renderer.Welcome(u))
	return nil
}

func (n *LogNotifier) SendAccountLockedEmail(ctx context.Context, u *domain.User) error {
	n.log(ctx, n.renderer.AccountLocked(u))
	return nil
}

func (n *LogNotifier) log(ctx context.Context, msg Message) {
	n.logger.InfoContext(ctx, "email not sent, logging instead",
		slog.String("template", msg.Template),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
}
