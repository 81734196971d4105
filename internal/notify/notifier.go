// Package notify delivers the account emails triggered by authentication
// flows. Delivery is best effort: callers log failures and carry on.
package notify

import (
	"context"

	"github.com/falahatiali/MoneyMentor/internal/domain"
)

// Notifier sends account emails.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, u *domain.User, token string) error
	SendPasswordResetEmail(ctx context.Context, u *domain.User, token string) error
	SendWelcomeEmail(ctx context.Context, u *domain.User) error
	SendAccountLockedEmail(ctx context.Context, u *domain.User) error
}
