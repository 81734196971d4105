package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/falahatiali/MoneyMentor/internal/domain"
)

// Template names carried on every rendered message.
const (
	TemplateVerification  = "email_verification"
	TemplatePasswordReset = "password_reset"
	TemplateWelcome       = "welcome"
	TemplateAccountLocked = "account_locked"
)

const (
	DefaultFrom        = "noreply@moneymentor.com"
	DefaultFrontendURL = "http://localhost:3000"
)

// Message is a rendered plain-text email.
type Message struct {
	Template string `json:"template"`
	To       string `json:"to"`
	From     string `json:"from"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

// Renderer builds the email texts. Zero fields take the defaults.
type Renderer struct {
	From         string
	FrontendURL  string
	LockDuration time.Duration
}

func (r Renderer) from() string {
	if r.From == "" {
		return DefaultFrom
	}
	return r.From
}

func (r Renderer) frontendURL() string {
	if r.FrontendURL == "" {
		return DefaultFrontendURL
	}
	return strings.TrimRight(r.FrontendURL, "/")
}

func (r Renderer) lockMinutes() int {
	if r.LockDuration <= 0 {
		return 30
	}
	return int(r.LockDuration / time.Minute)
}

// VerificationURL is the frontend link that consumes a verification token.
func (r Renderer) VerificationURL(token string) string {
	return r.frontendURL() + "/verify-email?token=" + token
}

// PasswordResetURL is the frontend link that consumes a reset token.
func (r Renderer) PasswordResetURL(token string) string {
	return r.frontendURL() + "/reset-password?token=" + token
}

func (r Renderer) Verification(u *domain.User, token string) Message {
	return r.message(TemplateVerification, u, "Verify Your Email - MoneyMentor", fmt.Sprintf(`Hello %s,

Welcome to MoneyMentor! Please click the link below to verify your email address:

%s

This link will expire in 24 hours.

If you didn't create an account with us, please ignore this email.
%s`, greetingName(u), r.VerificationURL(token), signature))
}

func (r Renderer) PasswordReset(u *domain.User, token string) Message {
	return r.message(TemplatePasswordReset, u, "Reset Your Password - MoneyMentor", fmt.Sprintf(`Hello %s,

You requested to reset your password. Please click the link below to reset it:

%s

This link will expire in 1 hour.

If you didn't request this password reset, please ignore this email.
%s`, greetingName(u), r.PasswordResetURL(token), signature))
}

func (r Renderer) Welcome(u *domain.User) Message {
	return r.message(TemplateWelcome, u, "Welcome to MoneyMentor!", fmt.Sprintf(`Hello %s,

Welcome to MoneyMentor! Your email has been successfully verified.

You can now start managing your finances with our powerful tools:
- Track your income and expenses
- Set up budgets
- Generate detailed reports
- And much more!

Get started by logging in to your account.
%s`, greetingName(u), signature))
}

func (r Renderer) AccountLocked(u *domain.User) Message {
	return r.message(TemplateAccountLocked, u, "Account Security Alert - MoneyMentor", fmt.Sprintf(`Hello %s,

Your account has been temporarily locked due to multiple failed login attempts.

This is a security measure to protect your account. Your account will be automatically unlocked after %d minutes.

If you believe this was an unauthorized attempt, please contact our support team immediately.
%s`, greetingName(u), r.lockMinutes(), signature))
}

const signature = `
Best regards,
The MoneyMentor Team`

func (r Renderer) message(template string, u *domain.User, subject, body string) Message {
	return Message{
		Template: template,
		To:       u.Email,
		From:     r.from(),
		Subject:  subject,
		Body:     body,
	}
}

func greetingName(u *domain.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
