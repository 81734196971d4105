package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/falahatiali/MoneyMentor/internal/auth"
	"github.com/falahatiali/MoneyMentor/internal/domain"
	"github.com/falahatiali/MoneyMentor/internal/lockout"
	"github.com/falahatiali/MoneyMentor/internal/notify"
	"github.com/falahatiali/MoneyMentor/internal/repository"
	apperrors "github.com/falahatiali/MoneyMentor/pkg/errors"
)

// notifyTimeout bounds a single background email request.
const notifyTimeout = 10 * time.Second

// Result messages.
const (
	msgRegistered         = "User registered successfully. Please check your email for verification."
	msgLoggedIn           = "Login successful"
	msgRefreshed          = "Token refreshed successfully"
	msgLoggedOut          = "Logout successful"
	msgResetRequested     = "If an account exists for this email, a password reset link has been sent."
	msgPasswordReset      = "Password has been reset successfully"
	msgEmailVerified      = "Email verified successfully"
	msgVerificationResent = "If the account exists and is not yet verified, a verification email has been sent."
	msgPasswordChanged    = "Password changed successfully"
	msgUserRetrieved      = "User retrieved successfully"
)

// AuthService implements registration, login, token refresh, logout and
// the email-verification and password-reset flows.
type AuthService struct {
	users    repository.UserRepository
	cache    repository.TokenCache
	hasher   auth.PasswordHasher
	tokens   *auth.JWTManager
	notifier notify.Notifier
	policy   lockout.Policy
	clock    auth.Clock
	newToken func() string
	logger   *slog.Logger

	pending sync.WaitGroup
}

// Options tunes an AuthService. The zero value uses the default lockout
// policy and the system clock.
type Options struct {
	Lockout lockout.Policy
	Clock   auth.Clock
}

// NewAuthService creates a new auth service. notifier may be nil, in which
// case no emails are sent.
func NewAuthService(
	users repository.UserRepository,
	cache repository.TokenCache,
	hasher auth.PasswordHasher,
	tokens *auth.JWTManager,
	notifier notify.Notifier,
	opts Options,
	logger *slog.Logger,
) *AuthService {
	if opts.Clock == nil {
		opts.Clock = auth.SystemClock{}
	}
	return &AuthService{
		users:    users,
		cache:    cache,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		policy:   opts.Lockout,
		clock:    opts.Clock,
		newToken: opaqueToken,
		logger:   logger,
	}
}

// --- Inputs and outputs ---

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Username              string
	Email                 string
	Password              string
	FirstName             string
	LastName              string
	Phone                 string
	Mobile                string
	DateOfBirth           *time.Time
	Gender                domain.Gender
	Country               string
	Language              string
	Timezone              string
	Currency              string
	TermsAccepted         bool
	PrivacyPolicyAccepted bool
	MarketingConsent      bool
}

// LoginInput holds the parameters for a credential login. Identifier is an
// email when it contains "@" and a username otherwise.
type LoginInput struct {
	Identifier string
	Password   string
	IP         string
}

// AuthResponse is returned by a successful register or login.
type AuthResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int64           `json:"expires_in"`
	User         domain.UserView `json:"user"`
}

func newAuthResponse(pair domain.TokenPair, u *domain.User) *AuthResponse {
	return &AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
		User:         u.View(),
	}
}

// Empty is the payload type of operations that return no data.
type Empty struct{}

// --- Session operations ---

// Register creates an ACTIVE account, signs a token pair for it and starts
// email verification in the background.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) Result[AuthResponse] {
	now := s.clock.Now()
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	in.Mobile = strings.TrimSpace(in.Mobile)

	if err := s.checkAvailable(ctx, in); err != nil {
		registrations.WithLabelValues(outcomeFor(err)).Inc()
		return Fail[AuthResponse](now, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		registrations.WithLabelValues(outcomeError).Inc()
		s.logger.ErrorContext(ctx, "failed to hash password", slog.String("error", err.Error()))
		return Fail[AuthResponse](now, apperrors.Internal(err))
	}

	u := &domain.User{
		Username:          in.Username,
		Email:             in.Email,
		PasswordHash:      hash,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		Phone:             in.Phone,
		Mobile:            in.Mobile,
		DateOfBirth:       in.DateOfBirth,
		Gender:            in.Gender,
		Country:           in.Country,
		Language:          in.Language,
		Timezone:          in.Timezone,
		Currency:          in.Currency,
		Status:            domain.StatusActive,
		Role:              domain.RoleUser,
		PasswordChangedAt: &now,
		MarketingConsent:  in.MarketingConsent,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	u.ApplyDefaults()
	if in.TermsAccepted {
		u.TermsAcceptedAt = &now
	}
	if in.PrivacyPolicyAccepted {
		u.PrivacyPolicyAcceptedAt = &now
	}

	saved, err := s.users.Save(ctx, u)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			// Lost a race with a concurrent registration.
			registrations.WithLabelValues(outcomeDuplicate).Inc()
			return Fail[AuthResponse](now, err)
		}
		registrations.WithLabelValues(outcomeError).Inc()
		return Fail[AuthResponse](now, s.unavailable(ctx, "save new user", err))
	}

	pair, err := s.tokens.IssuePair(saved)
	if err != nil {
		registrations.WithLabelValues(outcomeError).Inc()
		s.logger.ErrorContext(ctx, "failed to sign tokens", slog.String("error", err.Error()))
		return Fail[AuthResponse](now, apperrors.Internal(err))
	}

	// The account exists at this point, so a cache failure degrades the
	// response instead of failing it: the refresh token is withheld.
	if err := s.storeRefreshToken(ctx, saved.ID, pair.RefreshToken); err != nil {
		s.logger.ErrorContext(ctx, "failed to store refresh token after registration",
			slog.Int64("user_id", saved.ID),
			slog.String("error", err.Error()),
		)
		pair.RefreshToken = ""
	}

	s.startVerification(ctx, saved)

	registrations.WithLabelValues(outcomeSuccess).Inc()
	s.logger.InfoContext(ctx, "user registered",
		slog.Int64("user_id", saved.ID),
		slog.String("username", saved.Username),
	)

	return OK(now, msgRegistered, newAuthResponse(pair, saved))
}

func (s *AuthService) checkAvailable(ctx context.Context, in RegisterInput) error {
	taken, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return s.unavailable(ctx, "check email", err)
	}
	if taken {
		return domain.ErrDuplicateEmail
	}

	taken, err = s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return s.unavailable(ctx, "check username", err)
	}
	if taken {
		return domain.ErrDuplicateUsername
	}

	if in.Mobile == "" {
		return nil
	}
	taken, err = s.users.ExistsByMobile(ctx, in.Mobile)
	if err != nil {
		return s.unavailable(ctx, "check mobile", err)
	}
	if taken {
		return domain.ErrDuplicateMobile
	}
	return nil
}

// Authenticate checks credentials and, on success, records the login and
// returns a fresh token pair. Failed password checks count towards lockout.
func (s *AuthService) Authenticate(ctx context.Context, in LoginInput) Result[AuthResponse] {
	now := s.clock.Now()

	u, err := s.findByIdentifier(ctx, in.Identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			loginAttempts.WithLabelValues(outcomeNotFound).Inc()
			return Fail[AuthResponse](now, domain.ErrUserNotFound)
		}
		loginAttempts.WithLabelValues(outcomeError).Inc()
		return Fail[AuthResponse](now, s.unavailable(ctx, "load user for login", err))
	}

	if u.Status != domain.StatusActive {
		loginAttempts.WithLabelValues(outcomeInactive).Inc()
		return Fail[AuthResponse](now, domain.ErrInactiveAccount)
	}

	if s.policy.IsLocked(*u, now) {
		loginAttempts.WithLabelValues(outcomeLocked).Inc()
		return Fail[AuthResponse](now, domain.ErrAccountLocked)
	}

	if !s.hasher.Verify(in.Password, u.PasswordHash) {
		return Fail[AuthResponse](now, s.recordFailedLogin(ctx, u, now))
	}

	updated := s.policy.OnSuccessfulLogin(*u, in.IP, now)
	saved, err := s.users.Save(ctx, &updated)
	if err != nil {
		loginAttempts.WithLabelValues(outcomeError).Inc()
		return Fail[AuthResponse](now, s.unavailable(ctx, "record login", err))
	}

	pair, err := s.tokens.IssuePair(saved)
	if err != nil {
		loginAttempts.WithLabelValues(outcomeError).Inc()
		s.logger.ErrorContext(ctx, "failed to sign tokens", slog.String("error", err.Error()))
		return Fail[AuthResponse](now, apperrors.Internal(err))
	}

	if err := s.storeRefreshToken(ctx, saved.ID, pair.RefreshToken); err != nil {
		loginAttempts.WithLabelValues(outcomeError).Inc()
		return Fail[AuthResponse](now, s.unavailable(ctx, "store refresh token", err))
	}

	loginAttempts.WithLabelValues(outcomeSuccess).Inc()
	s.logger.InfoContext(ctx, "user logged in",
		slog.Int64("user_id", saved.ID),
		slog.String("ip", in.IP),
	)

	return OK(now, msgLoggedIn, newAuthResponse(pair, saved))
}

// recordFailedLogin persists the next lockout state and returns the error
// to report. The attempt that locks the account triggers an alert email.
func (s *AuthService) recordFailedLogin(ctx context.Context, u *domain.User, now time.Time) error {
	updated := s.policy.OnFailedLogin(*u, now)
	saved, err := s.users.Save(ctx, &updated)
	if err != nil {
		loginAttempts.WithLabelValues(outcomeError).Inc()
		return s.unavailable(ctx, "record failed login", err)
	}

	loginAttempts.WithLabelValues(outcomeInvalidCredentials).Inc()
	s.logger.WarnContext(ctx, "invalid credentials",
		slog.Int64("user_id", saved.ID),
		slog.Int("failed_attempts", saved.FailedLoginAttempts),
	)

	if s.policy.JustLocked(*u, *saved, now) {
		accountLockouts.Inc()
		s.logger.WarnContext(ctx, "account locked",
			slog.Int64("user_id", saved.ID),
			slog.Time("locked_until", *saved.LockedUntil),
		)
		s.notify(ctx, "account locked", func(ctx context.Context, n notify.Notifier) error {
			return n.SendAccountLockedEmail(ctx, saved)
		})
	}

	return domain.ErrInvalidCredentials
}

// Refresh exchanges the current refresh token of a user for a new pair. The
// presented token must be the one stored for the user; it is replaced, so
// every refresh token works at most once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) Result[domain.TokenPair] {
	now := s.clock.Now()

	claims, err := s.tokens.ParseClaims(refreshToken)
	if err != nil {
		tokenRefreshes.WithLabelValues(outcomeInvalidToken).Inc()
		return Fail[domain.TokenPair](now, domain.ErrInvalidToken)
	}
	if claims.Kind() != auth.KindRefresh {
		tokenRefreshes.WithLabelValues(outcomeInvalidToken).Inc()
		return Fail[domain.TokenPair](now, domain.ErrInvalidRefreshToken)
	}

	stored, err := s.cache.Get(ctx, repository.RefreshTokenKey(claims.UserID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			tokenRefreshes.WithLabelValues(outcomeInvalidToken).Inc()
			return Fail[domain.TokenPair](now, domain.ErrInvalidRefreshToken)
		}
		tokenRefreshes.WithLabelValues(outcomeError).Inc()
		return Fail[domain.TokenPair](now, s.unavailable(ctx, "load refresh token", err))
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(refreshToken)) != 1 {
		tokenRefreshes.WithLabelValues(outcomeInvalidToken).Inc()
		s.logger.WarnContext(ctx, "superseded or unknown refresh token presented",
			slog.Int64("user_id", claims.UserID),
		)
		return Fail[domain.TokenPair](now, domain.ErrInvalidRefreshToken)
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			tokenRefreshes.WithLabelValues(outcomeInvalidToken).Inc()
			return Fail[domain.TokenPair](now, domain.ErrInvalidToken)
		}
		tokenRefreshes.WithLabelValues(outcomeError).Inc()
		return Fail[domain.TokenPair](now, s.unavailable(ctx, "load user for refresh", err))
	}
	if u.Status != domain.StatusActive {
		tokenRefreshes.WithLabelValues(outcomeInactive).Inc()
		return Fail[domain.TokenPair](now, domain.ErrInactiveAccount)
	}

	pair, err := s.tokens.IssuePair(u)
	if err != nil {
		tokenRefreshes.WithLabelValues(outcomeError).Inc()
		s.logger.ErrorContext(ctx, "failed to sign tokens", slog.String("error", err.Error()))
		return Fail[domain.TokenPair](now, apperrors.Internal(err))
	}
	if err := s.storeRefreshToken(ctx, u.ID, pair.RefreshToken); err != nil {
		tokenRefreshes.WithLabelValues(outcomeError).Inc()
		return Fail[domain.TokenPair](now, s.unavailable(ctx, "store refresh token", err))
	}

	tokenRefreshes.WithLabelValues(outcomeSuccess).Inc()
	return OK(now, msgRefreshed, &pair)
}

// Logout revokes the refresh token of userID. Logging out without a live
// session succeeds.
func (s *AuthService) Logout(ctx context.Context, userID int64) Result[Empty] {
	now := s.clock.Now()

	if _, err := s.cache.Delete(ctx, repository.RefreshTokenKey(userID)); err != nil {
		return Fail[Empty](now, s.unavailable(ctx, "delete refresh token", err))
	}

	s.logger.InfoContext(ctx, "user logged out", slog.Int64("user_id", userID))
	return OK[Empty](now, msgLoggedOut, nil)
}

// --- Account recovery and verification ---

// ForgotPassword issues a one-hour reset token and mails it. The result is
// the same whether or not the email belongs to an account.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) Result[Empty] {
	now := s.clock.Now()

	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return OK[Empty](now, msgResetRequested, nil)
		}
		return Fail[Empty](now, s.unavailable(ctx, "load user for password reset", err))
	}

	token := s.newToken()
	if err := s.cache.Set(ctx, repository.PasswordResetKey(token), strconv.FormatInt(u.ID, 10), repository.PasswordResetTTL); err != nil {
		return Fail[Empty](now, s.unavailable(ctx, "store password reset token", err))
	}

	s.notify(ctx, "password reset", func(ctx context.Context, n notify.Notifier) error {
		return n.SendPasswordResetEmail(ctx, u, token)
	})

	s.logger.InfoContext(ctx, "password reset requested", slog.Int64("user_id", u.ID))
	return OK[Empty](now, msgResetRequested, nil)
}

// ResetPassword consumes a reset token and sets a new password. Any lock is
// lifted and the current refresh token is revoked.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) Result[Empty] {
	now := s.clock.Now()

	u, err := s.consumeToken(ctx, repository.PasswordResetKey(token))
	if err != nil {
		return Fail[Empty](now, err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to hash password", slog.String("error", err.Error()))
		return Fail[Empty](now, apperrors.Internal(err))
	}

	updated := s.policy.Reset(*u, now)
	updated.PasswordHash = hash
	updated.PasswordChangedAt = &now
	if _, err := s.users.Save(ctx, &updated); err != nil {
		return Fail[Empty](now, s.unavailable(ctx, "save reset password", err))
	}

	s.revokeRefreshToken(ctx, u.ID)

	s.logger.InfoContext(ctx, "password reset", slog.Int64("user_id", u.ID))
	return OK[Empty](now, msgPasswordReset, nil)
}

// VerifyEmail consumes a verification token, marks the email verified and
// activates accounts pending verification.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) Result[domain.UserView] {
	now := s.clock.Now()

	u, err := s.consumeToken(ctx, repository.EmailVerificationKey(token))
	if err != nil {
		return Fail[domain.UserView](now, err)
	}

	updated := *u
	if updated.EmailVerifiedAt == nil {
		updated.EmailVerifiedAt = &now
	}
	if updated.Status == domain.StatusPendingVerification {
		updated.Status = domain.StatusActive
	}
	updated.UpdatedAt = now

	saved, err := s.users.Save(ctx, &updated)
	if err != nil {
		return Fail[domain.UserView](now, s.unavailable(ctx, "save verified email", err))
	}

	s.notify(ctx, "welcome", func(ctx context.Context, n notify.Notifier) error {
		return n.SendWelcomeEmail(ctx, saved)
	})

	s.logger.InfoContext(ctx, "email verified", slog.Int64("user_id", saved.ID))
	view := saved.View()
	return OK(now, msgEmailVerified, &view)
}

// ResendVerification issues a new verification token for an unverified
// account. Unknown and already verified emails get the same answer.
func (s *AuthService) ResendVerification(ctx context.Context, email string) Result[Empty] {
	now := s.clock.Now()

	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return OK[Empty](now, msgVerificationResent, nil)
		}
		return Fail[Empty](now, s.unavailable(ctx, "load user for verification", err))
	}

	if u.EmailVerifiedAt == nil {
		s.startVerification(ctx, u)
	}
	return OK[Empty](now, msgVerificationResent, nil)
}

// ChangePassword replaces the password of an authenticated user after
// checking the current one, and revokes the refresh token.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) Result[Empty] {
	now := s.clock.Now()

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return Fail[Empty](now, domain.ErrUserNotFound)
		}
		return Fail[Empty](now, s.unavailable(ctx, "load user for password change", err))
	}

	if !s.hasher.Verify(current, u.PasswordHash) {
		return Fail[Empty](now, domain.ErrInvalidCredentials)
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to hash password", slog.String("error", err.Error()))
		return Fail[Empty](now, apperrors.Internal(err))
	}

	updated := *u
	updated.PasswordHash = hash
	updated.PasswordChangedAt = &now
	updated.UpdatedAt = now
	if _, err := s.users.Save(ctx, &updated); err != nil {
		return Fail[Empty](now, s.unavailable(ctx, "save changed password", err))
	}

	s.revokeRefreshToken(ctx, u.ID)

	s.logger.InfoContext(ctx, "password changed", slog.Int64("user_id", u.ID))
	return OK[Empty](now, msgPasswordChanged, nil)
}

// Me returns the public view of userID.
func (s *AuthService) Me(ctx context.Context, userID int64) Result[domain.UserView] {
	now := s.clock.Now()

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return Fail[domain.UserView](now, domain.ErrUserNotFound)
		}
		return Fail[domain.UserView](now, s.unavailable(ctx, "load user", err))
	}

	view := u.View()
	return OK(now, msgUserRetrieved, &view)
}

// Wait blocks until background notifications finish or ctx is done.
func (s *AuthService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// --- helpers ---

func (s *AuthService) findByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return s.users.GetByEmail(ctx, normalizeEmail(identifier))
	}
	return s.users.GetByUsername(ctx, identifier)
}

func (s *AuthService) storeRefreshToken(ctx context.Context, userID int64, token string) error {
	return s.cache.Set(ctx, repository.RefreshTokenKey(userID), token, s.tokens.RefreshTTL())
}

// revokeRefreshToken ends the session of userID. Failure is logged only:
// the password change it follows has already been saved.
func (s *AuthService) revokeRefreshToken(ctx context.Context, userID int64) {
	if _, err := s.cache.Delete(ctx, repository.RefreshTokenKey(userID)); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke refresh token",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}

// consumeToken resolves a one-time token to its user and deletes it. Only
// the caller whose delete removed the entry may use it.
func (s *AuthService) consumeToken(ctx context.Context, key string) (*domain.User, error) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, s.unavailable(ctx, "load one-time token", err)
	}

	deleted, err := s.cache.Delete(ctx, key)
	if err != nil {
		return nil, s.unavailable(ctx, "delete one-time token", err)
	}
	if !deleted {
		return nil, domain.ErrInvalidToken
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		s.logger.ErrorContext(ctx, "malformed one-time token entry", slog.String("key", key))
		return nil, domain.ErrInvalidToken
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, s.unavailable(ctx, "load user for one-time token", err)
	}
	return u, nil
}

// startVerification stores a 24-hour verification token for u and mails it.
// Failures are logged and never reach the caller.
func (s *AuthService) startVerification(ctx context.Context, u *domain.User) {
	if s.notifier == nil {
		return
	}

	token := s.newToken()
	if err := s.cache.Set(ctx, repository.EmailVerificationKey(token), strconv.FormatInt(u.ID, 10), repository.EmailVerificationTTL); err != nil {
		s.logger.ErrorContext(ctx, "failed to store verification token",
			slog.Int64("user_id", u.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	s.notify(ctx, "verification", func(ctx context.Context, n notify.Notifier) error {
		return n.SendVerificationEmail(ctx, u, token)
	})
}

// notify runs send in the background when a notifier is configured. The
// request context's values are kept but its cancellation is not.
func (s *AuthService) notify(ctx context.Context, what string, send func(context.Context, notify.Notifier) error) {
	if s.notifier == nil {
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		if err := send(ctx, s.notifier); err != nil {
			s.logger.ErrorContext(ctx, "failed to send "+what+" email", slog.String("error", err.Error()))
		}
	}()
}

// unavailable logs a collaborator failure and returns the generic error
// shown to clients. The cause stays in the chain but not in the message.
func (s *AuthService) unavailable(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, op+" failed", slog.String("error", err.Error()))
	return apperrors.Unavailable(domain.ErrCollaboratorUnavailable.Message, err)
}

func outcomeFor(err error) string {
	if errors.Is(err, apperrors.ErrAlreadyExists) {
		return outcomeDuplicate
	}
	return outcomeError
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// opaqueToken returns a random 32-character hex token.
func opaqueToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
