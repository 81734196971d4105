package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/falahatiali/MoneyMentor/internal/domain"
	"github.com/falahatiali/MoneyMentor/pkg/middleware"
)

// Kind distinguishes access tokens from refresh tokens.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

const (
	DefaultAccessTTL  = 24 * time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
	DefaultIssuer     = "moneymentor"
)

// Claims is the payload of both token kinds. Refresh tokens carry
// type=refresh; access tokens omit the claim.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
	Type   string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// Kind returns the token kind encoded in the claims.
func (c *Claims) Kind() Kind {
	if c.Type == string(KindRefresh) {
		return KindRefresh
	}
	return KindAccess
}

// Config holds the signing secret and token lifetimes. Zero durations and an
// empty issuer take the defaults.
type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
}

// JWTManager issues and validates HS256 session tokens.
type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	clock      Clock
	parser     *jwt.Parser
}

// NewJWTManager creates a manager. A nil clock uses SystemClock.
func NewJWTManager(cfg Config, clock Clock) *JWTManager {
	if clock == nil {
		clock = SystemClock{}
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}

	m := &JWTManager{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		issuer:     cfg.Issuer,
		clock:      clock,
	}
	m.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return m.clock.Now() }),
	)
	return m
}

// WithTTLs returns a copy of m with different lifetimes. Negative values are
// allowed so tests can mint already-expired tokens.
func (m *JWTManager) WithTTLs(access, refresh time.Duration) *JWTManager {
	cp := *m
	cp.accessTTL = access
	cp.refreshTTL = refresh
	return &cp
}

// IssueAccessToken signs an access token for u.
func (m *JWTManager) IssueAccessToken(u *domain.User) (string, error) {
	token, err := m.sign(u, KindAccess, m.accessTTL)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return token, nil
}

// IssueRefreshToken signs a refresh token for u.
func (m *JWTManager) IssueRefreshToken(u *domain.User) (string, error) {
	token, err := m.sign(u, KindRefresh, m.refreshTTL)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return token, nil
}

// IssuePair signs a fresh access and refresh token for u.
func (m *JWTManager) IssuePair(u *domain.User) (domain.TokenPair, error) {
	access, err := m.IssueAccessToken(u)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := m.IssueRefreshToken(u)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    domain.TokenTypeBearer,
		ExpiresIn:    m.AccessTTLSeconds(),
	}, nil
}

func (m *JWTManager) sign(u *domain.User, kind Kind, ttl time.Duration) (string, error) {
	now := m.clock.Now()
	claims := &Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
		Status: string(u.Status),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.Username,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if kind == KindRefresh {
		claims.Type = string(KindRefresh)
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseClaims verifies the signature, issuer and expiry of token. Every
// failure wraps domain.ErrInvalidToken.
func (m *JWTManager) ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := m.parser.ParseWithClaims(token, claims, m.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func (m *JWTManager) key(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return m.secret, nil
}

// IsExpired reports whether token's expiry is not after now. A token that
// cannot be verified at all counts as expired.
func (m *JWTManager) IsExpired(token string) bool {
	_, err := m.ParseClaims(token)
	if err == nil {
		return false
	}
	return errors.Is(err, jwt.ErrTokenExpired) || !m.verifiesIgnoringTime(token)
}

// verifiesIgnoringTime checks only the signature and structure.
func (m *JWTManager) verifiesIgnoringTime(token string) bool {
	p := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := p.ParseWithClaims(token, &Claims{}, m.key)
	return err == nil
}

// IsValidAccessToken reports whether token verifies, has not expired and
// names u as its subject.
func (m *JWTManager) IsValidAccessToken(token string, u *domain.User) bool {
	claims, err := m.ParseClaims(token)
	if err != nil {
		return false
	}
	return claims.Subject == u.Username
}

// IsRefreshKind reports whether token verifies and is a refresh token.
func (m *JWTManager) IsRefreshKind(token string) bool {
	claims, err := m.ParseClaims(token)
	return err == nil && claims.Kind() == KindRefresh
}

// ExtractUsername returns the subject of a verified token.
func (m *JWTManager) ExtractUsername(token string) (string, error) {
	claims, err := m.ParseClaims(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractUserID returns the userId claim of a verified token.
func (m *JWTManager) ExtractUserID(token string) (int64, error) {
	claims, err := m.ParseClaims(token)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// AccessTTLSeconds is the access token lifetime reported as expires_in.
func (m *JWTManager) AccessTTLSeconds() int64 {
	return int64(m.accessTTL / time.Second)
}

// RefreshTTL is the refresh token lifetime, also used as its cache TTL.
func (m *JWTManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// VerifyAccessToken implements middleware.TokenVerifier. Refresh tokens are
// rejected so they cannot be used to call protected routes.
func (m *JWTManager) VerifyAccessToken(token string) (*middleware.Principal, error) {
	claims, err := m.ParseClaims(token)
	if err != nil {
		return nil, err
	}
	if claims.Kind() != KindAccess {
		return nil, fmt.Errorf("%w: refresh token used as access token", domain.ErrInvalidToken)
	}
	if claims.UserID <= 0 {
		return nil, fmt.Errorf("%w: missing userId claim", domain.ErrInvalidToken)
	}
	return &middleware.Principal{
		UserID:   claims.UserID,
		Username: claims.Subject,
		Email:    claims.Email,
		Role:     claims.Role,
	}, nil
}
