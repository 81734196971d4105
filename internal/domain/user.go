package domain

import (
	"time"
)

// User is a registered MoneyMentor account.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`

	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone,omitempty"`
	Mobile      string     `json:"mobile,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      Gender     `json:"gender,omitempty"`
	Country     string     `json:"country,omitempty"`
	Language    string     `json:"language"`
	Timezone    string     `json:"timezone"`
	Currency    string     `json:"currency"`

	Status Status `json:"status"`
	Role   Role   `json:"role"`

	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP         string     `json:"-"`
	PasswordChangedAt   *time.Time `json:"-"`
	EmailVerifiedAt     *time.Time `json:"email_verified_at,omitempty"`
	MobileVerifiedAt    *time.Time `json:"mobile_verified_at,omitempty"`
	TwoFactorEnabled    bool       `json:"two_factor_enabled"`

	TermsAcceptedAt         *time.Time `json:"terms_accepted_at,omitempty"`
	PrivacyPolicyAcceptedAt *time.Time `json:"privacy_policy_accepted_at,omitempty"`
	MarketingConsent        bool       `json:"marketing_consent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile defaults applied at registration when the caller leaves them empty.
const (
	DefaultLanguage = "en"
	DefaultTimezone = "UTC"
	DefaultCurrency = "USD"
)

// ApplyDefaults fills empty locale fields, role and status.
func (u *User) ApplyDefaults() {
	if u.Language == "" {
		u.Language = DefaultLanguage
	}
	if u.Timezone == "" {
		u.Timezone = DefaultTimezone
	}
	if u.Currency == "" {
		u.Currency = DefaultCurrency
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
}

// IsLockedAt reports whether a lock is in force at now. A lock ending exactly
// at now no longer applies.
func (u *User) IsLockedAt(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// Authenticatable reports whether the account may log in at now.
func (u *User) Authenticatable(now time.Time) bool {
	return u.Status == StatusActive && !u.IsLockedAt(now)
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Username
	}
}

// UserView is the public projection of a User returned to clients.
type UserView struct {
	ID               int64      `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Phone            string     `json:"phone,omitempty"`
	Mobile           string     `json:"mobile,omitempty"`
	Language         string     `json:"language"`
	Timezone         string     `json:"timezone"`
	Currency         string     `json:"currency"`
	Status           Status     `json:"status"`
	Role             Role       `json:"role"`
	EmailVerified    bool       `json:"email_verified"`
	TwoFactorEnabled bool       `json:"two_factor_enabled"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// View projects u for client responses.
func (u *User) View() UserView {
	return UserView{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Phone:            u.Phone,
		Mobile:           u.Mobile,
		Language:         u.Language,
		Timezone:         u.Timezone,
		Currency:         u.Currency,
		Status:           u.Status,
		Role:             u.Role,
		EmailVerified:    u.EmailVerifiedAt != nil,
		TwoFactorEnabled: u.TwoFactorEnabled,
		LastLoginAt:      u.LastLoginAt,
		CreatedAt:        u.CreatedAt,
	}
}

// TokenPair holds an access and refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "Bearer"
