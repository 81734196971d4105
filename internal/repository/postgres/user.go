package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/falahatiali/MoneyMentor/internal/domain"
	apperrors "github.com/falahatiali/MoneyMentor/pkg/errors"
	"github.com/falahatiali/MoneyMentor/pkg/database"
)

const userColumns = `id, username, email, password_hash, first_name, last_name, phone, mobile,
		date_of_birth, gender, country, language, timezone, currency, status, role,
		failed_login_attempts, locked_until, last_login_at, last_login_ip, password_changed_at,
		email_verified_at, mobile_verified_at, two_factor_enabled,
		terms_accepted_at, privacy_policy_accepted_at, marketing_consent, created_at, updated_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanUser(ctx, "GetUserByID", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername retrieves a user by their username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(ctx, "GetUserByUsername", `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(ctx, "GetUserByEmail", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "ExistsByUsername", `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "ExistsByEmail", `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *UserRepository) ExistsByMobile(ctx context.Context, mobile string) (bool, error) {
	return r.exists(ctx, "ExistsByMobile", `SELECT EXISTS(SELECT 1 FROM users WHERE mobile = $1)`, mobile)
}

// Save inserts a new user when u.ID is zero and updates the existing row
// otherwise. u is not modified; the stored copy is returned.
func (r *UserRepository) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	saved := *u
	if saved.ID == 0 {
		if err := r.insert(ctx, &saved); err != nil {
			return nil, err
		}
		return &saved, nil
	}
	if err := r.update(ctx, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Ping checks database connectivity.
func (r *UserRepository) Ping(ctx context.Context) error {
	var one int
	if err := r.db.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

func (r *UserRepository) insert(ctx context.Context, u *domain.User) (err error) {
	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, phone, mobile,
			date_of_birth, gender, country, language, timezone, currency, status, role,
			failed_login_attempts, locked_until, last_login_at, last_login_ip, password_changed_at,
			email_verified_at, mobile_verified_at, two_factor_enabled,
			terms_accepted_at, privacy_policy_accepted_at, marketing_consent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
		RETURNING id`

	ctx, end := database.TraceQuery(ctx, "InsertUser", query)
	defer func() { end(err) }()

	err = r.db.QueryRow(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Phone,
		u.Mobile,
		u.DateOfBirth,
		u.Gender,
		u.Country,
		u.Language,
		u.Timezone,
		u.Currency,
		u.Status,
		u.Role,
		u.FailedLoginAttempts,
		u.LockedUntil,
		u.LastLoginAt,
		u.LastLoginIP,
		u.PasswordChangedAt,
		u.EmailVerifiedAt,
		u.MobileVerifiedAt,
		u.TwoFactorEnabled,
		u.TermsAcceptedAt,
		u.PrivacyPolicyAcceptedAt,
		u.MarketingConsent,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *UserRepository) update(ctx context.Context, u *domain.User) (err error) {
	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, first_name = $4, last_name = $5,
		    phone = $6, mobile = $7, date_of_birth = $8, gender = $9, country = $10,
		    language = $11, timezone = $12, currency = $13, status = $14, role = $15,
		    failed_login_attempts = $16, locked_until = $17, last_login_at = $18, last_login_ip = $19,
		    password_changed_at = $20, email_verified_at = $21, mobile_verified_at = $22,
		    two_factor_enabled = $23, terms_accepted_at = $24, privacy_policy_accepted_at = $25,
		    marketing_consent = $26, updated_at = $27
		WHERE id = $28`

	ctx, end := database.TraceQuery(ctx, "UpdateUser", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.FirstName,
		u.LastName,
		u.Phone,
		u.Mobile,
		u.DateOfBirth,
		u.Gender,
		u.Country,
		u.Language,
		u.Timezone,
		u.Currency,
		u.Status,
		u.Role,
		u.FailedLoginAttempts,
		u.LockedUntil,
		u.LastLoginAt,
		u.LastLoginIP,
		u.PasswordChangedAt,
		u.EmailVerifiedAt,
		u.MobileVerifiedAt,
		u.TwoFactorEnabled,
		u.TermsAcceptedAt,
		u.PrivacyPolicyAcceptedAt,
		u.MarketingConsent,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return dup
		}
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) exists(ctx context.Context, operation, query string, arg any) (ok bool, err error) {
	ctx, end := database.TraceQuery(ctx, operation, query)
	defer func() { end(err) }()

	if err = r.db.QueryRow(ctx, query, arg).Scan(&ok); err != nil {
		return false, fmt.Errorf("%s: %w", operation, err)
	}
	return ok, nil
}

// scanUser executes a query expected to return a single user row.
func (r *UserRepository) scanUser(ctx context.Context, operation, query string, args ...any) (_ *domain.User, err error) {
	ctx, end := database.TraceQuery(ctx, operation, query)
	defer func() {
		if errors.Is(err, apperrors.ErrNotFound) {
			end(nil)
			return
		}
		end(err)
	}()

	var u domain.User
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Phone,
		&u.Mobile,
		&u.DateOfBirth,
		&u.Gender,
		&u.Country,
		&u.Language,
		&u.Timezone,
		&u.Currency,
		&u.Status,
		&u.Role,
		&u.FailedLoginAttempts,
		&u.LockedUntil,
		&u.LastLoginAt,
		&u.LastLoginIP,
		&u.PasswordChangedAt,
		&u.EmailVerifiedAt,
		&u.MobileVerifiedAt,
		&u.TwoFactorEnabled,
		&u.TermsAcceptedAt,
		&u.PrivacyPolicyAcceptedAt,
		&u.MarketingConsent,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &u, nil
}

// Unique constraints declared in the users migration.
const (
	constraintUsername = "users_username_key"
	constraintEmail    = "users_email_key"
	constraintMobile   = "users_mobile_key"
)

// duplicateError maps a unique violation (SQLSTATE 23505) to the matching
// domain error, or returns nil for any other error.
func duplicateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch pgErr.ConstraintName {
	case constraintUsername:
		return domain.ErrDuplicateUsername
	case constraintEmail:
		return domain.ErrDuplicateEmail
	case constraintMobile:
		return domain.ErrDuplicateMobile
	default:
		return apperrors.AlreadyExists("user", "constraint", pgErr.ConstraintName)
	}
}
