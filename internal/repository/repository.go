package repository

import (
	"context"
	"time"

	"github.com/falahatiali/MoneyMentor/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
// Lookups that match no row return apperrors.ErrNotFound.
type UserRepository interface {
	// GetByID retrieves a user by the store-assigned identifier.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user by their unique username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByEmail retrieves a user by their unique email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByMobile(ctx context.Context, mobile string) (bool, error)

	// Save inserts u when its ID is zero and updates it otherwise. The
	// returned user carries the assigned ID.
	Save(ctx context.Context, u *domain.User) (*domain.User, error)

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

// TokenCache is a string key-value store with per-entry expiry.
type TokenCache interface {
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the value under key, or apperrors.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes key and reports whether it existed. Deleting a missing
	// key is not an error.
	Delete(ctx context.Context, key string) (bool, error)

	Exists(ctx context.Context, key string) (bool, error)

	// Ping checks that the cache is reachable.
	Ping(ctx context.Context) error
}
