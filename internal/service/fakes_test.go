package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/falahatiali/MoneyMentor/internal/auth"
	"github.com/falahatiali/MoneyMentor/internal/domain"
	"github.com/falahatiali/MoneyMentor/internal/lockout"
	"github.com/falahatiali/MoneyMentor/internal/notify"
	apperrors "github.com/falahatiali/MoneyMentor/pkg/errors"
)

// --- Clock ---

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// --- In-memory user store ---

type memUsers struct {
	mu     sync.Mutex
	byID   map[int64]domain.User
	nextID int64
	saves  int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[int64]domain.User), nextID: 1}
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) find(match func(domain.User) bool) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if match(u) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Username == username })
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Email == email })
}

func (m *memUsers) exists(match func(domain.User) bool) (bool, error) {
	_, err := m.find(match)
	return err == nil, nil
}

func (m *memUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	return m.exists(func(u domain.User) bool { return u.Username == username })
}

func (m *memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return m.exists(func(u domain.User) bool { return u.Email == email })
}

func (m *memUsers) ExistsByMobile(_ context.Context, mobile string) (bool, error) {
	return m.exists(func(u domain.User) bool { return u.Mobile != "" && u.Mobile == mobile })
}

func (m *memUsers) Save(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := *u
	if saved.ID == 0 {
		saved.ID = m.nextID
		m.nextID++
	} else if _, ok := m.byID[saved.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	m.byID[saved.ID] = saved
	m.saves++
	return &saved, nil
}

func (m *memUsers) Ping(context.Context) error { return nil }

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

func (m *memUsers) get(t *testing.T, id int64) domain.User {
	t.Helper()
	u, err := m.GetByID(context.Background(), id)
	require.NoError(t, err)
	return *u
}

// --- Mock user repository, for collaborator failures ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) ExistsByMobile(ctx context.Context, mobile string) (bool, error) {
	args := m.Called(ctx, mobile)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) Save(ctx context.Context, u *domain.User) (*domain.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// --- In-memory token cache ---

type cacheEntry struct {
	value   string
	expires time.Time
}

type memCache struct {
	mu      sync.Mutex
	clock   *fakeClock
	entries map[string]cacheEntry
	err     error
}

func newMemCache(clock *fakeClock) *memCache {
	return &memCache{clock: clock, entries: make(map[string]cacheEntry)}
}

func (c *memCache) fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *memCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[key] = cacheEntry{value: value, expires: c.clock.Now().Add(ttl)}
	return nil
}

func (c *memCache) live(key string) (cacheEntry, bool) {
	e, ok := c.entries[key]
	if !ok || !c.clock.Now().Before(e.expires) {
		return cacheEntry{}, false
	}
	return e, true
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	e, ok := c.live(key)
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return e.value, nil
}

func (c *memCache) Delete(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	_, ok := c.live(key)
	delete(c.entries, key)
	return ok, nil
}

func (c *memCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	_, ok := c.live(key)
	return ok, nil
}

func (c *memCache) Ping(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *memCache) ttl(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.live(key)
	if !ok {
		return 0
	}
	return e.expires.Sub(c.clock.Now())
}

// --- Mock notifier ---

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendVerificationEmail(ctx context.Context, u *domain.User, token string) error {
	return m.Called(ctx, u, token).Error(0)
}

func (m *mockNotifier) SendPasswordResetEmail(ctx context.Context, u *domain.User, token string) error {
	return m.Called(ctx, u, token).Error(0)
}

func (m *mockNotifier) SendWelcomeEmail(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockNotifier) SendAccountLockedEmail(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

var _ notify.Notifier = (*mockNotifier)(nil)

// --- Fixture ---

const testSecret = "test-secret-key-at-least-32-characters-long"

type fixture struct {
	svc      *AuthService
	users    *memUsers
	cache    *memCache
	clock    *fakeClock
	notifier *mockNotifier
	tokens   *auth.JWTManager
	hasher   auth.PasswordHasher
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:    newMemUsers(),
		clock:    newFakeClock(),
		notifier: &mockNotifier{},
		hasher:   auth.NewBcryptHasher(bcrypt.MinCost),
	}
	f.cache = newMemCache(f.clock)
	f.tokens = auth.NewJWTManager(auth.Config{
		Secret:     testSecret,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}, f.clock)
	f.svc = NewAuthService(f.users, f.cache, f.hasher, f.tokens, f.notifier,
		Options{Lockout: lockout.Policy{}, Clock: f.clock}, newTestLogger())

	t.Cleanup(func() {
		require.NoError(t, f.svc.Wait(context.Background()))
		f.notifier.AssertExpectations(t)
	})
	return f
}

// seedUser stores an ACTIVE account with the given password.
func (f *fixture) seedUser(t *testing.T, username, email, password string) domain.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)

	u := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Alice",
		CreatedAt:    f.clock.Now(),
		UpdatedAt:    f.clock.Now(),
	}
	u.ApplyDefaults()

	saved, err := f.users.Save(context.Background(), u)
	require.NoError(t, err)
	return *saved
}

// waitForEmails drains background notifications.
func (f *fixture) waitForEmails(t *testing.T) {
	t.Helper()
	require.NoError(t, f.svc.Wait(context.Background()))
}
