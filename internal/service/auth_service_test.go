package service

import (
	"context"
	"strings"
	"testing"

	"unfake/internal/auth"
	"unfake/internal/cache"
	"unfake/internal/models"
	"unfake/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

func newTestAuthService(users repository.UserRepository, c *cache.Cache) *AuthService {
	svc := NewAuthService(users, auth.NewTokenManager(testSecret, "unfake-api", "unfake-web"), c)
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Signup(t *testing.T) {
	t.Parallel()

	var stored *models.User
	users := noopUserRepo()
	users.createFn = func(_ context.Context, u *models.User) error {
		stored = u
		return nil
	}
	svc := newTestAuthService(users, cache.New(nil))

	summary, err := svc.Signup(context.Background(), SignupInput{
		Username: "  alice ",
		Email:    "Alice@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, "alice", summary.Username)
	assert.Equal(t, "alice@example.com", summary.Email)
	assert.Equal(t, stored.ID, summary.ID)
	assert.Equal(t, models.RoleUser, stored.Role)
	assert.Equal(t, models.StatusActive, stored.Status)
	assert.NotEqual(t, "password123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")))
}

func TestAuthService_SignupValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input SignupInput
	}{
		{name: "missing username", input: SignupInput{Email: "a@b.co", Password: "password123"}},
		{name: "missing email", input: SignupInput{Username: "alice", Password: "password123"}},
		{name: "missing password", input: SignupInput{Username: "alice", Email: "a@b.co"}},
		{name: "bad username", input: SignupInput{Username: "a!", Email: "a@b.co", Password: "password123"}},
		{name: "bad email", input: SignupInput{Username: "alice", Email: "nope", Password: "password123"}},
		{name: "short password", input: SignupInput{Username: "alice", Email: "a@b.co", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			users := noopUserRepo()
			users.createFn = func(_ context.Context, _ *models.User) error {
				t.Fatal("create must not be called")
				return nil
			}
			_, err := newTestAuthService(users, cache.New(nil)).Signup(context.Background(), tt.input)
			assertAppError(t, err, models.CodeValidation)
		})
	}
}

func TestAuthService_SignupDuplicate(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.existsFn = func(_ context.Context, _, _ string) (bool, error) { return true, nil }
	svc := newTestAuthService(users, cache.New(nil))

	_, err := svc.Signup(context.Background(), SignupInput{Username: "alice", Email: "a@b.co", Password: "password123"})
	appErr := assertAppError(t, err, models.CodeConflict)
	assert.Equal(t, "Username or email already exists.", appErr.Message)
}

func TestAuthService_SignupStoreFailureIsGeneric(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	users.existsFn = func(_ context.Context, _, _ string) (bool, error) { return false, errStoreDown }
	svc := newTestAuthService(users, cache.New(nil))

	_, err := svc.Signup(context.Background(), SignupInput{Username: "alice", Email: "a@b.co", Password: "password123"})
	appErr := assertAppError(t, err, models.CodeInternal)
	assert.NotContains(t, appErr.Message, "connection refused")
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	alice := &models.User{
		ID:       "u-1",
		Username: "alice",
		Password: hashed(t, "password123"),
		Role:     models.RoleAdmin,
		Status:   models.StatusActive,
	}
	users := noopUserRepo()
	users.getByUsernameFn = func(_ context.Context, name string) (*models.User, error) {
		if name == "alice" {
			return alice, nil
		}
		return nil, repository.ErrUserNotFound
	}
	svc := newTestAuthService(users, cache.New(nil))

	t.Run("success", func(t *testing.T) {
		res, err := svc.Login(context.Background(), "alice", "password123")
		require.NoError(t, err)
		assert.Equal(t, LoginUser{ID: "u-1", Username: "alice", Role: models.RoleAdmin}, res.User)
		assert.Len(t, strings.Split(res.Token, "."), 3)

		principal, err := svc.tokens.Parse(res.Token)
		require.NoError(t, err)
		assert.Equal(t, auth.Principal{ID: "u-1", Role: models.RoleAdmin}, principal)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "alice", "wrong-password")
		appErr := assertAppError(t, err, models.CodeUnauthorized)
		assert.Equal(t, MsgInvalidCredentials, appErr.Message)
	})

	t.Run("unknown user looks the same", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "bob", "password123")
		appErr := assertAppError(t, err, models.CodeUnauthorized)
		assert.Equal(t, MsgInvalidCredentials, appErr.Message)
	})

	t.Run("empty fields", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "", "")
		assertAppError(t, err, models.CodeUnauthorized)
	})
}

func TestAuthService_LoginSuspended(t *testing.T) {
	t.Parallel()

	for _, status := range []models.UserStatus{models.StatusTempBanned, models.StatusPermBanned} {
		t.Run(string(status), func(t *testing.T) {
			t.Parallel()
			users := noopUserRepo()
			users.getByUsernameFn = func(_ context.Context, _ string) (*models.User, error) {
				return &models.User{ID: "u-1", Username: "alice", Password: hashed(t, "password123"), Status: status}, nil
			}
			svc := newTestAuthService(users, cache.New(nil))

			_, err := svc.Login(context.Background(), "alice", "password123")
			appErr := assertAppError(t, err, models.CodeForbidden)
			assert.Equal(t, MsgAccountSuspended, appErr.Message)

			// a wrong password on a suspended account still reads as bad credentials
			_, err = svc.Login(context.Background(), "alice", "nope-nope")
			assertAppError(t, err, models.CodeUnauthorized)
		})
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Parallel()

	status := models.StatusActive
	lookups := 0
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id string) (*models.User, error) {
		lookups++
		if id != "u-1" {
			return nil, repository.ErrUserNotFound
		}
		return &models.User{ID: "u-1", Role: models.RoleUser, Status: status}, nil
	}
	svc := newTestAuthService(users, cache.New(nil))

	token, err := svc.tokens.Issue(&models.User{ID: "u-1", Role: models.RoleUser})
	require.NoError(t, err)

	principal, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", principal.ID)
	assert.False(t, principal.IsAdmin())

	status = models.StatusPermBanned
	_, err = svc.Authenticate(context.Background(), token)
	assertAppError(t, err, models.CodeForbidden)
	assert.Equal(t, 2, lookups, "without a cache every request reads the store")

	_, err = svc.Authenticate(context.Background(), "not-a-token")
	appErr := assertAppError(t, err, models.CodeUnauthorized)
	assert.Equal(t, MsgInvalidToken, appErr.Message)

	ghost, err := svc.tokens.Issue(&models.User{ID: "u-gone", Role: models.RoleUser})
	require.NoError(t, err)
	_, err = svc.Authenticate(context.Background(), ghost)
	assertAppError(t, err, models.CodeUnauthorized)
}

func TestAuthService_AuthenticateUsesStandingCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	c := cache.New(rdb)

	lookups := 0
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, _ string) (*models.User, error) {
		lookups++
		return &models.User{ID: "u-1", Status: models.StatusActive}, nil
	}
	svc := newTestAuthService(users, c)

	token, err := svc.tokens.Issue(&models.User{ID: "u-1", Role: models.RoleUser})
	require.NoError(t, err)

	for range 3 {
		_, err := svc.Authenticate(context.Background(), token)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, lookups)
	assert.True(t, mr.Exists(cache.StandingKey("u-1")))

	// a ban recorded elsewhere reaches the guard once the entry is replaced
	c.SetStanding(context.Background(), "u-1", models.StatusTempBanned)
	_, err = svc.Authenticate(context.Background(), token)
	assertAppError(t, err, models.CodeForbidden)
}
