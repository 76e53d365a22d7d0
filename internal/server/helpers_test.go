package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"unfake/internal/auth"
	"unfake/internal/config"
	"unfake/internal/database"
	"unfake/internal/models"
	"unfake/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type testEnv struct {
	app    *fiber.App
	server *Server
	stores *repository.Stores
	redis  *miniredis.Miniredis
	tokens *auth.TokenManager
}

func testConfig() *config.Config {
	return &config.Config{
		Port:           "5000",
		Env:            "test",
		JWTSecret:      testSecret,
		JWTIssuer:      "unfake-api",
		JWTAudience:    "unfake-web",
		DBDriver:       config.DriverSQLite,
		AllowedOrigins: "http://localhost:5173",
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	stores := repository.NewGormStores(db)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := testConfig()
	srv, err := NewServerWithDeps(cfg, stores, rdb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	app := NewApp()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	return &testEnv{
		app:    app,
		server: srv,
		stores: stores,
		redis:  mr,
		tokens: auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience),
	}
}

// createUser stores a user with password "password123" and returns it with a token.
func (e *testEnv) createUser(t *testing.T, username string, role models.Role) (*models.User, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		ID:       models.NewID(),
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Role:     role,
		Status:   models.StatusActive,
	}
	require.NoError(t, e.stores.Users.Create(context.Background(), u))

	token, err := e.tokens.Issue(u)
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	return e.doRaw(t, method, path, token, raw)
}

func (e *testEnv) doRaw(t *testing.T, method, path, token string, raw []byte) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if raw != nil {
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if raw != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func errorMessage(t *testing.T, raw []byte) string {
	t.Helper()
	return decode[models.ErrorResponse](t, raw).Message
}

