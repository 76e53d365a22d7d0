// Package bootstrap assembles the runtime dependencies shared by the commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"unfake/internal/cache"
	"unfake/internal/config"
	"unfake/internal/database"
	"unfake/internal/middleware"
	"unfake/internal/models"
	"unfake/internal/repository"
	"unfake/internal/repository/mongostore"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// InitRuntime opens the configured store and Redis and ensures the
// development admin when enabled. The Redis client is nil when unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config) (*repository.Stores, *redis.Client, error) {
	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	r := cache.InitRedis(cfg.RedisURL)

	if err := EnsureDevAdmin(ctx, cfg, stores.Users); err != nil {
		_ = stores.Backend.Close(ctx)
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	return stores, r, nil
}

// OpenStores connects the repositories selected by DB_DRIVER.
func OpenStores(ctx context.Context, cfg *config.Config) (*repository.Stores, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		store, err := mongostore.NewStore(connectCtx, cfg.DatabaseURL, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongodb connection failed: %w", err)
		}
		return store.Stores(), nil
	default:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		return repository.NewGormStores(db), nil
	}
}

// EnsureDevAdmin creates or promotes the configured admin account in
// development when DEV_BOOTSTRAP_ADMIN is set.
func EnsureDevAdmin(ctx context.Context, cfg *config.Config, users repository.UserRepository) error {
	if cfg == nil || users == nil {
		return nil
	}
	if cfg.Env != "development" || !cfg.DevBootstrapAdmin {
		return nil
	}

	username := strings.TrimSpace(cfg.DevAdminUsername)
	if username == "" {
		username = "admin"
	}
	email := strings.TrimSpace(strings.ToLower(cfg.DevAdminEmail))
	if email == "" {
		email = "admin@unfake.local"
	}
	if cfg.DevAdminPassword == "" {
		return errors.New("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
	}

	existing, err := users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.DevAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		now := time.Now().UTC()
		admin := &models.User{
			ID:        models.NewID(),
			Username:  username,
			Email:     email,
			Password:  string(hash),
			Role:      models.RoleAdmin,
			Status:    models.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := users.Create(ctx, admin); err != nil {
			return err
		}
	case err != nil:
		return err
	case existing.Role != models.RoleAdmin:
		if _, err := users.UpdateRole(ctx, existing.ID, models.RoleAdmin); err != nil {
			return err
		}
	}

	middleware.Logger.InfoContext(ctx, "development admin ensured", slog.String("username", username))
	return nil
}
