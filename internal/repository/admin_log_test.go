package repository

import (
	"context"
	"testing"
	"time"

	"unfake/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminLogRepository_ListNewestFirstWithAdmin(t *testing.T) {
	stores := setupSQLiteStores(t)
	ctx := context.Background()
	now := time.Now().UTC()

	admin := seedUser(t, stores.Users, "root", models.StatusActive, now)

	first := &models.AdminLog{ID: models.NewID(), AdminID: admin.ID, Action: models.ActionPostDeleted, Details: "first", CreatedAt: now.Add(-time.Minute)}
	second := &models.AdminLog{ID: models.NewID(), AdminID: admin.ID, Action: models.ActionUserStatusChanged, Details: "second", CreatedAt: now}
	require.NoError(t, stores.Logs.Create(ctx, first))
	require.NoError(t, stores.Logs.Create(ctx, second))

	logs, err := stores.Logs.List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "second", logs[0].Details)
	assert.Equal(t, "first", logs[1].Details)
	require.NotNil(t, logs[0].Admin)
	assert.Equal(t, "root", logs[0].Admin.Username)
}

func TestGormBackend(t *testing.T) {
	stores := setupSQLiteStores(t)
	assert.Equal(t, "sqlite", stores.Backend.Name())
	assert.NoError(t, stores.Backend.Ping(context.Background()))
}
