package main

import (
	"context"
	"testing"

	"unfake/internal/database"
	"unfake/internal/models"
	"unfake/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRole(t *testing.T) {
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	stores := repository.NewGormStores(db)
	t.Cleanup(func() { _ = stores.Backend.Close(context.Background()) })
	ctx := context.Background()

	require.NoError(t, stores.Users.Create(ctx, &models.User{
		ID: models.NewID(), Username: "dana", Email: "dana@example.com", Password: "x",
		Role: models.RoleUser, Status: models.StatusActive,
	}))

	require.NoError(t, setRole(ctx, stores.Users, "dana", models.RoleAdmin))
	admins, err := stores.Users.ListByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "dana", admins[0].Username)

	// repeating is harmless
	require.NoError(t, setRole(ctx, stores.Users, "dana", models.RoleAdmin))
	require.NoError(t, listAdmins(ctx, stores.Users))

	require.NoError(t, setRole(ctx, stores.Users, "dana", models.RoleUser))
	admins, err = stores.Users.ListByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, admins)

	assert.Error(t, setRole(ctx, stores.Users, "ghost", models.RoleAdmin))
}
