package database

import (
	"testing"

	"unfake/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenInMemoryMigratesSchema(t *testing.T) {
	db, err := OpenInMemory()
	require.NoError(t, err)

	for _, table := range []string{"users", "posts", "post_votes", "admin_logs"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("users", "idx_users_username"))
	assert.True(t, db.Migrator().HasIndex("users", "idx_users_email"))
}

func TestDialector(t *testing.T) {
	pg, err := Dialector(&config.Config{DBDriver: config.DriverPostgres, DBHost: "db", DBPort: "5432"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", pg.Name())

	lite, err := Dialector(&config.Config{DBDriver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", lite.Name())

	_, err = Dialector(&config.Config{DBDriver: config.DriverMongo})
	assert.Error(t, err)
}

func TestConnectSQLite(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: t.TempDir() + "/unfake.db",
		Env:        "test",
	}

	db, err := Connect(cfg)
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("posts"))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}
