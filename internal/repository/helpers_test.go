package repository

import (
	"context"
	"testing"
	"time"

	"unfake/internal/database"
	"unfake/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func setupSQLiteStores(t *testing.T) *Stores {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	stores := NewGormStores(db)
	t.Cleanup(func() { _ = stores.Backend.Close(context.Background()) })
	return stores
}

func seedUser(t *testing.T, repo UserRepository, username string, status models.UserStatus, createdAt time.Time) *models.User {
	t.Helper()
	u := &models.User{
		ID:        models.NewID(),
		Username:  username,
		Email:     username + "@example.com",
		Password:  "hash",
		Role:      models.RoleUser,
		Status:    status,
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func seedPost(t *testing.T, repo PostRepository, author *models.User, title, description string, status models.PostStatus, createdAt time.Time) *models.Post {
	t.Helper()
	p := &models.Post{
		ID:            models.NewID(),
		Title:         title,
		Source:        "https://news.example.com/" + title,
		Description:   description,
		SubmittedByID: author.ID,
		Status:        status,
		AdminFlag:     models.FlagUnverified,
		CreatedAt:     createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}
