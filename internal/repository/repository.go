// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"time"

	"unfake/internal/models"
)

// Store errors shared by every backend.
var (
	ErrPostNotFound  = models.NewNotFoundError("Post not found.")
	ErrUserNotFound  = models.NewNotFoundError("User not found.")
	ErrDuplicateUser = models.NewConflictError("Username or email already exists.")
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error)
	UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	SearchWithVoteCounts(ctx context.Context, query string) ([]models.UserWithVotes, error)
	Count(ctx context.Context) (int64, error)
	ChartStats(ctx context.Context, since time.Time) (*models.UserChartStats, error)
}

// PostRepository defines persistence operations for posts and their votes.
// Returned posts have SubmittedBy populated and their tally computed.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	Count(ctx context.Context, filter models.PostFilter) (int64, error)
	// ApplyVote records userID's verdict in a single conditional write and
	// reports whether anything changed.
	ApplyVote(ctx context.Context, postID, userID string, value bool) (bool, error)
	Moderate(ctx context.Context, id string, update models.ModerationUpdate) (*models.Post, error)
	Delete(ctx context.Context, id string) (*models.Post, error)
}

// AdminLogRepository appends and lists audit entries.
type AdminLogRepository interface {
	Create(ctx context.Context, entry *models.AdminLog) error
	// List returns entries newest first with Admin populated.
	List(ctx context.Context) ([]models.AdminLog, error)
}

// Backend is the connection behind a set of repositories.
type Backend interface {
	Name() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Stores groups the repositories of one backend.
type Stores struct {
	Users   UserRepository
	Posts   PostRepository
	Logs    AdminLogRepository
	Backend Backend
}
