package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"unfake/internal/models"
	"unfake/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	existsFn        func(context.Context, string, string) (bool, error)
	updateStatusFn  func(context.Context, string, models.UserStatus) (*models.User, error)
	updateRoleFn    func(context.Context, string, models.Role) (*models.User, error)
	listByRoleFn    func(context.Context, models.Role) ([]models.User, error)
	searchFn        func(context.Context, string) ([]models.UserWithVotes, error)
	countFn         func(context.Context) (int64, error)
	chartStatsFn    func(context.Context, time.Time) (*models.UserChartStats, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	return s.existsFn(ctx, username, email)
}
func (s *userRepoStub) UpdateStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error) {
	return s.updateStatusFn(ctx, id, status)
}
func (s *userRepoStub) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	return s.updateRoleFn(ctx, id, role)
}
func (s *userRepoStub) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.listByRoleFn(ctx, role)
}
func (s *userRepoStub) SearchWithVoteCounts(ctx context.Context, query string) ([]models.UserWithVotes, error) {
	return s.searchFn(ctx, query)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *userRepoStub) ChartStats(ctx context.Context, since time.Time) (*models.UserChartStats, error) {
	return s.chartStatsFn(ctx, since)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, _ string) (*models.User, error) { return nil, repository.ErrUserNotFound },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, repository.ErrUserNotFound },
		existsFn:        func(_ context.Context, _, _ string) (bool, error) { return false, nil },
		updateStatusFn: func(_ context.Context, _ string, _ models.UserStatus) (*models.User, error) {
			return nil, repository.ErrUserNotFound
		},
		updateRoleFn: func(_ context.Context, _ string, _ models.Role) (*models.User, error) {
			return nil, repository.ErrUserNotFound
		},
		listByRoleFn: func(_ context.Context, _ models.Role) ([]models.User, error) { return []models.User{}, nil },
		searchFn:     func(_ context.Context, _ string) ([]models.UserWithVotes, error) { return []models.UserWithVotes{}, nil },
		countFn:      func(_ context.Context) (int64, error) { return 0, nil },
		chartStatsFn: func(_ context.Context, _ time.Time) (*models.UserChartStats, error) { return &models.UserChartStats{}, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn    func(context.Context, *models.Post) error
	getByIDFn   func(context.Context, string) (*models.Post, error)
	existsFn    func(context.Context, string) (bool, error)
	listFn      func(context.Context, models.PostFilter) ([]models.Post, error)
	countFn     func(context.Context, models.PostFilter) (int64, error)
	applyVoteFn func(context.Context, string, string, bool) (bool, error)
	moderateFn  func(context.Context, string, models.ModerationUpdate) (*models.Post, error)
	deleteFn    func(context.Context, string) (*models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Exists(ctx context.Context, id string) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	return s.listFn(ctx, filter)
}
func (s *postRepoStub) Count(ctx context.Context, filter models.PostFilter) (int64, error) {
	return s.countFn(ctx, filter)
}
func (s *postRepoStub) ApplyVote(ctx context.Context, postID, userID string, value bool) (bool, error) {
	return s.applyVoteFn(ctx, postID, userID, value)
}
func (s *postRepoStub) Moderate(ctx context.Context, id string, update models.ModerationUpdate) (*models.Post, error) {
	return s.moderateFn(ctx, id, update)
}
func (s *postRepoStub) Delete(ctx context.Context, id string) (*models.Post, error) {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:    func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:   func(_ context.Context, id string) (*models.Post, error) { return &models.Post{ID: id}, nil },
		existsFn:    func(_ context.Context, _ string) (bool, error) { return true, nil },
		listFn:      func(_ context.Context, _ models.PostFilter) ([]models.Post, error) { return []models.Post{}, nil },
		countFn:     func(_ context.Context, _ models.PostFilter) (int64, error) { return 0, nil },
		applyVoteFn: func(_ context.Context, _, _ string, _ bool) (bool, error) { return true, nil },
		moderateFn: func(_ context.Context, id string, _ models.ModerationUpdate) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		deleteFn: func(_ context.Context, id string) (*models.Post, error) { return &models.Post{ID: id}, nil },
	}
}

// logRepoStub records appended audit entries.
type logRepoStub struct {
	entries  []models.AdminLog
	createFn func(context.Context, *models.AdminLog) error
	listFn   func(context.Context) ([]models.AdminLog, error)
}

func (s *logRepoStub) Create(ctx context.Context, entry *models.AdminLog) error {
	if s.createFn != nil {
		return s.createFn(ctx, entry)
	}
	s.entries = append(s.entries, *entry)
	return nil
}
func (s *logRepoStub) List(ctx context.Context) ([]models.AdminLog, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return s.entries, nil
}

var errStoreDown = errors.New("connection refused")

// assertAppError asserts that err is an AppError carrying code.
func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}
