package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"unfake/internal/models"
	"unfake/internal/observability"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("insert", "users")()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) first(ctx context.Context, query string, args ...any) (*models.User, error) {
	defer observability.TrackQuery("select", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check user uniqueness: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) UpdateStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error) {
	return r.update(ctx, id, map[string]any{"status": status})
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	return r.update(ctx, id, map[string]any{"role": role})
}

func (r *userRepository) update(ctx context.Context, id string, fields map[string]any) (*models.User, error) {
	defer observability.TrackQuery("update", "users")()

	fields["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("username ASC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

type voteTally struct {
	UserID          string
	TrueVotesCount  int64
	FalseVotesCount int64
}

func (r *userRepository) SearchWithVoteCounts(ctx context.Context, query string) ([]models.UserWithVotes, error) {
	defer observability.TrackQuery("select", "users")()

	cond, args := containsCondition(r.db, query, "username", "email")
	var users []models.User
	err := r.db.WithContext(ctx).
		Where(cond, args...).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	out := make([]models.UserWithVotes, 0, len(users))
	if len(users) == 0 {
		return out, nil
	}

	ids := make([]string, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}

	var tallies []voteTally
	err = r.db.WithContext(ctx).Model(&models.PostVote{}).
		Select("user_id, "+
			"SUM(CASE WHEN value = ? THEN 1 ELSE 0 END) AS true_votes_count, "+
			"SUM(CASE WHEN value = ? THEN 1 ELSE 0 END) AS false_votes_count", true, false).
		Where("user_id IN ?", ids).
		Group("user_id").
		Scan(&tallies).Error
	if err != nil {
		return nil, fmt.Errorf("tally user votes: %w", err)
	}

	byUser := make(map[string]voteTally, len(tallies))
	for _, t := range tallies {
		byUser[t.UserID] = t
	}

	for _, u := range users {
		t := byUser[u.ID]
		out = append(out, models.UserWithVotes{
			ID:              u.ID,
			Username:        u.Username,
			Email:           u.Email,
			Role:            u.Role,
			Status:          u.Status,
			CreatedAt:       u.CreatedAt,
			TrueVotesCount:  t.TrueVotesCount,
			FalseVotesCount: t.FalseVotesCount,
		})
	}
	return out, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *userRepository) ChartStats(ctx context.Context, since time.Time) (*models.UserChartStats, error) {
	var stats models.UserChartStats
	counts := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{&stats.TempBanned, "status = ?", []any{models.StatusTempBanned}},
		{&stats.PermBanned, "status = ?", []any{models.StatusPermBanned}},
		{&stats.NewActive, "status = ? AND created_at >= ?", []any{models.StatusActive, since}},
		{&stats.OldActive, "status = ? AND created_at < ?", []any{models.StatusActive, since}},
	}
	for _, c := range counts {
		if err := r.db.WithContext(ctx).Model(&models.User{}).Where(c.query, c.args...).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("user chart stats: %w", err)
		}
	}
	return &stats, nil
}
