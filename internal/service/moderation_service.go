package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"unfake/internal/cache"
	"unfake/internal/middleware"
	"unfake/internal/models"
	"unfake/internal/observability"
	"unfake/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Client-facing messages of moderation operations.
const (
	MsgInvalidUserStatus = "Invalid status provided."
	MsgInvalidPostStatus = "Invalid post status provided."
	MsgInvalidAdminFlag  = "Invalid admin flag provided."
)

// NewUserWindow separates new from established active users in the chart stats.
const NewUserWindow = 7 * 24 * time.Hour

// ModerationService provides admin moderation, auditing and reporting logic.
type ModerationService struct {
	users repository.UserRepository
	posts repository.PostRepository
	logs  repository.AdminLogRepository
	cache *cache.Cache
	now   func() time.Time
}

// NewModerationService returns a new ModerationService.
func NewModerationService(stores *repository.Stores, c *cache.Cache) *ModerationService {
	return &ModerationService{
		users: stores.Users,
		posts: stores.Posts,
		logs:  stores.Logs,
		cache: c,
		now:   time.Now,
	}
}

// Moderate applies a partial update to a post. Status and flag are applied
// when non-empty; the reason whenever it is present, including "".
func (s *ModerationService) Moderate(ctx context.Context, adminID, postID string, update models.ModerationUpdate) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "ModerationService", "Moderate", attribute.String("post.id", postID))
	defer span.End()

	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		span.SetError(err)
		return nil, storeError(ctx, "moderation.exists", err)
	}
	if !exists {
		return nil, repository.ErrPostNotFound
	}

	if update.Status != "" && !models.PostStatus(update.Status).Valid() {
		return nil, models.NewValidationError(MsgInvalidPostStatus)
	}
	if update.AdminFlag != "" && !models.AdminFlag(update.AdminFlag).Valid() {
		return nil, models.NewValidationError(MsgInvalidAdminFlag)
	}

	if update.IsEmpty() {
		post, err := s.posts.GetByID(ctx, postID)
		if err != nil {
			return nil, storeError(ctx, "moderation.get", err)
		}
		return post, nil
	}

	post, err := s.posts.Moderate(ctx, postID, update)
	if err != nil {
		span.SetError(err)
		return nil, storeError(ctx, "moderation.update", err)
	}

	s.cache.InvalidateFeed(ctx)
	s.audit(ctx, adminID, models.ActionPostModerated, moderationDetails(post.Title, update))
	return post, nil
}

// DeletePost removes a post and its votes.
func (s *ModerationService) DeletePost(ctx context.Context, adminID, postID string) error {
	post, err := s.posts.Delete(ctx, postID)
	if err != nil {
		return storeError(ctx, "moderation.delete", err)
	}

	s.cache.InvalidateFeed(ctx)
	s.audit(ctx, adminID, models.ActionPostDeleted, fmt.Sprintf("Admin deleted post %q.", truncateTitle(post.Title)))
	return nil
}

// ManageUserStatus overwrites a user's status. The cached standing is dropped
// so the auth guard sees the change on the next request.
func (s *ModerationService) ManageUserStatus(ctx context.Context, adminID, userID, status string) (*models.User, error) {
	newStatus := models.UserStatus(status)
	if !newStatus.Valid() {
		return nil, models.NewValidationError(MsgInvalidUserStatus)
	}

	user, err := s.users.UpdateStatus(ctx, userID, newStatus)
	if err != nil {
		return nil, storeError(ctx, "moderation.user_status", err)
	}

	s.cache.InvalidateStanding(ctx, userID)
	s.audit(ctx, adminID, models.ActionUserStatusChanged,
		fmt.Sprintf("Admin set status of user %q to %s.", user.Username, newStatus))
	return user, nil
}

// PendingPosts lists posts awaiting review that match query.
func (s *ModerationService) PendingPosts(ctx context.Context, query string) ([]models.Post, error) {
	posts, err := s.posts.List(ctx, models.PostFilter{Status: models.PostPending, Query: query})
	if err != nil {
		return nil, storeError(ctx, "moderation.pending", err)
	}
	return posts, nil
}

// AllPosts lists posts of any status that match query.
func (s *ModerationService) AllPosts(ctx context.Context, query string) ([]models.Post, error) {
	posts, err := s.posts.List(ctx, models.PostFilter{Query: query})
	if err != nil {
		return nil, storeError(ctx, "moderation.all_posts", err)
	}
	return posts, nil
}

// Stats returns the dashboard headline counts.
func (s *ModerationService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	var err error

	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, storeError(ctx, "stats.users", err)
	}
	if stats.PendingPosts, err = s.posts.Count(ctx, models.PostFilter{Status: models.PostPending}); err != nil {
		return nil, storeError(ctx, "stats.pending", err)
	}
	if stats.FlaggedTrue, err = s.posts.Count(ctx, models.PostFilter{AdminFlag: models.FlagTrue}); err != nil {
		return nil, storeError(ctx, "stats.flagged_true", err)
	}
	if stats.FlaggedFalse, err = s.posts.Count(ctx, models.PostFilter{AdminFlag: models.FlagFalse}); err != nil {
		return nil, storeError(ctx, "stats.flagged_false", err)
	}
	return &stats, nil
}

// Users lists users matching query with their vote tallies.
func (s *ModerationService) Users(ctx context.Context, query string) ([]models.UserWithVotes, error) {
	users, err := s.users.SearchWithVoteCounts(ctx, query)
	if err != nil {
		return nil, storeError(ctx, "moderation.users", err)
	}
	return users, nil
}

// UserChartStats splits accounts by ban state and by age of active accounts.
func (s *ModerationService) UserChartStats(ctx context.Context) (*models.UserChartStats, error) {
	since := s.now().UTC().Add(-NewUserWindow)
	stats, err := s.users.ChartStats(ctx, since)
	if err != nil {
		return nil, storeError(ctx, "moderation.chart", err)
	}
	return stats, nil
}

// Logs returns the audit trail newest first.
func (s *ModerationService) Logs(ctx context.Context) ([]models.AdminLog, error) {
	logs, err := s.logs.List(ctx)
	if err != nil {
		return nil, storeError(ctx, "moderation.logs", err)
	}
	return logs, nil
}

// audit appends a log entry. The action has already been applied, so a
// failed append is logged rather than surfaced.
func (s *ModerationService) audit(ctx context.Context, adminID string, action models.AdminAction, details string) {
	observability.ModerationActions.WithLabelValues(string(action)).Inc()

	entry := &models.AdminLog{
		ID:        models.NewID(),
		AdminID:   adminID,
		Action:    action,
		Details:   details,
		CreatedAt: s.now().UTC(),
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to append admin log",
			slog.String("action", string(action)),
			slog.String("error", err.Error()),
		)
	}
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) > 20 {
		runes = runes[:20]
	}
	return string(runes) + "..."
}

func moderationDetails(title string, update models.ModerationUpdate) string {
	var applied []string
	if update.Status != "" {
		applied = append(applied, "status="+update.Status)
	}
	if update.AdminFlag != "" {
		applied = append(applied, "flag="+update.AdminFlag)
	}
	if update.AdminReason != nil {
		applied = append(applied, fmt.Sprintf("reason=%q", *update.AdminReason))
	}
	return fmt.Sprintf("Admin updated post %q (%s)", truncateTitle(title), strings.Join(applied, ", "))
}
