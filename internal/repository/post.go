package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"unfake/internal/models"
	"unfake/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()

	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	posts := []models.Post{post}
	if err := hydratePosts(ctx, r.db, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check post: %w", err)
	}
	return count > 0, nil
}

func (r *postRepository) filtered(ctx context.Context, filter models.PostFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.AdminFlag != "" {
		q = q.Where("admin_flag = ?", filter.AdminFlag)
	}
	if filter.Query != "" {
		cond, args := containsCondition(r.db, filter.Query, "title", "description")
		q = q.Where(cond, args...)
	}
	return q
}

func (r *postRepository) List(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	posts := []models.Post{}
	if err := r.filtered(ctx, filter).Order("created_at DESC").Order("id DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if err := hydratePosts(ctx, r.db, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, filter models.PostFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// ApplyVote upserts the (post, user) row. The conflict branch only fires when
// the stored direction differs, so repeating a vote writes nothing.
func (r *postRepository) ApplyVote(ctx context.Context, postID, userID string, value bool) (bool, error) {
	defer observability.TrackQuery("upsert", "post_votes")()
	ctx, span := observability.StartStoreSpan(ctx, r.db.Dialector.Name(), "upsert", "post_votes")
	defer span.End()

	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrPostNotFound
		}

		now := time.Now().UTC()
		vote := models.PostVote{PostID: postID, UserID: userID, Value: value, CreatedAt: now, UpdatedAt: now}
		res := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"value":      value,
				"updated_at": now,
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Neq{Column: clause.Column{Table: "post_votes", Name: "value"}, Value: value},
			}},
		}).Create(&vote)
		if res.Error != nil {
			return res.Error
		}
		changed = res.RowsAffected > 0
		if changed {
			return tx.Model(&models.Post{}).Where("id = ?", postID).Update("updated_at", now).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return false, err
		}
		span.SetError(err)
		return false, fmt.Errorf("apply vote: %w", err)
	}
	return changed, nil
}

func (r *postRepository) Moderate(ctx context.Context, id string, update models.ModerationUpdate) (*models.Post, error) {
	defer observability.TrackQuery("update", "posts")()

	fields := map[string]any{"updated_at": time.Now().UTC()}
	if update.Status != "" {
		fields["status"] = update.Status
	}
	if update.AdminFlag != "" {
		fields["admin_flag"] = update.AdminFlag
	}
	if update.AdminReason != nil {
		fields["admin_reason"] = *update.AdminReason
	}

	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("moderate post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrPostNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes the post and its votes, returning the post as it was.
func (r *postRepository) Delete(ctx context.Context, id string) (*models.Post, error) {
	defer observability.TrackQuery("delete", "posts")()

	post, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostVote{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("delete post: %w", err)
	}
	return post, nil
}

// hydratePosts fills vote sets, author references and the tally in place.
func hydratePosts(ctx context.Context, db *gorm.DB, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	authorIDs := make([]string, 0, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		authorIDs = append(authorIDs, posts[i].SubmittedByID)
	}

	var votes []models.PostVote
	if err := db.WithContext(ctx).Where("post_id IN ?", ids).Order("created_at ASC").Order("user_id ASC").Find(&votes).Error; err != nil {
		return fmt.Errorf("load votes: %w", err)
	}
	trueVotes := make(map[string][]string)
	falseVotes := make(map[string][]string)
	for _, v := range votes {
		if v.Value {
			trueVotes[v.PostID] = append(trueVotes[v.PostID], v.UserID)
		} else {
			falseVotes[v.PostID] = append(falseVotes[v.PostID], v.UserID)
		}
	}

	authors, err := usernamesByID(ctx, db, uniqueStrings(authorIDs))
	if err != nil {
		return fmt.Errorf("load authors: %w", err)
	}

	for i := range posts {
		p := &posts[i]
		p.TrueVotes = trueVotes[p.ID]
		p.FalseVotes = falseVotes[p.ID]
		p.SubmittedBy = authors[p.SubmittedByID]
		p.ComputeTally()
	}
	return nil
}
