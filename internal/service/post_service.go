package service

import (
	"context"
	"strings"
	"time"

	"unfake/internal/cache"
	"unfake/internal/models"
	"unfake/internal/observability"
	"unfake/internal/repository"
	"unfake/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// Client-facing messages of post operations.
const (
	MsgMissingPostFields = "Title, source, and description are required."
	MsgInvalidVoteType   = "Invalid vote type."
)

// CreatePostInput is the payload of a post submission.
type CreatePostInput struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	Description string `json:"description"`
}

// PostService serves the public feed, submissions and votes.
type PostService struct {
	posts repository.PostRepository
	cache *cache.Cache
}

// NewPostService returns a new PostService.
func NewPostService(posts repository.PostRepository, c *cache.Cache) *PostService {
	return &PostService{posts: posts, cache: c}
}

// ListApproved returns approved posts newest first.
func (s *PostService) ListApproved(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.cache.Aside(ctx, "feed", cache.ApprovedFeedKey, &posts, cache.ApprovedFeedTTL, func() error {
		var err error
		posts, err = s.posts.List(ctx, models.PostFilter{Status: models.PostApproved})
		return err
	})
	if err != nil {
		return nil, storeError(ctx, "posts.list", err)
	}
	return posts, nil
}

// SearchApproved matches query against title and description of approved posts.
func (s *PostService) SearchApproved(ctx context.Context, query string) ([]models.Post, error) {
	posts, err := s.posts.List(ctx, models.PostFilter{Status: models.PostApproved, Query: query})
	if err != nil {
		return nil, storeError(ctx, "posts.search", err)
	}
	return posts, nil
}

// Create stores a pending post authored by userID.
func (s *PostService) Create(ctx context.Context, userID string, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	source := strings.TrimSpace(in.Source)
	description := strings.TrimSpace(in.Description)

	if title == "" || source == "" || description == "" {
		return nil, models.NewValidationError(MsgMissingPostFields)
	}
	if err := validation.ValidateSourceURL(source); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:            models.NewID(),
		Title:         title,
		Source:        source,
		Description:   description,
		SubmittedByID: userID,
		Status:        models.PostPending,
		AdminFlag:     models.FlagUnverified,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, storeError(ctx, "posts.create", err)
	}

	created, err := s.posts.GetByID(ctx, post.ID)
	if err != nil {
		return nil, storeError(ctx, "posts.reload", err)
	}
	return created, nil
}

// Vote records userID's verdict on postID and returns the updated post.
// A repeated vote in the same direction leaves the post unchanged.
func (s *PostService) Vote(ctx context.Context, postID, userID, voteType string) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "PostService", "Vote",
		attribute.String("post.id", postID),
		attribute.String("vote.type", voteType),
	)
	defer span.End()

	exists, err := s.posts.Exists(ctx, postID)
	if err != nil {
		span.SetError(err)
		return nil, storeError(ctx, "posts.exists", err)
	}
	if !exists {
		return nil, repository.ErrPostNotFound
	}

	value, ok := models.ParseVoteDirection(voteType)
	if !ok {
		return nil, models.NewValidationError(MsgInvalidVoteType)
	}

	changed, err := s.posts.ApplyVote(ctx, postID, userID, value)
	if err != nil {
		span.SetError(err)
		return nil, storeError(ctx, "posts.vote", err)
	}
	if changed {
		observability.VotesTotal.WithLabelValues(voteType).Inc()
		s.cache.InvalidateFeed(ctx)
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, storeError(ctx, "posts.reload", err)
	}
	return post, nil
}
