package service

import (
	"context"
	"testing"

	"unfake/internal/cache"
	"unfake/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_Create(t *testing.T) {
	t.Parallel()

	var stored *models.Post
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, p *models.Post) error {
		stored = p
		return nil
	}
	posts.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
		require.Equal(t, stored.ID, id)
		return stored, nil
	}
	svc := NewPostService(posts, cache.New(nil))

	post, err := svc.Create(context.Background(), "u-1", CreatePostInput{
		Title:       " Moon landing faked ",
		Source:      "https://example.com/moon",
		Description: "A claim.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Moon landing faked", post.Title)
	assert.Equal(t, "u-1", post.SubmittedByID)
	assert.Equal(t, models.PostPending, post.Status)
	assert.Equal(t, models.FlagUnverified, post.AdminFlag)
	assert.NotEmpty(t, post.ID)
}

func TestPostService_CreateValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{name: "missing title", input: CreatePostInput{Source: "https://a.co", Description: "d"}},
		{name: "blank description", input: CreatePostInput{Title: "t", Source: "https://a.co", Description: "   "}},
		{name: "relative source", input: CreatePostInput{Title: "t", Source: "/news/1", Description: "d"}},
		{name: "non http source", input: CreatePostInput{Title: "t", Source: "ftp://a.co/x", Description: "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			posts := noopPostRepo()
			posts.createFn = func(_ context.Context, _ *models.Post) error {
				t.Fatal("create must not be called")
				return nil
			}
			_, err := NewPostService(posts, cache.New(nil)).Create(context.Background(), "u-1", tt.input)
			assertAppError(t, err, models.CodeValidation)
		})
	}
}

func TestPostService_VoteOrderOfChecks(t *testing.T) {
	t.Parallel()

	t.Run("missing post wins over bad vote type", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.existsFn = func(_ context.Context, _ string) (bool, error) { return false, nil }
		_, err := NewPostService(posts, cache.New(nil)).Vote(context.Background(), "p-1", "u-1", "maybe")
		appErr := assertAppError(t, err, models.CodeNotFound)
		assert.Equal(t, "Post not found.", appErr.Message)
	})

	t.Run("bad vote type", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.applyVoteFn = func(_ context.Context, _, _ string, _ bool) (bool, error) {
			t.Fatal("vote must not be applied")
			return false, nil
		}
		_, err := NewPostService(posts, cache.New(nil)).Vote(context.Background(), "p-1", "u-1", "TRUE")
		appErr := assertAppError(t, err, models.CodeValidation)
		assert.Equal(t, MsgInvalidVoteType, appErr.Message)
	})
}

func TestPostService_VoteAppliesDirection(t *testing.T) {
	t.Parallel()

	for voteType, want := range map[string]bool{"true": true, "false": false} {
		t.Run(voteType, func(t *testing.T) {
			t.Parallel()
			var got *bool
			posts := noopPostRepo()
			posts.applyVoteFn = func(_ context.Context, postID, userID string, value bool) (bool, error) {
				assert.Equal(t, "p-1", postID)
				assert.Equal(t, "u-1", userID)
				got = &value
				return true, nil
			}
			post, err := NewPostService(posts, cache.New(nil)).Vote(context.Background(), "p-1", "u-1", voteType)
			require.NoError(t, err)
			assert.Equal(t, "p-1", post.ID)
			require.NotNil(t, got)
			assert.Equal(t, want, *got)
		})
	}
}

func TestPostService_VoteStoreFailure(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.applyVoteFn = func(_ context.Context, _, _ string, _ bool) (bool, error) { return false, errStoreDown }
	_, err := NewPostService(posts, cache.New(nil)).Vote(context.Background(), "p-1", "u-1", "true")
	assertAppError(t, err, models.CodeInternal)
}

func TestPostService_FeedCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	listed := 0
	changed := true
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, f models.PostFilter) ([]models.Post, error) {
		listed++
		assert.Equal(t, models.PostApproved, f.Status)
		return []models.Post{{ID: "p-1", Title: "cached", TrueVotes: []string{}, FalseVotes: []string{}, TruePercentage: 50}}, nil
	}
	posts.applyVoteFn = func(_ context.Context, _, _ string, _ bool) (bool, error) { return changed, nil }
	svc := NewPostService(posts, cache.New(rdb))
	ctx := context.Background()

	for range 2 {
		feed, err := svc.ListApproved(ctx)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, "cached", feed[0].Title)
	}
	assert.Equal(t, 1, listed)

	// a repeated vote changes nothing and keeps the cached feed
	changed = false
	_, err := svc.Vote(ctx, "p-1", "u-1", "true")
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.ApprovedFeedKey))

	changed = true
	_, err = svc.Vote(ctx, "p-1", "u-1", "false")
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.ApprovedFeedKey))

	_, err = svc.ListApproved(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, listed)
}

func TestPostService_SearchApproved(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, f models.PostFilter) ([]models.Post, error) {
		assert.Equal(t, models.PostFilter{Status: models.PostApproved, Query: "vaccine"}, f)
		return []models.Post{{ID: "p-9"}}, nil
	}
	got, err := NewPostService(posts, cache.New(nil)).SearchApproved(context.Background(), "vaccine")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p-9", got[0].ID)
}
