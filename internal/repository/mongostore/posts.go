package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"unfake/internal/models"
	"unfake/internal/observability"
	"unfake/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type postRepository struct {
	s *Store
}

func (r *postRepository) col() *mongo.Collection {
	return r.s.col(ColPosts)
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", ColPosts)()

	// $addToSet and $pull need real arrays, never null
	post.ComputeTally()
	if _, err := r.col().InsertOne(ctx, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	post, err := findOne[models.Post](ctx, r.col(), bson.D{{Key: "_id", Value: id}}, repository.ErrPostNotFound)
	if err != nil {
		return nil, err
	}
	posts := []models.Post{*post}
	if err := r.hydrate(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.col().CountDocuments(ctx, bson.D{{Key: "_id", Value: id}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check post: %w", err)
	}
	return n > 0, nil
}

func postFilter(filter models.PostFilter) bson.D {
	doc := bson.D{}
	if filter.Status != "" {
		doc = append(doc, bson.E{Key: "status", Value: filter.Status})
	}
	if filter.AdminFlag != "" {
		doc = append(doc, bson.E{Key: "adminFlag", Value: filter.AdminFlag})
	}
	if filter.Query != "" {
		re := containsRegex(filter.Query)
		doc = append(doc, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: re}},
			bson.D{{Key: "description", Value: re}},
		}})
	}
	return doc
}

func (r *postRepository) List(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	defer observability.TrackQuery("find", ColPosts)()

	posts, err := findMany[models.Post](ctx, r.col(), postFilter(filter), newestFirst())
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if err := r.hydrate(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, filter models.PostFilter) (int64, error) {
	return r.col().CountDocuments(ctx, postFilter(filter))
}

// voteUpdate builds the single conditional update for a vote: it only matches
// when the voter is not already in the target set, adds them there and pulls
// them from the opposite set.
func voteUpdate(postID, userID string, value bool, now time.Time) (filter, update bson.D) {
	target, opposite := "trueVotes", "falseVotes"
	if !value {
		target, opposite = opposite, target
	}
	filter = bson.D{
		{Key: "_id", Value: postID},
		{Key: target, Value: bson.D{{Key: "$ne", Value: userID}}},
	}
	update = bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: target, Value: userID}}},
		{Key: "$pull", Value: bson.D{{Key: opposite, Value: userID}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: now}}},
	}
	return filter, update
}

func (r *postRepository) ApplyVote(ctx context.Context, postID, userID string, value bool) (bool, error) {
	defer observability.TrackQuery("update", ColPosts)()
	ctx, span := observability.StartStoreSpan(ctx, "mongodb", "update", ColPosts)
	defer span.End()

	filter, update := voteUpdate(postID, userID, value, time.Now().UTC())
	res, err := r.col().UpdateOne(ctx, filter, update)
	if err != nil {
		span.SetError(err)
		return false, fmt.Errorf("apply vote: %w", err)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	// no match: either the post is gone or the vote is already recorded
	exists, err := r.Exists(ctx, postID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, repository.ErrPostNotFound
	}
	return false, nil
}

func moderationSet(update models.ModerationUpdate, now time.Time) bson.D {
	set := bson.D{{Key: "updatedAt", Value: now}}
	if update.Status != "" {
		set = append(set, bson.E{Key: "status", Value: update.Status})
	}
	if update.AdminFlag != "" {
		set = append(set, bson.E{Key: "adminFlag", Value: update.AdminFlag})
	}
	if update.AdminReason != nil {
		set = append(set, bson.E{Key: "adminReason", Value: *update.AdminReason})
	}
	return set
}

func (r *postRepository) Moderate(ctx context.Context, id string, update models.ModerationUpdate) (*models.Post, error) {
	defer observability.TrackQuery("update", ColPosts)()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err := r.col().FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: moderationSet(update, time.Now().UTC())}},
		opts,
	).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrPostNotFound
		}
		return nil, fmt.Errorf("moderate post: %w", err)
	}

	posts := []models.Post{post}
	if err := r.hydrate(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (r *postRepository) Delete(ctx context.Context, id string) (*models.Post, error) {
	defer observability.TrackQuery("delete", ColPosts)()

	var post models.Post
	if err := r.col().FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrPostNotFound
		}
		return nil, fmt.Errorf("delete post: %w", err)
	}

	posts := []models.Post{post}
	if err := r.hydrate(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (r *postRepository) hydrate(ctx context.Context, posts []models.Post) error {
	authorIDs := make([]string, 0, len(posts))
	for i := range posts {
		authorIDs = append(authorIDs, posts[i].SubmittedByID)
	}
	authors, err := r.s.userRefs(ctx, uniqueStrings(authorIDs))
	if err != nil {
		return fmt.Errorf("load authors: %w", err)
	}
	for i := range posts {
		posts[i].SubmittedBy = authors[posts[i].SubmittedByID]
		posts[i].ComputeTally()
	}
	return nil
}
