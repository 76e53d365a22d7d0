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

type userRepository struct {
	s *Store
}

func (r *userRepository) col() *mongo.Collection {
	return r.s.col(ColUsers)
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("insert", ColUsers)()

	if _, err := r.col().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateUser
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, r.col(), bson.D{{Key: "_id", Value: id}}, repository.ErrUserNotFound)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return findOne[models.User](ctx, r.col(), bson.D{{Key: "username", Value: username}}, repository.ErrUserNotFound)
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "username", Value: username}},
		bson.D{{Key: "email", Value: email}},
	}}}
	n, err := r.col().CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check user uniqueness: %w", err)
	}
	return n > 0, nil
}

func (r *userRepository) UpdateStatus(ctx context.Context, id string, status models.UserStatus) (*models.User, error) {
	return r.set(ctx, id, bson.D{{Key: "status", Value: status}})
}

func (r *userRepository) UpdateRole(ctx context.Context, id string, role models.Role) (*models.User, error) {
	return r.set(ctx, id, bson.D{{Key: "role", Value: role}})
}

func (r *userRepository) set(ctx context.Context, id string, fields bson.D) (*models.User, error) {
	defer observability.TrackQuery("update", ColUsers)()

	fields = append(fields, bson.E{Key: "updatedAt", Value: time.Now().UTC()})
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.col().FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: fields}}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	return findMany[models.User](ctx, r.col(), bson.D{{Key: "role", Value: role}}, opts)
}

func userSearchFilter(query string) bson.D {
	if query == "" {
		return bson.D{}
	}
	re := containsRegex(query)
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "username", Value: re}},
		bson.D{{Key: "email", Value: re}},
	}}}
}

// votePipeline counts, per user in ids, how many posts hold them in field.
func votePipeline(field string, ids []string) mongo.Pipeline {
	inIDs := bson.D{{Key: field, Value: bson.D{{Key: "$in", Value: ids}}}}
	return mongo.Pipeline{
		{{Key: "$match", Value: inIDs}},
		{{Key: "$unwind", Value: "$" + field}},
		{{Key: "$match", Value: inIDs}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}

type voteCount struct {
	UserID string `bson:"_id"`
	Count  int64  `bson:"count"`
}

func (r *userRepository) countVotes(ctx context.Context, field string, ids []string) (map[string]int64, error) {
	cursor, err := r.s.col(ColPosts).Aggregate(ctx, votePipeline(field, ids))
	if err != nil {
		return nil, err
	}
	var rows []voteCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.UserID] = row.Count
	}
	return out, nil
}

func (r *userRepository) SearchWithVoteCounts(ctx context.Context, query string) ([]models.UserWithVotes, error) {
	defer observability.TrackQuery("aggregate", ColUsers)()

	users, err := findMany[models.User](ctx, r.col(), userSearchFilter(query), newestFirst())
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
	trueCounts, err := r.countVotes(ctx, "trueVotes", ids)
	if err != nil {
		return nil, fmt.Errorf("tally true votes: %w", err)
	}
	falseCounts, err := r.countVotes(ctx, "falseVotes", ids)
	if err != nil {
		return nil, fmt.Errorf("tally false votes: %w", err)
	}

	for _, u := range users {
		out = append(out, models.UserWithVotes{
			ID:              u.ID,
			Username:        u.Username,
			Email:           u.Email,
			Role:            u.Role,
			Status:          u.Status,
			CreatedAt:       u.CreatedAt,
			TrueVotesCount:  trueCounts[u.ID],
			FalseVotesCount: falseCounts[u.ID],
		})
	}
	return out, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	return r.col().CountDocuments(ctx, bson.D{})
}

func (r *userRepository) ChartStats(ctx context.Context, since time.Time) (*models.UserChartStats, error) {
	var stats models.UserChartStats
	counts := []struct {
		dest   *int64
		filter bson.D
	}{
		{&stats.TempBanned, bson.D{{Key: "status", Value: models.StatusTempBanned}}},
		{&stats.PermBanned, bson.D{{Key: "status", Value: models.StatusPermBanned}}},
		{&stats.NewActive, bson.D{{Key: "status", Value: models.StatusActive}, {Key: "createdAt", Value: bson.D{{Key: "$gte", Value: since}}}}},
		{&stats.OldActive, bson.D{{Key: "status", Value: models.StatusActive}, {Key: "createdAt", Value: bson.D{{Key: "$lt", Value: since}}}}},
	}
	for _, c := range counts {
		n, err := r.col().CountDocuments(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("user chart stats: %w", err)
		}
		*c.dest = n
	}
	return &stats, nil
}
