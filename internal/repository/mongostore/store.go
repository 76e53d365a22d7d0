// Package mongostore implements the repositories on MongoDB.
//
// Documents are encoded through the bson tags on the model structs. Collection
// names and indexes are managed in ensureIndexes.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"unfake/internal/middleware"
	"unfake/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names
const (
	ColUsers     = "users"
	ColPosts     = "posts"
	ColAdminLogs = "adminlogs"
)

// Store holds the MongoDB connection shared by the repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to uri, verifies the connection and ensures indexes.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		middleware.Logger.Warn("mongostore: ensure indexes failed", "error", err)
	}
	middleware.Logger.Info("MongoDB connected successfully", "database", dbName)
	return s, nil
}

// Stores wires the MongoDB repositories over s.
func (s *Store) Stores() *repository.Stores {
	return &repository.Stores{
		Users:   &userRepository{s: s},
		Posts:   &postRepository{s: s},
		Logs:    &adminLogRepository{s: s},
		Backend: s,
	}
}

// Name identifies the backend in health output.
func (s *Store) Name() string {
	return "mongodb"
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{ColUsers, bson.D{{Key: "username", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}, false},

		{ColPosts, bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}, false},
		{ColPosts, bson.D{{Key: "adminFlag", Value: 1}}, false},
		{ColPosts, bson.D{{Key: "trueVotes", Value: 1}}, false},
		{ColPosts, bson.D{{Key: "falseVotes", Value: 1}}, false},

		{ColAdminLogs, bson.D{{Key: "createdAt", Value: -1}}, false},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}
	return nil
}
