package seed

import (
	"context"
	"fmt"
	"log/slog"

	"unfake/internal/middleware"
	"unfake/internal/models"
	"unfake/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is shared by every seeded account.
const DefaultPassword = "password123"

// Options control how much data a Seeder writes.
type Options struct {
	Users int
	Posts int
	// MaxVotersPerPost caps the voters drawn for each post.
	MaxVotersPerPost int
	// ApprovePercent is the share of posts moved to approved.
	ApprovePercent int
	// FlagPercent is the share of approved posts given a true or false flag.
	FlagPercent int
	MaxDays     int
	Seed        int64
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// DefaultOptions returns the settings used by the seed command.
func DefaultOptions() Options {
	return Options{
		Users:            25,
		Posts:            60,
		MaxVotersPerPost: 10,
		ApprovePercent:   70,
		FlagPercent:      40,
		MaxDays:          30,
	}
}

// Summary reports what a run created.
type Summary struct {
	Users    int
	Posts    int
	Approved int
	Votes    int
}

// Seeder writes demo data through the repositories.
type Seeder struct {
	stores  *repository.Stores
	opts    Options
	factory *Factory
}

// NewSeeder returns a Seeder bound to stores.
func NewSeeder(stores *repository.Stores, opts Options) *Seeder {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Seeder{stores: stores, opts: opts, factory: NewFactory(opts.Seed, opts.MaxDays)}
}

// Run creates users, posts, votes and moderation outcomes.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	var sum Summary

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, s.opts.Users)
	for i := range s.opts.Users {
		u := s.factory.BuildUser(i+1, string(hash))
		if err := s.stores.Users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("create user %s: %w", u.Username, err)
		}
		users = append(users, u)
	}
	sum.Users = len(users)
	if len(users) == 0 {
		return &sum, nil
	}

	for i := range s.opts.Posts {
		author := users[i%len(users)]
		post := s.factory.BuildPost(author.ID)
		if err := s.stores.Posts.Create(ctx, post); err != nil {
			return nil, fmt.Errorf("create post: %w", err)
		}
		sum.Posts++

		if s.factory.Chance(s.opts.ApprovePercent) {
			update := models.ModerationUpdate{Status: string(models.PostApproved)}
			if s.factory.Chance(s.opts.FlagPercent) {
				update.AdminFlag = string(models.FlagFalse)
				if s.factory.Verdict() {
					update.AdminFlag = string(models.FlagTrue)
				}
			}
			if _, err := s.stores.Posts.Moderate(ctx, post.ID, update); err != nil {
				return nil, fmt.Errorf("approve post: %w", err)
			}
			sum.Approved++
		}

		voters := s.factory.Pick(users, s.factory.faker.Number(0, s.opts.MaxVotersPerPost))
		for _, voter := range voters {
			changed, err := s.stores.Posts.ApplyVote(ctx, post.ID, voter.ID, s.factory.Verdict())
			if err != nil {
				return nil, fmt.Errorf("vote: %w", err)
			}
			if changed {
				sum.Votes++
			}
		}
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		slog.Int("users", sum.Users),
		slog.Int("posts", sum.Posts),
		slog.Int("approved", sum.Approved),
		slog.Int("votes", sum.Votes),
	)
	return &sum, nil
}
