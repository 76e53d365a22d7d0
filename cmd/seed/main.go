// Command main fills the configured store with demo users, posts and votes.
package main

import (
	"context"
	"flag"
	"log"

	"unfake/internal/bootstrap"
	"unfake/internal/config"
	"unfake/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.Users, "Number of users to create")
	numPosts := flag.Int("posts", defaults.Posts, "Number of posts to create")
	maxVoters := flag.Int("voters", defaults.MaxVotersPerPost, "Maximum voters per post")
	approve := flag.Int("approve", defaults.ApprovePercent, "Percent of posts to approve")
	seedValue := flag.Int64("seed", 0, "Random seed (0 picks one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	ctx := context.Background()
	stores, err := bootstrap.OpenStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to store: %v", err)
	}
	defer stores.Backend.Close(ctx)

	opts := defaults
	opts.Users = *numUsers
	opts.Posts = *numPosts
	opts.MaxVotersPerPost = *maxVoters
	opts.ApprovePercent = *approve
	opts.Seed = *seedValue

	log.Printf("Seeding %d users and %d posts into %s", opts.Users, opts.Posts, stores.Backend.Name())
	sum, err := seed.NewSeeder(stores, opts).Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Created %d users, %d posts (%d approved), %d votes", sum.Users, sum.Posts, sum.Approved, sum.Votes)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
