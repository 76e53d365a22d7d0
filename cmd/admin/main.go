// Package main provides admin management utilities for UNFAKE.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"unfake/internal/bootstrap"
	"unfake/internal/config"
	"unfake/internal/models"
	"unfake/internal/repository"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	stores, err := bootstrap.OpenStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to store: %v", err)
	}
	defer stores.Backend.Close(ctx)

	switch command := os.Args[1]; command {
	case "promote", "demote":
		if len(os.Args) < 3 {
			fmt.Printf("Usage: admin %s <username>\n", command)
			os.Exit(1)
		}
		role := models.RoleAdmin
		if command == "demote" {
			role = models.RoleUser
		}
		if err := setRole(ctx, stores.Users, os.Args[2], role); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	case "list-admins":
		if err := listAdmins(ctx, stores.Users); err != nil {
			log.Fatalf("Failed to fetch admins: %v", err)
		}
	default:
		fmt.Printf("Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  admin promote <username>   - Promote user to admin")
	fmt.Println("  admin demote <username>    - Demote admin to user")
	fmt.Println("  admin list-admins          - List all admins")
}

func setRole(ctx context.Context, users repository.UserRepository, username string, role models.Role) error {
	user, err := users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("user %q not found", username)
	}
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if user.Role == role {
		fmt.Printf("User %s already has role %s\n", user.Username, role)
		return nil
	}
	if _, err := users.UpdateRole(ctx, user.ID, role); err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	fmt.Printf("Set role of %s (ID: %s) to %s\n", user.Username, user.ID, role)
	return nil
}

func listAdmins(ctx context.Context, users repository.UserRepository) error {
	admins, err := users.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		fmt.Println("No admins found in the system")
		return nil
	}

	fmt.Printf("Found %d admin(s):\n", len(admins))
	for _, a := range admins {
		fmt.Printf("  - %s <%s> (ID: %s, status: %s)\n", a.Username, a.Email, a.ID, a.Status)
	}
	return nil
}
