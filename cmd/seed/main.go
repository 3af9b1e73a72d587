package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// SeedFile lists users with the items they own.
type SeedFile struct {
	Users []SeedUser `yaml:"users"`
}

type SeedUser struct {
	Name  string     `yaml:"name"`
	Email string     `yaml:"email"`
	Items []SeedItem `yaml:"items"`
}

type SeedItem struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Available   bool   `yaml:"available"`
}

type seedResult struct {
	usersCreated int
	itemsCreated int
	itemsUpdated int
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		seedPath = flag.String("seed", "configs/seed.yaml", "path to seed.yaml")
		dbPath   = flag.String("db", "./data/shareit.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*seedPath)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	var file SeedFile
	if err = yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}
	if len(file.Users) == 0 {
		return fmt.Errorf("no users in yaml")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := seed(ctx, service.NewUserService(db, &logger), service.NewItemService(db, db, db, db, db, &logger), file)
	if err != nil {
		return err
	}

	fmt.Printf("done: users_created=%d items_created=%d items_updated=%d\n", res.usersCreated, res.itemsCreated, res.itemsUpdated)
	return nil
}

// seed is idempotent: users are matched by email, items by name within their owner.
func seed(ctx context.Context, users domain.UserService, items domain.ItemService, file SeedFile) (seedResult, error) {
	var res seedResult

	existing, err := users.ListUsers(ctx)
	if err != nil {
		return res, fmt.Errorf("list users: %w", err)
	}
	byEmail := make(map[string]*models.User, len(existing))
	for _, u := range existing {
		byEmail[strings.ToLower(u.Email)] = u
	}

	for _, su := range file.Users {
		user, ok := byEmail[strings.ToLower(strings.TrimSpace(su.Email))]
		if !ok {
			user, err = users.CreateUser(ctx, su.Name, su.Email)
			if err != nil {
				return res, fmt.Errorf("create user %s: %w", su.Email, err)
			}
			byEmail[strings.ToLower(user.Email)] = user
			res.usersCreated++
		}

		owned, err := items.ListOwnerItems(ctx, user.ID)
		if err != nil {
			return res, fmt.Errorf("list items of %s: %w", su.Email, err)
		}
		byName := make(map[string]int64, len(owned))
		for _, d := range owned {
			byName[d.Name] = d.ID
		}

		for _, si := range su.Items {
			if strings.TrimSpace(si.Name) == "" {
				continue
			}
			available := si.Available
			if id, ok := byName[si.Name]; ok {
				upd := models.ItemUpdate{Description: &si.Description, Available: &available}
				if _, err := items.UpdateItem(ctx, user.ID, id, upd); err != nil {
					return res, fmt.Errorf("update %s: %w", si.Name, err)
				}
				res.itemsUpdated++
				continue
			}
			if _, err := items.CreateItem(ctx, user.ID, si.Name, si.Description, &available, nil); err != nil {
				return res, fmt.Errorf("create %s: %w", si.Name, err)
			}
			res.itemsCreated++
		}
	}
	return res, nil
}
