package database

import (
	"context"
	"database/sql"
	"fmt"

	"restaurant_pos_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCategories are created when the menu has no categories at all.
var DefaultCategories = []struct{ Name, Description string }{
	{"Starters", "Starters and appetizers"},
	{"Main Courses", "Main dishes of the menu"},
	{"Desserts", "Desserts and sweets"},
	{"Drinks", "Hot and cold drinks"},
	{"Salads", "Fresh and healthy salads"},
}

// Seed creates the bootstrap admin account and the default categories if they
// are missing. It never modifies existing rows.
func Seed(ctx context.Context, db *sql.DB, adminUsername, adminPassword string) error {
	if err := seedAdmin(ctx, db, adminUsername, adminPassword); err != nil {
		return err
	}
	return seedCategories(ctx, db)
}

func seedAdmin(ctx context.Context, db *sql.DB, username, password string) error {
	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists); err != nil {
		return fmt.Errorf("checking admin account: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, full_name, role, active)
		 VALUES ($1, $2, $3, 'admin', TRUE)
		 ON CONFLICT (username) DO NOTHING`,
		username, string(hash), "System Administrator")
	if err != nil {
		return fmt.Errorf("creating admin account: %w", err)
	}
	utils.LogInfo("Default admin account created", map[string]interface{}{"username": username})
	return nil
}

func seedCategories(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range DefaultCategories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (name, description) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			c.Name, c.Description); err != nil {
			return fmt.Errorf("creating category %q: %w", c.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit default categories: %w", err)
	}
	utils.LogInfo("Default categories created", map[string]interface{}{"count": len(DefaultCategories)})
	return nil
}
