package recipes

import (
	"context"
	"encoding/json"
	"fmt"

	"recipebook/internal/database"
	"recipebook/internal/shoppinglist"
)

// Repository persists the recipe list in Postgres. Persistence is
// replace-all: StoreAll rewrites the table with the current list, FetchAll
// reads it back in insertion order.
type Repository struct {
	db database.Service
}

// NewRepository creates a recipes repository.
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the recipes table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS recipes (
			position    INT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image_path  TEXT NOT NULL DEFAULT '',
			ingredients JSONB NOT NULL DEFAULT '[]'
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure recipes schema: %w", err)
	}
	return nil
}

// FetchAll reads the persisted recipe list.
func (r *Repository) FetchAll(ctx context.Context) ([]Recipe, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, description, image_path, ingredients
		FROM recipes
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var (
			rec  Recipe
			ings []byte
		)
		if err := rows.Scan(&rec.Name, &rec.Description, &rec.ImagePath, &ings); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		if err := json.Unmarshal(ings, &rec.Ingredients); err != nil {
			return nil, fmt.Errorf("failed to decode ingredients: %w", err)
		}
		recipes = append(recipes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipes: %w", err)
	}

	return recipes, nil
}

// StoreAll replaces the persisted list with the given one.
func (r *Repository) StoreAll(ctx context.Context, recipes []Recipe) error {
	if _, err := r.db.Exec(ctx, `TRUNCATE recipes`); err != nil {
		return fmt.Errorf("failed to clear recipes: %w", err)
	}

	for i, rec := range recipes {
		ings := rec.Ingredients
		if ings == nil {
			ings = []shoppinglist.Ingredient{}
		}
		data, err := json.Marshal(ings)
		if err != nil {
			return fmt.Errorf("failed to encode ingredients: %w", err)
		}

		_, err = r.db.Exec(ctx, `
			INSERT INTO recipes (position, name, description, image_path, ingredients)
			VALUES ($1, $2, $3, $4, $5)
		`, i, rec.Name, rec.Description, rec.ImagePath, data)
		if err != nil {
			return fmt.Errorf("failed to store recipe %d: %w", i, err)
		}
	}

	return nil
}
