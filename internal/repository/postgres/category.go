package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tindahan/pos-backend/internal/entity"
	"github.com/tindahan/pos-backend/internal/repository"
)

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new CategoryRepository backed by Postgres.
func NewCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindAll(ctx context.Context) ([]entity.Category, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Seed(ctx context.Context, categories []entity.Category) error {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, c := range categories {
		if _, err := r.db.ExecContext(ctx, "INSERT INTO categories (id, name) VALUES ($1, $2)", c.ID, c.Name); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.ID, err)
		}
	}
	return nil
}
