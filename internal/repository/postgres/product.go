package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tindahan/pos-backend/internal/entity"
	"github.com/tindahan/pos-backend/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new ProductRepository backed by Postgres.
func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindAll(ctx context.Context, categoryID string) ([]entity.Product, error) {
	query := "SELECT id, name, description, price, image_url, category_id, stock FROM products"
	args := []any{}
	if categoryID != "" {
		query += " WHERE category_id = $1"
		args = append(args, categoryID)
	}
	query += " ORDER BY name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.CategoryID, &p.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, description, price, image_url, category_id, stock FROM products WHERE id = $1",
		id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.CategoryID, &p.Stock)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product %s: %w", id, err)
	}
	return &p, nil
}

func (r *productRepository) UpdateStock(ctx context.Context, id string, newStock int) error {
	res, err := r.db.ExecContext(ctx, "UPDATE products SET stock = $1 WHERE id = $2", newStock, id)
	if err != nil {
		return fmt.Errorf("failed to update stock for %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DecrementStock relies on a conditional UPDATE so that two terminals racing
// on the same product cannot both drive stock below zero: the row is only
// touched when at least the requested quantity is still available.
func (r *productRepository) DecrementStock(ctx context.Context, id string, quantity int) (int, error) {
	var remaining int
	err := r.db.QueryRowContext(ctx,
		"UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1 RETURNING stock",
		quantity, id,
	).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		// No row matched: either the product is gone or stock < quantity.
		var exists bool
		if err := r.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)", id).Scan(&exists); err != nil {
			return 0, fmt.Errorf("failed to check product %s: %w", id, err)
		}
		if !exists {
			return 0, repository.ErrNotFound
		}
		return 0, repository.ErrStockConflict
	}
	if err != nil {
		return 0, fmt.Errorf("failed to decrement stock for %s: %w", id, err)
	}
	return remaining, nil
}

func (r *productRepository) Seed(ctx context.Context, products []entity.Product) error {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil // already seeded
	}

	for _, p := range products {
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO products (id, name, description, price, image_url, category_id, stock) VALUES ($1, $2, $3, $4, $5, $6, $7)",
			p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.CategoryID, p.Stock,
		)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.ID, err)
		}
	}
	return nil
}
