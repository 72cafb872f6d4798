package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tindahan/pos-backend/internal/entity"
	"github.com/tindahan/pos-backend/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository backed by Postgres.
func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create writes the order header and its lines in one transaction. The
// order is an append-only ledger entry; nothing here touches product stock.
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, transaction_code, subtotal, grand_total, payment_amount, change,
			payment_method, payment_ref, payment_customer, staff_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		order.ID, order.TransactionCode, order.Subtotal, order.GrandTotal, order.PaymentAmount,
		order.Change, order.PaymentMethod, order.PaymentRef, order.PaymentCustomer,
		order.StaffID, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range order.Lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_lines (order_id, product_id, name, category, quantity, unit_price, line_total)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			order.ID, line.ProductID, line.Name, line.Category, line.Quantity, line.UnitPrice, line.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *orderRepository) FindRecent(ctx context.Context, limit int) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, transaction_code, subtotal, grand_total, payment_amount, change,
			payment_method, payment_ref, payment_customer, staff_id, created_at
		 FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.TransactionCode, &o.Subtotal, &o.GrandTotal, &o.PaymentAmount,
			&o.Change, &o.PaymentMethod, &o.PaymentRef, &o.PaymentCustomer, &o.StaffID, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		lines, err := r.findLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func (r *orderRepository) findLines(ctx context.Context, orderID string) ([]entity.OrderLine, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT product_id, name, category, quantity, unit_price, line_total FROM order_lines WHERE order_id = $1 ORDER BY id",
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Category, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
