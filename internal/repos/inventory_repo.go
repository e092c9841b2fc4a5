package repos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"petcare/internal/domain"
)

type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// Row used by the staff stock endpoint and its audit log.
type InventoryRow struct {
	ProductID string `db:"id"`
	Name      string `db:"name"`
	Stock     int    `db:"stock"`
}

// Stock returns the current stock of a product.
func (r *InventoryRepo) Stock(ctx context.Context, productID string) (int, error) {
	var qty int
	if err := r.db.GetContext(ctx, &qty, `SELECT stock FROM products WHERE id = ?`, productID); err != nil {
		return 0, notFound(err, "product "+productID)
	}
	return qty, nil
}

// SetStock overwrites the stock of a product and returns the updated row.
func (r *InventoryRepo) SetStock(ctx context.Context, productID string, qty int) (InventoryRow, error) {
	if qty < 0 {
		return InventoryRow{}, domain.Invalid("stock", "must not be negative")
	}
	res, err := r.db.ExecContext(ctx, `UPDATE products SET stock = ? WHERE id = ?`, qty, productID)
	if err != nil {
		return InventoryRow{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return InventoryRow{}, notFound(sql.ErrNoRows, "product "+productID)
	}
	var row InventoryRow
	err = r.db.GetContext(ctx, &row, `SELECT id, name, stock FROM products WHERE id = ?`, productID)
	return row, err
}

// decrementStock atomically subtracts "by" units if enough stock exists.
// The check and the write are one statement, so concurrent callers can never
// drive stock below zero; the loser sees zero rows affected.
func decrementStock(ctx context.Context, ex sqlx.ExecerContext, productID string, by int) error {
	res, err := ex.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - ?
		WHERE id = ? AND stock >= ?
	`, by, productID, by)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrOutOfStock
	}
	return nil
}

func restock(ctx context.Context, ex sqlx.ExecerContext, productID string, by int) error {
	_, err := ex.ExecContext(ctx, `UPDATE products SET stock = stock + ? WHERE id = ?`, by, productID)
	return err
}
