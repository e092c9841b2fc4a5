package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"petcare/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// OrderSummary is an order with the product's display name.
type OrderSummary struct {
	domain.Order
	ProductName string `db:"product_name"`
}

const orderCols = `id, user_id, product_id, quantity, total_price, status, created_at`

// Place runs the purchase as one transaction: look up the product, take the
// units out of stock only if enough remain, then record the order with the
// price as it was at that moment. o must carry ID, UserID, ProductID,
// Quantity, Status and CreatedAt; TotalPrice is filled in here.
func (r *OrderRepo) Place(ctx context.Context, o domain.Order) (domain.Order, error) {
	if o.Quantity < 1 {
		return domain.Order{}, domain.Invalid("quantity", "must be at least 1")
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Order{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var price decimal.Decimal
	if err := tx.GetContext(ctx, &price, `SELECT price FROM products WHERE id = ?`, o.ProductID); err != nil {
		return domain.Order{}, notFound(err, "product "+o.ProductID)
	}
	if err := decrementStock(ctx, tx, o.ProductID, o.Quantity); err != nil {
		return domain.Order{}, fmt.Errorf("product %s: %w", o.ProductID, err)
	}

	o.TotalPrice = price.Mul(decimal.NewFromInt(int64(o.Quantity)))
	if _, err := tx.NamedExecContext(ctx, `
	  INSERT INTO orders(`+orderCols+`)
	  VALUES(:id, :user_id, :product_id, :quantity, :total_price, :status, :created_at)
	`, o); err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var o domain.Order
	if err := r.db.GetContext(ctx, &o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id); err != nil {
		return domain.Order{}, notFound(err, "order "+id)
	}
	return o, nil
}

const orderSummarySQL = `
	  SELECT o.id, o.user_id, o.product_id, o.quantity, o.total_price, o.status, o.created_at,
	         p.name AS product_name
	  FROM orders o
	  JOIN products p ON p.id = o.product_id
`

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]OrderSummary, error) {
	out := []OrderSummary{}
	err := r.db.SelectContext(ctx, &out, orderSummarySQL+`
	  WHERE o.user_id = ?
	  ORDER BY o.created_at DESC, o.rowid DESC
	`, userID)
	return out, err
}

func (r *OrderRepo) ListLatest(ctx context.Context, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []OrderSummary{}
	err := r.db.SelectContext(ctx, &out, orderSummarySQL+`
	  ORDER BY o.created_at DESC, o.rowid DESC
	  LIMIT ?
	`, limit)
	return out, err
}

// UpdateStatus moves an order between statuses. Cancelling returns the
// ordered quantity to stock in the same transaction.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var o domain.Order
	if err := tx.GetContext(ctx, &o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id); err != nil {
		return notFound(err, "order "+id)
	}
	if err := casStatus(ctx, tx, "orders", id, string(from), string(to)); err != nil {
		return err
	}
	if to == domain.OrderCancelled {
		if err := restock(ctx, tx, o.ProductID, o.Quantity); err != nil {
			return fmt.Errorf("restock %s: %w", o.ProductID, err)
		}
	}
	return tx.Commit()
}
