package repos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"petcare/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `id, name, category, description, price, image, stock, created_at`

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) error {
	_, err := r.db.NamedExecContext(ctx, `
	  INSERT INTO products(`+productCols+`)
	  VALUES(:id, :name, :category, :description, :price, :image, :stock, :created_at)
	`, p)
	return err
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	if err := r.db.GetContext(ctx, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id); err != nil {
		return domain.Product{}, notFound(err, "product "+id)
	}
	return p, nil
}

// List returns products newest first, optionally restricted to one category.
func (r *ProductRepo) List(ctx context.Context, category domain.ProductCategory) ([]domain.Product, error) {
	where := `1 = 1`
	args := []any{}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, string(category))
	}
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY created_at DESC, rowid DESC
	`, args...)
	return out, err
}

// SetPrice changes the list price. Orders already placed keep their snapshot.
func (r *ProductRepo) SetPrice(ctx context.Context, id string, price decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET price = ? WHERE id = ?`, price, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(sql.ErrNoRows, "product "+id)
	}
	return nil
}
