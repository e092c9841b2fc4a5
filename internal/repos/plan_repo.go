package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"petcare/internal/domain"
)

type PlanRepo struct{ db *sqlx.DB }

func NewPlanRepo(db *sqlx.DB) *PlanRepo { return &PlanRepo{db: db} }

const planCols = `id, name, plan_type, duration_hours, description, price, features, created_at`

func (r *PlanRepo) Create(ctx context.Context, p domain.ServicePlan) error {
	_, err := r.db.NamedExecContext(ctx, `
	  INSERT INTO service_plans(`+planCols+`)
	  VALUES(:id, :name, :plan_type, :duration_hours, :description, :price, :features, :created_at)
	`, p)
	return err
}

func (r *PlanRepo) Get(ctx context.Context, id string) (domain.ServicePlan, error) {
	var p domain.ServicePlan
	if err := r.db.GetContext(ctx, &p, `SELECT `+planCols+` FROM service_plans WHERE id = ?`, id); err != nil {
		return domain.ServicePlan{}, notFound(err, "service plan "+id)
	}
	return p, nil
}

// ListByPrice returns all plans, cheapest first.
func (r *PlanRepo) ListByPrice(ctx context.Context) ([]domain.ServicePlan, error) {
	out := []domain.ServicePlan{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+planCols+`
	  FROM service_plans
	  ORDER BY CAST(price AS REAL) ASC, created_at ASC
	`)
	return out, err
}
