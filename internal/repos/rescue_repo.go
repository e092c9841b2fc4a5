package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"petcare/internal/domain"
)

type RescueRepo struct{ db *sqlx.DB }

func NewRescueRepo(db *sqlx.DB) *RescueRepo { return &RescueRepo{db: db} }

const rescueCols = `id, user_id, name, phone_number, date, time, animal_type, description, location, image, status, created_at`

func (r *RescueRepo) Create(ctx context.Context, rr domain.RescueRequest) error {
	_, err := r.db.NamedExecContext(ctx, `
	  INSERT INTO rescue_requests(`+rescueCols+`)
	  VALUES(:id, :user_id, :name, :phone_number, :date, :time, :animal_type, :description, :location, :image, :status, :created_at)
	`, rr)
	return err
}

func (r *RescueRepo) Get(ctx context.Context, id string) (domain.RescueRequest, error) {
	var rr domain.RescueRequest
	if err := r.db.GetContext(ctx, &rr, `SELECT `+rescueCols+` FROM rescue_requests WHERE id = ?`, id); err != nil {
		return domain.RescueRequest{}, notFound(err, "rescue request "+id)
	}
	return rr, nil
}

func (r *RescueRepo) ListByUser(ctx context.Context, userID string) ([]domain.RescueRequest, error) {
	out := []domain.RescueRequest{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+rescueCols+`
	  FROM rescue_requests
	  WHERE user_id = ?
	  ORDER BY created_at DESC, rowid DESC
	`, userID)
	return out, err
}

// ListLatest feeds the staff dashboard.
func (r *RescueRepo) ListLatest(ctx context.Context, limit int) ([]domain.RescueRequest, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.RescueRequest{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+rescueCols+`
	  FROM rescue_requests
	  ORDER BY created_at DESC, rowid DESC
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *RescueRepo) UpdateStatus(ctx context.Context, id string, from, to domain.RescueStatus) error {
	return casStatus(ctx, r.db, "rescue_requests", id, string(from), string(to))
}
