package repos

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"petcare/internal/domain"
)

type AdoptionRepo struct{ db *sqlx.DB }

func NewAdoptionRepo(db *sqlx.DB) *AdoptionRepo { return &AdoptionRepo{db: db} }

// AdoptionSummary is an adoption request with the animal's display name.
type AdoptionSummary struct {
	domain.AdoptionRequest
	AnimalName string `db:"animal_name"`
}

const adoptionCols = `id, user_id, animal_id, message, status, created_at`

func (r *AdoptionRepo) Create(ctx context.Context, a domain.AdoptionRequest) error {
	_, err := r.db.NamedExecContext(ctx, `
	  INSERT INTO adoption_requests(`+adoptionCols+`)
	  VALUES(:id, :user_id, :animal_id, :message, :status, :created_at)
	`, a)
	return err
}

func (r *AdoptionRepo) Get(ctx context.Context, id string) (domain.AdoptionRequest, error) {
	var a domain.AdoptionRequest
	if err := r.db.GetContext(ctx, &a, `SELECT `+adoptionCols+` FROM adoption_requests WHERE id = ?`, id); err != nil {
		return domain.AdoptionRequest{}, notFound(err, "adoption request "+id)
	}
	return a, nil
}

const adoptionSummarySQL = `
	  SELECT ar.id, ar.user_id, ar.animal_id, ar.message, ar.status, ar.created_at, a.name AS animal_name
	  FROM adoption_requests ar
	  JOIN animals a ON a.id = ar.animal_id
`

func (r *AdoptionRepo) ListByUser(ctx context.Context, userID string) ([]AdoptionSummary, error) {
	out := []AdoptionSummary{}
	err := r.db.SelectContext(ctx, &out, adoptionSummarySQL+`
	  WHERE ar.user_id = ?
	  ORDER BY ar.created_at DESC, ar.rowid DESC
	`, userID)
	return out, err
}

func (r *AdoptionRepo) ListLatest(ctx context.Context, limit int) ([]AdoptionSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []AdoptionSummary{}
	err := r.db.SelectContext(ctx, &out, adoptionSummarySQL+`
	  ORDER BY ar.created_at DESC, ar.rowid DESC
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *AdoptionRepo) UpdateStatus(ctx context.Context, id string, from, to domain.AdoptionStatus) error {
	return casStatus(ctx, r.db, "adoption_requests", id, string(from), string(to))
}

// Approve moves a pending request to approved and its animal to adopted in
// one transaction. An animal that is already adopted yields ErrNotAvailable,
// so at most one request per animal is ever approved.
func (r *AdoptionRepo) Approve(ctx context.Context, requestID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var animalID string
	if err := tx.GetContext(ctx, &animalID, `SELECT animal_id FROM adoption_requests WHERE id = ?`, requestID); err != nil {
		return notFound(err, "adoption request "+requestID)
	}

	res, err := tx.ExecContext(ctx, `
	  UPDATE animals SET status = ?
	  WHERE id = ? AND status IN (?, ?)
	`, string(domain.AnimalAdopted), animalID, string(domain.AnimalAvailable), string(domain.AnimalPending))
	if err != nil {
		return fmt.Errorf("adopt animal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("animal %s: %w", animalID, domain.ErrNotAvailable)
	}

	if err := casStatus(ctx, tx, "adoption_requests", requestID,
		string(domain.AdoptionPending), string(domain.AdoptionApproved)); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("adoption request %s: %w", requestID, err)
		}
		return err
	}
	return tx.Commit()
}
