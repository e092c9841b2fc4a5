package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"petcare/internal/domain"
)

type AnimalRepo struct{ db *sqlx.DB }

func NewAnimalRepo(db *sqlx.DB) *AnimalRepo { return &AnimalRepo{db: db} }

const animalCols = `id, name, species, breed, age, gender, description, image, status, adoption_fee, created_at`

func (r *AnimalRepo) Create(ctx context.Context, a domain.AdoptableAnimal) error {
	_, err := r.db.NamedExecContext(ctx, `
	  INSERT INTO animals(`+animalCols+`)
	  VALUES(:id, :name, :species, :breed, :age, :gender, :description, :image, :status, :adoption_fee, :created_at)
	`, a)
	return err
}

func (r *AnimalRepo) Get(ctx context.Context, id string) (domain.AdoptableAnimal, error) {
	var a domain.AdoptableAnimal
	if err := r.db.GetContext(ctx, &a, `SELECT `+animalCols+` FROM animals WHERE id = ?`, id); err != nil {
		return domain.AdoptableAnimal{}, notFound(err, "animal "+id)
	}
	return a, nil
}

// ListByStatus returns animals in the given status, newest first.
func (r *AnimalRepo) ListByStatus(ctx context.Context, status domain.AnimalStatus) ([]domain.AdoptableAnimal, error) {
	out := []domain.AdoptableAnimal{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT `+animalCols+`
	  FROM animals
	  WHERE status = ?
	  ORDER BY created_at DESC, rowid DESC
	`, string(status))
	return out, err
}

func (r *AnimalRepo) UpdateStatus(ctx context.Context, id string, from, to domain.AnimalStatus) error {
	return casStatus(ctx, r.db, "animals", id, string(from), string(to))
}
