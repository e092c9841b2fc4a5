package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"petcare/internal/domain"
	"petcare/internal/validate"
)

type AdoptionService struct {
	Animals   AnimalStore
	Adoptions AdoptionStore
	now       func() time.Time
}

func NewAdoptionService(animals AnimalStore, adoptions AdoptionStore) *AdoptionService {
	return &AdoptionService{Animals: animals, Adoptions: adoptions, now: time.Now}
}

// Available returns the animal if it can currently receive adoption requests.
func (s *AdoptionService) Available(ctx context.Context, animalID string) (domain.AdoptableAnimal, error) {
	a, err := s.Animals.Get(ctx, animalID)
	if err != nil {
		return domain.AdoptableAnimal{}, err
	}
	if a.Status != domain.AnimalAvailable {
		return domain.AdoptableAnimal{}, fmt.Errorf("animal %s is %s: %w", a.ID, a.Status, domain.ErrNotAvailable)
	}
	return a, nil
}

// Request records a pending adoption request. The animal's status is left
// for staff review; repeated requests for the same animal are accepted.
func (s *AdoptionService) Request(ctx context.Context, u *domain.User, animalID, message string) (domain.AdoptionRequest, error) {
	a, err := s.Available(ctx, animalID)
	if err != nil {
		return domain.AdoptionRequest{}, err
	}
	msg, ok := validate.Text(message, 2000)
	if !ok {
		return domain.AdoptionRequest{}, domain.Invalid("message", "tell us about yourself and your home")
	}
	req := domain.AdoptionRequest{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		AnimalID:  a.ID,
		Message:   msg,
		Status:    domain.AdoptionPending,
		CreatedAt: domain.Stamp(s.now()),
	}
	if err := s.Adoptions.Create(ctx, req); err != nil {
		return domain.AdoptionRequest{}, fmt.Errorf("create adoption request: %w", err)
	}
	return req, nil
}
