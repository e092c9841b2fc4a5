package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"petcare/internal/domain"
	"petcare/internal/validate"
)

type BookingInput struct {
	PetName     string
	AnimalType  string
	BookingDate string
}

type BookingService struct {
	Plans    PlanStore
	Bookings BookingStore
	now      func() time.Time
}

func NewBookingService(plans PlanStore, bookings BookingStore) *BookingService {
	return &BookingService{Plans: plans, Bookings: bookings, now: time.Now}
}

func (s *BookingService) Plan(ctx context.Context, id string) (domain.ServicePlan, error) {
	return s.Plans.Get(ctx, id)
}

// Book creates a booking for the plan. There is no payment step: every
// booking made here is confirmed and marked paid.
func (s *BookingService) Book(ctx context.Context, u *domain.User, planID string, in BookingInput) (domain.Booking, error) {
	petName, ok := validate.Text(in.PetName, 100)
	if !ok {
		return domain.Booking{}, domain.Invalid("pet_name", "enter your pet's name")
	}
	animalType, ok := validate.AnimalType(in.AnimalType)
	if !ok {
		return domain.Booking{}, domain.Invalid("animal_type", "choose an animal type")
	}
	date, ok := validate.Date(in.BookingDate)
	if !ok {
		return domain.Booking{}, domain.Invalid("booking_date", "use YYYY-MM-DD")
	}

	plan, err := s.Plans.Get(ctx, planID)
	if err != nil {
		return domain.Booking{}, err
	}
	b := domain.Booking{
		ID:               uuid.NewString(),
		UserID:           u.ID,
		PlanID:           plan.ID,
		PetName:          petName,
		AnimalType:       animalType,
		BookingDate:      date,
		Status:           domain.BookingConfirmed,
		PaymentCompleted: true,
		CreatedAt:        domain.Stamp(s.now()),
	}
	if err := s.Bookings.Create(ctx, b); err != nil {
		return domain.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return b, nil
}
