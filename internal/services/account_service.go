package services

import (
	"context"
	"errors"

	"petcare/internal/domain"
	"petcare/internal/repos"
)

// Overview is everything a user has submitted, newest first.
type Overview struct {
	Profile   domain.Profile
	Rescues   []domain.RescueRequest
	Adoptions []repos.AdoptionSummary
	Bookings  []repos.BookingSummary
	Orders    []repos.OrderSummary
}

type AccountService struct {
	Users     UserStore
	Rescues   RescueStore
	Adoptions AdoptionStore
	Bookings  BookingStore
	Orders    OrderStore
}

func (s *AccountService) Overview(ctx context.Context, userID string) (Overview, error) {
	var ov Overview
	var err error
	// Seeded or legacy accounts may have no profile.
	if ov.Profile, err = s.Users.Profile(ctx, userID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return Overview{}, err
	}
	if ov.Rescues, err = s.Rescues.ListByUser(ctx, userID); err != nil {
		return Overview{}, err
	}
	if ov.Adoptions, err = s.Adoptions.ListByUser(ctx, userID); err != nil {
		return Overview{}, err
	}
	if ov.Bookings, err = s.Bookings.ListByUser(ctx, userID); err != nil {
		return Overview{}, err
	}
	if ov.Orders, err = s.Orders.ListByUser(ctx, userID); err != nil {
		return Overview{}, err
	}
	return ov, nil
}
