package services

import (
	"context"
	"fmt"

	"petcare/internal/domain"
	"petcare/internal/repos"
)

// status is implemented by every lifecycle enum in domain.
type status[S any] interface {
	~string
	Valid() bool
	CanTransitionTo(S) bool
}

// advance checks from -> to against the transition table and runs apply
// only for a legal move.
func advance[S status[S]](from, to S, apply func() error) error {
	if !to.Valid() {
		return domain.Invalid("status", fmt.Sprintf("unknown status %q", string(to)))
	}
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%s -> %s: %w", string(from), string(to), domain.ErrIllegalTransition)
	}
	return apply()
}

// ReviewService is the staff side of every workflow: moving requests,
// bookings, orders and animals through their lifecycles.
type ReviewService struct {
	Rescues   RescueStore
	Adoptions AdoptionStore
	Bookings  BookingStore
	Orders    OrderStore
	Animals   AnimalStore
}

func (s *ReviewService) SetRescueStatus(ctx context.Context, id string, to domain.RescueStatus) error {
	rr, err := s.Rescues.Get(ctx, id)
	if err != nil {
		return err
	}
	return advance(rr.Status, to, func() error {
		return s.Rescues.UpdateStatus(ctx, id, rr.Status, to)
	})
}

// SetAdoptionStatus approves or rejects a request. Approval also marks the
// animal adopted, and fails with ErrNotAvailable if another request won.
func (s *ReviewService) SetAdoptionStatus(ctx context.Context, id string, to domain.AdoptionStatus) error {
	a, err := s.Adoptions.Get(ctx, id)
	if err != nil {
		return err
	}
	return advance(a.Status, to, func() error {
		if to == domain.AdoptionApproved {
			return s.Adoptions.Approve(ctx, id)
		}
		return s.Adoptions.UpdateStatus(ctx, id, a.Status, to)
	})
}

func (s *ReviewService) SetBookingStatus(ctx context.Context, id string, to domain.BookingStatus) error {
	b, err := s.Bookings.Get(ctx, id)
	if err != nil {
		return err
	}
	return advance(b.Status, to, func() error {
		return s.Bookings.UpdateStatus(ctx, id, b.Status, to)
	})
}

// SetOrderStatus moves an order; cancelling puts its units back in stock.
func (s *ReviewService) SetOrderStatus(ctx context.Context, id string, to domain.OrderStatus) error {
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return err
	}
	return advance(o.Status, to, func() error {
		return s.Orders.UpdateStatus(ctx, id, o.Status, to)
	})
}

func (s *ReviewService) SetAnimalStatus(ctx context.Context, id string, to domain.AnimalStatus) error {
	a, err := s.Animals.Get(ctx, id)
	if err != nil {
		return err
	}
	return advance(a.Status, to, func() error {
		return s.Animals.UpdateStatus(ctx, id, a.Status, to)
	})
}

// Queue is what the staff dashboard shows.
type Queue struct {
	Rescues   []domain.RescueRequest
	Adoptions []repos.AdoptionSummary
	Bookings  []repos.BookingSummary
	Orders    []repos.OrderSummary
}

func (s *ReviewService) Queue(ctx context.Context, limit int) (Queue, error) {
	var q Queue
	var err error
	if q.Rescues, err = s.Rescues.ListLatest(ctx, limit); err != nil {
		return Queue{}, err
	}
	if q.Adoptions, err = s.Adoptions.ListLatest(ctx, limit); err != nil {
		return Queue{}, err
	}
	if q.Bookings, err = s.Bookings.ListLatest(ctx, limit); err != nil {
		return Queue{}, err
	}
	if q.Orders, err = s.Orders.ListLatest(ctx, limit); err != nil {
		return Queue{}, err
	}
	return q, nil
}
