package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"petcare/internal/domain"
)

type BookingRepo struct{ db *sqlx.DB }

func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingSummary is a booking with the plan's display name.
type BookingSummary struct {
	domain.Booking
	PlanName string `db:"plan_name"`
}

const bookingCols = `id, user_id, service_plan_id, pet_name, animal_type, booking_date, status, payment_completed, created_at`

func (r *BookingRepo) Create(ctx context.Context, b domain.Booking) error {
	_, err := r.db.NamedExecContext(ctx, `
	  INSERT INTO bookings(`+bookingCols+`)
	  VALUES(:id, :user_id, :service_plan_id, :pet_name, :animal_type, :booking_date, :status, :payment_completed, :created_at)
	`, b)
	return err
}

func (r *BookingRepo) Get(ctx context.Context, id string) (domain.Booking, error) {
	var b domain.Booking
	if err := r.db.GetContext(ctx, &b, `SELECT `+bookingCols+` FROM bookings WHERE id = ?`, id); err != nil {
		return domain.Booking{}, notFound(err, "booking "+id)
	}
	return b, nil
}

const bookingSummarySQL = `
	  SELECT b.id, b.user_id, b.service_plan_id, b.pet_name, b.animal_type, b.booking_date,
	         b.status, b.payment_completed, b.created_at, p.name AS plan_name
	  FROM bookings b
	  JOIN service_plans p ON p.id = b.service_plan_id
`

func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]BookingSummary, error) {
	out := []BookingSummary{}
	err := r.db.SelectContext(ctx, &out, bookingSummarySQL+`
	  WHERE b.user_id = ?
	  ORDER BY b.created_at DESC, b.rowid DESC
	`, userID)
	return out, err
}

func (r *BookingRepo) ListLatest(ctx context.Context, limit int) ([]BookingSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []BookingSummary{}
	err := r.db.SelectContext(ctx, &out, bookingSummarySQL+`
	  ORDER BY b.created_at DESC, b.rowid DESC
	  LIMIT ?
	`, limit)
	return out, err
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	return casStatus(ctx, r.db, "bookings", id, string(from), string(to))
}
