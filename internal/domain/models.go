package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeLayout is the fixed-width UTC layout used for created_at columns so that
// lexical order in the store equals chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// Stamp formats t for a created_at column.
func Stamp(t time.Time) string { return t.UTC().Format(TimeLayout) }

// ---------- Catalog entities ----------

type AdoptableAnimal struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Species     AnimalType      `db:"species"`
	Breed       string          `db:"breed"`
	Age         string          `db:"age"`
	Gender      Gender          `db:"gender"`
	Description string          `db:"description"`
	Image       string          `db:"image"`
	Status      AnimalStatus    `db:"status"`
	AdoptionFee decimal.Decimal `db:"adoption_fee"`
	CreatedAt   string          `db:"created_at"`
}

type Product struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Category    ProductCategory `db:"category"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Image       string          `db:"image"`
	Stock       int             `db:"stock"`
	CreatedAt   string          `db:"created_at"`
}

// ServicePlan is immutable once created; Features is the raw comma separated source.
type ServicePlan struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	PlanType      PlanType        `db:"plan_type"`
	DurationHours int             `db:"duration_hours"`
	Description   string          `db:"description"`
	Price         decimal.Decimal `db:"price"`
	Features      string          `db:"features"`
	CreatedAt     string          `db:"created_at"`
}

// FeatureList exposes Features as an ordered sequence.
func (p ServicePlan) FeatureList() []string { return ParseFeatures(p.Features) }

// ---------- Transaction entities ----------

type RescueRequest struct {
	ID          string       `db:"id"`
	UserID      string       `db:"user_id"`
	Name        string       `db:"name"`
	Phone       string       `db:"phone_number"`
	Date        string       `db:"date"` // YYYY-MM-DD
	Time        string       `db:"time"` // HH:MM
	AnimalType  AnimalType   `db:"animal_type"`
	Description string       `db:"description"`
	Location    string       `db:"location"`
	Image       string       `db:"image"`
	Status      RescueStatus `db:"status"`
	CreatedAt   string       `db:"created_at"`
}

type AdoptionRequest struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	AnimalID  string         `db:"animal_id"`
	Message   string         `db:"message"`
	Status    AdoptionStatus `db:"status"`
	CreatedAt string         `db:"created_at"`
}

type Booking struct {
	ID               string        `db:"id"`
	UserID           string        `db:"user_id"`
	PlanID           string        `db:"service_plan_id"`
	PetName          string        `db:"pet_name"`
	AnimalType       AnimalType    `db:"animal_type"`
	BookingDate      string        `db:"booking_date"` // YYYY-MM-DD
	Status           BookingStatus `db:"status"`
	PaymentCompleted bool          `db:"payment_completed"`
	CreatedAt        string        `db:"created_at"`
}

// Order.TotalPrice is a snapshot of price x quantity taken when the order is placed.
type Order struct {
	ID         string          `db:"id"`
	UserID     string          `db:"user_id"`
	ProductID  string          `db:"product_id"`
	Quantity   int             `db:"quantity"`
	TotalPrice decimal.Decimal `db:"total_price"`
	Status     OrderStatus     `db:"status"`
	CreatedAt  string          `db:"created_at"`
}

// Availability is the public stock view of a product.
type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}
