package services

import (
	"context"

	"github.com/shopspring/decimal"

	"petcare/internal/domain"
	"petcare/internal/repos"
)

// Storage the services depend on. *repos.XRepo satisfy these; tests may
// substitute their own.

type AnimalStore interface {
	Get(ctx context.Context, id string) (domain.AdoptableAnimal, error)
	ListByStatus(ctx context.Context, status domain.AnimalStatus) ([]domain.AdoptableAnimal, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.AnimalStatus) error
}

type ProductStore interface {
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context, category domain.ProductCategory) ([]domain.Product, error)
	SetPrice(ctx context.Context, id string, price decimal.Decimal) error
}

type PlanStore interface {
	Get(ctx context.Context, id string) (domain.ServicePlan, error)
	ListByPrice(ctx context.Context) ([]domain.ServicePlan, error)
}

type StockStore interface {
	Stock(ctx context.Context, productID string) (int, error)
	SetStock(ctx context.Context, productID string, qty int) (repos.InventoryRow, error)
}

type RescueStore interface {
	Create(ctx context.Context, rr domain.RescueRequest) error
	Get(ctx context.Context, id string) (domain.RescueRequest, error)
	ListByUser(ctx context.Context, userID string) ([]domain.RescueRequest, error)
	ListLatest(ctx context.Context, limit int) ([]domain.RescueRequest, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.RescueStatus) error
}

type AdoptionStore interface {
	Create(ctx context.Context, a domain.AdoptionRequest) error
	Get(ctx context.Context, id string) (domain.AdoptionRequest, error)
	ListByUser(ctx context.Context, userID string) ([]repos.AdoptionSummary, error)
	ListLatest(ctx context.Context, limit int) ([]repos.AdoptionSummary, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.AdoptionStatus) error
	Approve(ctx context.Context, requestID string) error
}

type BookingStore interface {
	Create(ctx context.Context, b domain.Booking) error
	Get(ctx context.Context, id string) (domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]repos.BookingSummary, error)
	ListLatest(ctx context.Context, limit int) ([]repos.BookingSummary, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error
}

// OrderStore.Place is the atomic check-and-decrement plus order insert.
type OrderStore interface {
	Place(ctx context.Context, o domain.Order) (domain.Order, error)
	Get(ctx context.Context, id string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]repos.OrderSummary, error)
	ListLatest(ctx context.Context, limit int) ([]repos.OrderSummary, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error
}

type UserStore interface {
	CreateWithProfile(ctx context.Context, u domain.User, p domain.Profile) error
	ByUsername(ctx context.Context, username string) (*domain.User, error)
	Profile(ctx context.Context, userID string) (domain.Profile, error)
	List(ctx context.Context) ([]domain.User, error)
	BindSession(ctx context.Context, sid, userID string) error
	SessionUser(ctx context.Context, sid string) (*domain.User, error)
	UnbindSession(ctx context.Context, sid string) error
	DeleteUserCascade(ctx context.Context, userID string) error
}

// Dispatcher hands a message to the notifier without waiting for delivery.
type Dispatcher interface {
	Dispatch(to, subject, body string)
}
