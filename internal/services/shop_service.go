package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"petcare/internal/domain"
)

type ShopService struct {
	Products ProductStore
	Orders   OrderStore
	now      func() time.Time
}

func NewShopService(products ProductStore, orders OrderStore) *ShopService {
	return &ShopService{Products: products, Orders: orders, now: time.Now}
}

func (s *ShopService) Product(ctx context.Context, id string) (domain.Product, error) {
	return s.Products.Get(ctx, id)
}

// Purchase buys one unit of the product for u. The order is completed
// immediately and carries the price at the time of purchase. Concurrent
// buyers of the last unit get exactly one success; the rest see ErrOutOfStock.
func (s *ShopService) Purchase(ctx context.Context, u *domain.User, productID string) (domain.Order, error) {
	return s.Orders.Place(ctx, domain.Order{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		ProductID: productID,
		Quantity:  1,
		Status:    domain.OrderCompleted,
		CreatedAt: domain.Stamp(s.now()),
	})
}
