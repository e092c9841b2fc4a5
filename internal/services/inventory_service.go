package services

import (
	"context"

	"petcare/internal/domain"
)

// LowStockThreshold is the quantity below which a product shows as LOW_STOCK.
const LowStockThreshold = 5

type InventoryService struct {
	Inv StockStore
}

func NewInventoryService(inv StockStore) *InventoryService {
	return &InventoryService{Inv: inv}
}

// CheckAvailability converts stock to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) CheckAvailability(ctx context.Context, productID string) (domain.Availability, error) {
	qty, err := s.Inv.Stock(ctx, productID)
	if err != nil {
		return domain.Availability{}, err
	}

	status := "OUT_OF_STOCK"
	switch {
	case qty >= LowStockThreshold:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: qty}, nil
}

// SetStock is the staff override for a product's stock level.
func (s *InventoryService) SetStock(ctx context.Context, productID string, qty int) (int, error) {
	row, err := s.Inv.SetStock(ctx, productID, qty)
	if err != nil {
		return 0, err
	}
	return row.Stock, nil
}
