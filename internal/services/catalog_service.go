package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"petcare/internal/domain"
)

type CatalogService struct {
	Animals  AnimalStore
	Products ProductStore
	Plans    PlanStore
}

func NewCatalogService(animals AnimalStore, products ProductStore, plans PlanStore) *CatalogService {
	return &CatalogService{Animals: animals, Products: products, Plans: plans}
}

// ListAvailableAnimals lists adoptable animals, newest first.
func (s *CatalogService) ListAvailableAnimals(ctx context.Context) ([]domain.AdoptableAnimal, error) {
	return s.Animals.ListByStatus(ctx, domain.AnimalAvailable)
}

// ListProducts lists products newest first. An empty category means all.
func (s *CatalogService) ListProducts(ctx context.Context, category domain.ProductCategory) ([]domain.Product, error) {
	return s.Products.List(ctx, category)
}

// ListPlans lists service plans cheapest first.
func (s *CatalogService) ListPlans(ctx context.Context) ([]domain.ServicePlan, error) {
	return s.Plans.ListByPrice(ctx)
}

// SetPrice changes a product's list price. Existing orders keep the price they were placed at.
func (s *CatalogService) SetPrice(ctx context.Context, productID, raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || price.IsNegative() {
		return decimal.Zero, domain.Invalid("price", "enter a non-negative amount")
	}
	price = price.Round(2)
	if err := s.Products.SetPrice(ctx, productID, price); err != nil {
		return decimal.Zero, err
	}
	return price, nil
}
