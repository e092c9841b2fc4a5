package handlers

import (
	"github.com/gofiber/fiber/v2"

	"petcare/internal/domain"
	applog "petcare/internal/log"
	"petcare/internal/services"
	"petcare/internal/validate"
)

type ShopHandler struct {
	Catalog *services.CatalogService
	Shop    *services.ShopService
}

// List is GET /products with an optional ?category= filter.
func (h *ShopHandler) List(c *fiber.Ctx) error {
	var category domain.ProductCategory
	if raw := c.Query("category"); raw != "" {
		cat, ok := validate.Category(raw)
		if !ok {
			applog.Security(c, "products.category.invalid", map[string]any{"category": raw})
			return message(c, fiber.StatusBadRequest, "Unknown product category")
		}
		category = cat
	}
	products, err := h.Catalog.ListProducts(c.UserContext(), category)
	if err != nil {
		return err
	}
	return render(c, "products", fiber.Map{
		"Products":   products,
		"Categories": domain.ProductCategories,
		"Category":   category,
	})
}

// Confirm is GET /buy/:id. Buying itself is POST only.
func (h *ShopHandler) Confirm(c *fiber.Ctx) error {
	p, err := h.Shop.Product(c.UserContext(), c.Params("id"))
	if err != nil {
		return reject(c, "shop.confirm", err)
	}
	return render(c, "buy", fiber.Map{"Product": p})
}

func (h *ShopHandler) Buy(c *fiber.Ctx) error {
	o, err := h.Shop.Purchase(c.UserContext(), currentUser(c), c.Params("id"))
	if err != nil {
		return reject(c, "shop.purchase", err)
	}
	applog.Audit(c, "shop.purchase", map[string]any{
		"order_id": o.ID, "product_id": o.ProductID, "total": o.TotalPrice.StringFixed(2),
	})
	p, err := h.Shop.Product(c.UserContext(), o.ProductID)
	if err != nil {
		return err
	}
	return render(c, "thank_you", fiber.Map{"Order": o, "Product": p})
}
