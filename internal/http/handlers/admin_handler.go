package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"petcare/internal/domain"
	applog "petcare/internal/log"
	"petcare/internal/services"
)

type AdminHandler struct {
	Review  *services.ReviewService
	Inv     *services.InventoryService
	Catalog *services.CatalogService
	Auth    *services.AuthService
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	q, err := h.Review.Queue(c.UserContext(), 100)
	if err != nil {
		applog.Error(c, "admin.queue.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Could not load the review queue")
	}
	products, err := h.Catalog.ListProducts(c.UserContext(), "")
	if err != nil {
		return err
	}
	return render(c, "admin_dashboard", fiber.Map{"Queue": q, "Products": products})
}

// statusUpdate adapts one of the ReviewService setters to a POST /admin/<kind>/:id/status route.
func statusUpdate[S ~string](kind string, set func(c *fiber.Ctx, id string, to S) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		to := S(strings.TrimSpace(c.FormValue("status")))
		if id == "" || to == "" {
			return message(c, fiber.StatusBadRequest, "missing id or status")
		}
		if err := set(c, id, to); err != nil {
			applog.Security(c, "admin."+kind+".status.fail", map[string]any{"id": id, "status": string(to), "err": err.Error()})
			return reject(c, "admin."+kind+".status", err)
		}
		applog.Audit(c, "admin."+kind+".status", map[string]any{"id": id, "status": string(to)})
		return c.Redirect("/admin")
	}
}

func (h *AdminHandler) RescueStatus() fiber.Handler {
	return statusUpdate("rescue", func(c *fiber.Ctx, id string, to domain.RescueStatus) error {
		return h.Review.SetRescueStatus(c.UserContext(), id, to)
	})
}

func (h *AdminHandler) AdoptionStatus() fiber.Handler {
	return statusUpdate("adoption", func(c *fiber.Ctx, id string, to domain.AdoptionStatus) error {
		return h.Review.SetAdoptionStatus(c.UserContext(), id, to)
	})
}

func (h *AdminHandler) BookingStatus() fiber.Handler {
	return statusUpdate("booking", func(c *fiber.Ctx, id string, to domain.BookingStatus) error {
		return h.Review.SetBookingStatus(c.UserContext(), id, to)
	})
}

func (h *AdminHandler) OrderStatus() fiber.Handler {
	return statusUpdate("order", func(c *fiber.Ctx, id string, to domain.OrderStatus) error {
		return h.Review.SetOrderStatus(c.UserContext(), id, to)
	})
}

func (h *AdminHandler) AnimalStatus() fiber.Handler {
	return statusUpdate("animal", func(c *fiber.Ctx, id string, to domain.AnimalStatus) error {
		return h.Review.SetAnimalStatus(c.UserContext(), id, to)
	})
}

// POST /admin/products/:id/stock
func (h *AdminHandler) UpdateStock(c *fiber.Ctx) error {
	pid := c.Params("id")
	qty, err := strconv.Atoi(strings.TrimSpace(c.FormValue("stock")))
	if err != nil {
		return message(c, fiber.StatusBadRequest, "invalid input")
	}
	got, err := h.Inv.SetStock(c.UserContext(), pid, qty)
	if err != nil {
		applog.Error(c, "admin.inventory.save.fail", err, map[string]any{"product": pid, "qty": qty})
		return reject(c, "admin.inventory.save", err)
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{"product": pid, "qty": got})
	return c.Redirect("/admin")
}

// POST /admin/products/:id/price
func (h *AdminHandler) UpdatePrice(c *fiber.Ctx) error {
	pid := c.Params("id")
	price, err := h.Catalog.SetPrice(c.UserContext(), pid, c.FormValue("price"))
	if err != nil {
		applog.Error(c, "admin.price.save.fail", err, map[string]any{"product": pid})
		return reject(c, "admin.price.save", err)
	}
	applog.Audit(c, "admin.price.save", map[string]any{"product": pid, "price": price.StringFixed(2)})
	return c.Redirect("/admin")
}

// GET /admin/users
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	users, err := h.Auth.ListUsers(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return message(c, fiber.StatusInternalServerError, "Could not load users")
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}

// DeleteUser deletes a user together with everything they own.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if me := currentUser(c); me != nil && me.ID == id {
		return message(c, fiber.StatusBadRequest, "You cannot delete your own account here")
	}
	if err := h.Auth.DeleteUser(c.UserContext(), id); err != nil {
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return reject(c, "admin.users.delete", err)
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.Redirect("/admin/users")
}
