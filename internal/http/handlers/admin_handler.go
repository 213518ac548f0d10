package handlers

import (
	"github.com/gofiber/fiber/v2"

	"growlokal/internal/domain"
	applog "growlokal/internal/log"
	"growlokal/internal/repos"
)

type AdminHandler struct {
	Orders *repos.OrderRepo
	Users  *repos.UserRepo
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.Orders.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": ords})
}

// POST /admin/orders/:id/status
// Fulfilment only moves forward; cancel is allowed from any non-terminal state.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	next := domain.OrderStatus(c.FormValue("status"))
	if id == "" || next == "" {
		return c.Status(400).SendString("missing id or status")
	}
	o, err := h.Orders.Get(id)
	if err != nil {
		return c.Status(404).SendString("order not found")
	}
	if !domain.CanAdvanceOrder(o.Status, next) {
		applog.Security(c, "admin.orders.badtransition", map[string]any{
			"order_id": o.OrderID, "from": string(o.Status), "to": string(next),
		})
		return c.Status(400).SendString("invalid status transition")
	}
	if err := h.Orders.UpdateStatus(o.ID, next); err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": o.OrderID})
		return c.Status(400).SendString("could not update status")
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": o.OrderID, "status": string(next)})
	return c.Redirect("/admin/orders")
}

// UsersPage lists users (excluding admins).
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	var users []struct {
		ID    string `db:"id"`
		Email string `db:"email"`
		Name  string `db:"name"`
		Role  string `db:"role"`
	}
	if err := h.Users.DB.Select(&users, `SELECT id,email,name,role FROM users WHERE role != 'ADMIN' ORDER BY email`); err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load users"})
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}
