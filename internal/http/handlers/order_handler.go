package handlers

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"growlokal/internal/domain"
	applog "growlokal/internal/log"
	"growlokal/internal/services"
	"growlokal/internal/validate"
)

type OrderHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
	Auth  *services.AuthService
}

// Checkout renders the checkout page with the current cart.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	cv, err := h.Cart.View(ensureSID(c))
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	fee := services.ShippingFee(cv.Subtotal)
	return render(c, "checkout", fiber.Map{
		"Cart":        cv,
		"ShippingFee": fee,
		"Total":       services.Round2(cv.Subtotal + fee),
	})
}

type placeOrderReq struct {
	ShippingAddress struct {
		FullName   string `json:"fullName"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		Address    string `json:"address"`
		City       string `json:"city"`
		Province   string `json:"province"`
		PostalCode string `json:"postalCode"`
	} `json:"shippingAddress"`
	PaymentMethod string  `json:"paymentMethod"`
	Subtotal      float64 `json:"subtotal"`
	ShippingFee   float64 `json:"shippingFee"`
	Total         float64 `json:"total"`
}

// Place handles POST /api/orders: creates the order from the session's cart
// snapshot and answers with the human-readable order id.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req placeOrderReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	o, err := h.Order.Place(sid, services.PlaceOrderInput{
		Shipping: validate.ShippingForm{
			FullName:   req.ShippingAddress.FullName,
			Email:      req.ShippingAddress.Email,
			Phone:      req.ShippingAddress.Phone,
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			Province:   req.ShippingAddress.Province,
			PostalCode: req.ShippingAddress.PostalCode,
		},
		PaymentMethod: req.PaymentMethod,
		Subtotal:      req.Subtotal,
		ShippingFee:   req.ShippingFee,
		Total:         req.Total,
	})
	if err != nil {
		if fieldErrs, ok := err.(services.FieldErrors); ok {
			applog.Security(c, "order.place.fail", map[string]any{"reason": "validation"})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Please correct the highlighted fields",
				"errors":  fieldErrs,
			})
		}
		applog.Security(c, "order.place.fail", map[string]any{"sid": sid, "error": err.Error()})
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	applog.Audit(c, "order.place", map[string]any{
		"order_id":     o.OrderID,
		"total":        o.Total,
		"client_total": req.Total,
		"method":       string(o.Method),
	})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"orderId": o.OrderID},
	})
}

// View renders an order detail page; only the owning session/user or an
// admin may see it.
func (h *OrderHandler) View(c *fiber.Ctx) error {
	ref, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	o, err := h.Order.Get(ref)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	sid := c.Cookies("sid")
	var role string
	if h.Auth != nil && sid != "" {
		if u, err := h.Auth.CurrentUser(sid); err == nil && u != nil {
			role = u.Role
		}
	}
	if sid != o.SessionID && role != "ADMIN" {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": ref})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}

	return render(c, "order", fiber.Map{"Order": o})
}

// History lists orders for the current logged-in user (page).
func (h *OrderHandler) History(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Orders not available"})
	}
	orders, err := h.Order.Orders.ListByUser(u.ID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	if len(orders) == 0 {
		if sid := c.Cookies("sid"); sid != "" {
			if sessOrders, err := h.Order.Orders.ListBySession(sid); err == nil {
				orders = sessOrders
			}
		}
	}
	return render(c, "order_history", fiber.Map{"Orders": orders})
}

// ListMine handles GET /api/user/orders.
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(*domain.User)
	if u == nil {
		return jsonError(c, fiber.StatusUnauthorized, "Authentication required")
	}
	orders, err := h.Order.Orders.ListByUser(u.ID)
	if err != nil && err != sql.ErrNoRows {
		applog.Error(c, "orders.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not load orders")
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"orders": orders}})
}
