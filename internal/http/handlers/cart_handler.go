package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "growlokal/internal/log"
	"growlokal/internal/services"
	"growlokal/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

// cartJSON always returns the authoritative {items, subtotal}.
func cartJSON(c *fiber.Ctx, cv services.CartView) error {
	return c.JSON(fiber.Map{"success": true, "data": cv})
}

func cartError(c *fiber.Ctx, err error) error {
	switch err {
	case services.ErrOutOfStock:
		return jsonError(c, fiber.StatusBadRequest, "Not enough stock available")
	case services.ErrBadQty:
		return jsonError(c, fiber.StatusBadRequest, "Quantity must be at least 1")
	case services.ErrNotInCart:
		return jsonError(c, fiber.StatusNotFound, "Product not found")
	default:
		applog.Error(c, "cart.error", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "Could not update cart")
	}
}

// Page renders the cart view.
func (h *CartHandler) Page(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return render(c, "cart", fiber.Map{"Cart": cv})
}

// Fetch handles GET /api/cart.
func (h *CartHandler) Fetch(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(sid)
	if err != nil {
		return cartError(c, err)
	}
	return cartJSON(c, cv)
}

type cartMutationReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Add handles POST /api/cart: append or increment, capped at stock.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req cartMutationReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "productId is required")
	}
	cv, err := h.Cart.Add(sid, pid, req.Quantity)
	if err != nil {
		return cartError(c, err)
	}
	applog.Info(c, "cart.add", map[string]any{"product": pid, "qty": req.Quantity})
	return cartJSON(c, cv)
}

// Update handles PUT /api/cart: set an exact quantity.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req cartMutationReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "productId is required")
	}
	cv, err := h.Cart.UpdateQuantity(sid, pid, req.Quantity)
	if err != nil {
		return cartError(c, err)
	}
	return cartJSON(c, cv)
}

// Remove handles DELETE /api/cart: with a productId it removes one line,
// without one it clears the cart.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	pid := c.Query("productId")
	if pid == "" {
		var req cartMutationReq
		_ = c.BodyParser(&req)
		pid = req.ProductID
	}

	if pid == "" {
		cv, err := h.Cart.Clear(sid)
		if err != nil {
			return cartError(c, err)
		}
		applog.Info(c, "cart.clear", nil)
		return cartJSON(c, cv)
	}

	if _, ok := validate.ID(pid); !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid productId")
	}
	cv, err := h.Cart.Remove(sid, pid)
	if err != nil {
		return cartError(c, err)
	}
	return cartJSON(c, cv)
}
