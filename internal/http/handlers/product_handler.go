package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "growlokal/internal/log"
	"growlokal/internal/services"
	"growlokal/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// Marketplace renders the storefront home: one shelf per category, fetched
// concurrently.
func (h *ProductHandler) Marketplace(c *fiber.Ctx) error {
	sections, err := h.Catalog.MarketplaceSections(12)
	if err != nil {
		applog.Error(c, "marketplace.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the marketplace"})
	}
	return render(c, "marketplace", fiber.Map{"Sections": sections})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil || !p.Active {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "This item is no longer available"})
	}
	return render(c, "product", fiber.Map{"P": p})
}

// Get handles GET /api/products/:id. Soft-deleted products read as gone.
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil || !p.Active {
		return jsonError(c, fiber.StatusNotFound, "Product not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": p})
}

type productUpdateReq struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	ArtistName  *string  `json:"artistName"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Image       *string  `json:"image"`
}

// Update handles PUT /api/products/:id (admin).
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "Product not found")
	}

	var req productUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.ArtistName != nil {
		p.ArtistName = *req.ArtistName
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return jsonError(c, fiber.StatusBadRequest, "price must not be negative")
		}
		p.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return jsonError(c, fiber.StatusBadRequest, "stock must not be negative")
		}
		p.Stock = *req.Stock
	}
	if req.Image != nil {
		p.ImageURL = *req.Image
	}
	if p.Name == "" {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}

	if err := h.Catalog.Prods.Update(p); err != nil {
		applog.Error(c, "product.update.fail", err, map[string]any{"product": id})
		return jsonError(c, fiber.StatusInternalServerError, "Could not update product")
	}
	applog.Audit(c, "product.update", map[string]any{"product": id})
	return c.JSON(fiber.Map{"success": true, "data": p})
}

// Delete handles DELETE /api/products/:id (admin): soft delete via the
// active flag so order history keeps resolving.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	if _, err := h.Catalog.GetProduct(id); err != nil {
		return jsonError(c, fiber.StatusNotFound, "Product not found")
	}
	if err := h.Catalog.Prods.SoftDelete(id); err != nil {
		applog.Error(c, "product.delete.fail", err, map[string]any{"product": id})
		return jsonError(c, fiber.StatusInternalServerError, "Could not delete product")
	}
	applog.Audit(c, "product.delete", map[string]any{"product": id})
	return c.JSON(fiber.Map{"success": true, "message": "Product deactivated"})
}
