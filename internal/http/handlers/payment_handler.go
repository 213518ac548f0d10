package handlers

import (
	"github.com/gofiber/fiber/v2"

	"growlokal/internal/domain"
	applog "growlokal/internal/log"
	"growlokal/internal/paymongo"
	"growlokal/internal/services"
	"growlokal/internal/validate"
)

type PaymentHandler struct {
	Payment *services.PaymentService
	Order   *services.OrderService
}

// Page renders the card-collection page. Card data never reaches this
// server: the page tokenizes directly against the gateway with the
// publishable key.
func (h *PaymentHandler) Page(c *fiber.Ctx) error {
	ref, ok := validate.ID(c.Params("orderId"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	o, err := h.Order.Get(ref)
	if err != nil {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	if c.Cookies("sid") != o.SessionID {
		applog.Security(c, "access.denied.payment", map[string]any{"order_id": ref})
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	return render(c, "payment", fiber.Map{"Order": o})
}

func (h *PaymentHandler) Success(c *fiber.Ctx) error {
	return render(c, "payment_result", fiber.Map{"OK": true, "OrderID": c.Query("orderId")})
}

func (h *PaymentHandler) Failed(c *fiber.Ctx) error {
	return render(c, "payment_result", fiber.Map{"OK": false, "OrderID": c.Query("orderId")})
}

type createIntentReq struct {
	OrderID       string `json:"orderId"`
	PaymentMethod string `json:"paymentMethod"`
}

// CreateIntent handles POST /api/payment/create-intent.
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	var req createIntentReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	ref, ok := validate.ID(req.OrderID)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Order ID is required")
	}
	if !domain.ValidPaymentMethod(req.PaymentMethod) {
		return jsonError(c, fiber.StatusBadRequest, "Unsupported payment method")
	}

	res, err := h.Payment.CreateIntent(c.Context(), ref, domain.PaymentMethod(req.PaymentMethod))
	if err == services.ErrAlreadyPaid {
		return jsonError(c, fiber.StatusBadRequest, "Order is already paid")
	}
	if err != nil {
		if gw, ok := err.(*paymongo.Error); ok {
			applog.Error(c, "payment.intent.gateway", err, map[string]any{"order_id": ref})
			return jsonError(c, fiber.StatusBadGateway, gw.Detail)
		}
		applog.Error(c, "payment.intent.fail", err, map[string]any{"order_id": ref})
		return jsonError(c, fiber.StatusNotFound, "Order not found")
	}

	applog.Audit(c, "payment.intent.create", map[string]any{
		"order_id": ref,
		"method":   string(res.Method),
	})
	return c.JSON(fiber.Map{"success": true, "data": res})
}

type confirmReq struct {
	OrderID         string `json:"orderId"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// Confirm handles POST /api/payment/confirm: reconcile the gateway-reported
// intent status with the order's stored payment status.
func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	var req confirmReq
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.OrderID == "" || req.PaymentIntentID == "" {
		return jsonError(c, fiber.StatusBadRequest, "Order ID and Payment Intent ID are required")
	}

	res, err := h.Payment.Confirm(c.Context(), req.OrderID, req.PaymentIntentID)
	if err != nil {
		if gw, ok := err.(*paymongo.Error); ok {
			applog.Error(c, "payment.confirm.gateway", err, map[string]any{"order_id": req.OrderID})
			return jsonError(c, fiber.StatusBadGateway, gw.Detail)
		}
		applog.Error(c, "payment.confirm.fail", err, map[string]any{"order_id": req.OrderID})
		return jsonError(c, fiber.StatusNotFound, "Order not found")
	}

	o := res.Order
	switch o.PayStatus {
	case domain.PaymentPaid:
		applog.Audit(c, "payment.confirm.paid", map[string]any{"order_id": o.OrderID, "intent": req.PaymentIntentID})
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Payment confirmed successfully",
			"data": fiber.Map{
				"orderId":       o.OrderID,
				"paymentStatus": o.PayStatus,
				"orderStatus":   o.Status,
			},
		})
	case domain.PaymentFailed:
		applog.Audit(c, "payment.confirm.failed", map[string]any{"order_id": o.OrderID, "intent_status": string(res.IntentStatus)})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Payment failed",
			"data": fiber.Map{
				"status":           res.IntentStatus,
				"lastPaymentError": res.GatewayError,
			},
		})
	default:
		// Still in flight; the caller polls again later.
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Payment is still " + string(res.IntentStatus),
			"data":    fiber.Map{"status": res.IntentStatus},
		})
	}
}
