package handlers

import (
	"errors"

	domainErrors "qrisgate/internal/errors"
	"qrisgate/internal/services/payment"
	"qrisgate/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type StatusHandler struct {
	paymentService payment.Service
}

func NewStatusHandler(paymentSvc payment.Service) *StatusHandler {
	return &StatusHandler{
		paymentService: paymentSvc,
	}
}

// Check serves the buyer's short poll while the QR is on screen. It
// reports paid/expired/waiting and, as a side effect, cancels an expired
// pending payment and releases its reserved stock.
func (h *StatusHandler) Check(c *fiber.Ctx) error {
	orderID, err := parseOrderID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid order id")
	}

	result, err := h.paymentService.Reconcile(c.Context(), orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrOrderNotFound) {
			return response.NotFound(c, "Order not found")
		}
		return response.ServerError(c, err.Error())
	}

	return c.JSON(result)
}
