package handlers

import (
	"errors"
	"strconv"

	domainErrors "qrisgate/internal/errors"
	"qrisgate/internal/services/payment"
	"qrisgate/internal/utils/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	paymentService payment.Service
	validate       *validator.Validate
}

func NewPaymentHandler(paymentSvc payment.Service) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentSvc,
		validate:       validator.New(),
	}
}

// CreatePayment opens a QRIS payment for a checkout submission and
// returns the QR payload the storefront renders to the buyer.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	var req payment.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	if err := h.validate.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	order, err := h.paymentService.CreatePayment(c.Context(), req)
	if err != nil {
		return h.paymentError(c, err)
	}

	return response.Success(c, "Payment created", order)
}

// RetryPayment re-runs the inquiry for an order whose previous attempt
// failed or expired before a QR was issued.
func (h *PaymentHandler) RetryPayment(c *fiber.Ctx) error {
	orderID, err := parseOrderID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid order id")
	}

	order, err := h.paymentService.RetryPayment(c.Context(), orderID)
	if err != nil {
		return h.paymentError(c, err)
	}

	return response.Success(c, "Payment created", order)
}

// GetPayment returns the gateway order with its payment record and
// audit notes.
func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	orderID, err := parseOrderID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid order id")
	}

	order, err := h.paymentService.GetOrder(c.Context(), orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrOrderNotFound) {
			return response.NotFound(c, "Order not found")
		}
		return response.ServerError(c, err.Error())
	}

	return response.Success(c, "Order found", order)
}

// paymentError maps inquiry failures onto buyer-facing responses. A
// processor rejection carries Duitku's own message; a transport failure
// is retryable and says so.
func (h *PaymentHandler) paymentError(c *fiber.Ctx, err error) error {
	var procErr *domainErrors.ProcessorError
	if errors.As(err, &procErr) {
		return response.BadRequest(c, "Payment error: "+procErr.Error())
	}

	var transportErr *domainErrors.TransportError
	if errors.As(err, &transportErr) {
		return response.Error(c, fiber.StatusBadGateway, "Payment service unavailable, please try again")
	}

	if errors.Is(err, domainErrors.ErrOrderNotFound) {
		return response.NotFound(c, "Order not found")
	}
	if errors.Is(err, domainErrors.ErrStateConflict) {
		return response.BadRequest(c, "Order no longer accepts payment")
	}
	return response.ServerError(c, err.Error())
}

func parseOrderID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid order id")
	}
	return uint(id), nil
}
