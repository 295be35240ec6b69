package handlers

import (
	"errors"

	domainErrors "qrisgate/internal/errors"
	"qrisgate/internal/models"
	"qrisgate/internal/services/callback"
	"qrisgate/internal/services/payment"

	"github.com/gofiber/fiber/v2"
)

type CallbackHandler struct {
	verifier       callback.Verifier
	paymentService payment.Service
}

func NewCallbackHandler(verifier callback.Verifier, paymentSvc payment.Service) *CallbackHandler {
	return &CallbackHandler{
		verifier:       verifier,
		paymentService: paymentSvc,
	}
}

// Handle processes one Duitku payment notification. Duitku retries until
// it sees HTTP 200 with the literal body OK, so every accepted delivery
// answers exactly that, including idempotent no-ops. Rejections answer
// 400/401/404 with a short reason per verification stage.
func (h *CallbackHandler) Handle(c *fiber.Ctx) error {
	var payload models.CallbackPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid callback body")
	}

	order, err := h.verifier.Verify(c.Context(), &payload)
	if err != nil {
		return h.rejection(c, err)
	}

	if err := h.paymentService.ApplyCallback(c.Context(), order, &payload); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("callback processing failed")
	}

	return c.SendString("OK")
}

func (h *CallbackHandler) rejection(c *fiber.Ctx, err error) error {
	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).SendString(validationErr.Error())
	}

	switch {
	case errors.Is(err, domainErrors.ErrMerchantMismatch),
		errors.Is(err, domainErrors.ErrInvalidSignature):
		return c.Status(fiber.StatusUnauthorized).SendString(err.Error())
	case errors.Is(err, domainErrors.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).SendString(err.Error())
	default:
		return c.Status(fiber.StatusInternalServerError).SendString("callback verification failed")
	}
}
