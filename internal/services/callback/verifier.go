// Package callback gates inbound Duitku notifications before they reach
// the payment state machine. Each stage short-circuits to its own error
// so the handler can answer 400, 401 or 404 precisely; no stage mutates
// any state.
package callback

import (
	"context"
	"log"
	"reflect"
	"strings"

	"qrisgate/internal/config"
	domainErrors "qrisgate/internal/errors"
	"qrisgate/internal/models"
	"qrisgate/internal/repositories"
	"qrisgate/internal/services/signature"
	"qrisgate/internal/utils"

	"github.com/go-playground/validator/v10"
)

// Verifier validates an inbound callback payload and resolves the order
// it refers to.
type Verifier interface {
	Verify(ctx context.Context, payload *models.CallbackPayload) (*models.Order, error)
}

type verifier struct {
	orders   repositories.OrderRepository
	settings config.Settings
	validate *validator.Validate
}

// NewVerifier creates a callback verifier.
func NewVerifier(orders repositories.OrderRepository, settings config.Settings) Verifier {
	if orders == nil {
		panic("order repository is required")
	}

	v := validator.New()
	// Report missing fields under their wire names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &verifier{
		orders:   orders,
		settings: settings,
		validate: v,
	}
}

// Verify runs the verification pipeline:
//
//  1. field completeness (all 13 fields present and non-empty)
//  2. merchant code match
//  3. order resolution via the configured prefix
//  4. signature verification
//
// The transport method check (POST only) happens at the router. The
// resolved order is returned for the state machine; the payload is
// untrusted until Verify returns nil.
func (v *verifier) Verify(ctx context.Context, payload *models.CallbackPayload) (*models.Order, error) {
	if err := v.validate.Struct(payload); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			missing := make([]string, 0, len(errs))
			for _, fe := range errs {
				missing = append(missing, fe.Field())
			}
			return nil, &domainErrors.ValidationError{Missing: missing}
		}
		return nil, err
	}

	if payload.MerchantCode != v.settings.MerchantCode {
		// Wrong merchant code on a signed endpoint is a spoof attempt
		// until proven otherwise.
		v.logf("callback merchant code mismatch: got %q", payload.MerchantCode)
		return nil, domainErrors.ErrMerchantMismatch
	}

	orderID, err := utils.ParseMerchantOrderID(v.settings.OrderIDPrefix, payload.MerchantOrderID)
	if err != nil {
		v.logf("callback order ref %q cannot be resolved", payload.MerchantOrderID)
		return nil, domainErrors.ErrOrderNotFound
	}

	order, err := v.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !signature.VerifyCallback(payload.Signature, payload.MerchantCode, payload.Amount, payload.MerchantOrderID, v.settings.APIKey) {
		v.logf("callback signature mismatch for order %d", order.ID)
		return nil, domainErrors.ErrInvalidSignature
	}

	return order, nil
}

func (v *verifier) logf(format string, args ...interface{}) {
	if v.settings.LoggingEnabled {
		log.Printf("[callback] "+format, args...)
	}
}
