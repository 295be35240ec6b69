package payment

import (
	"context"

	"qrisgate/internal/models"
)

// Service owns the order payment lifecycle: opening payments against the
// processor, applying verified callback results, and reconciling state
// when the buyer polls.
type Service interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*models.Order, error)
	RetryPayment(ctx context.Context, orderID uint) (*models.Order, error)
	GetOrder(ctx context.Context, orderID uint) (*models.Order, error)
	ApplyCallback(ctx context.Context, order *models.Order, payload *models.CallbackPayload) error
	Reconcile(ctx context.Context, orderID uint) (PollResult, error)
}

// CacheOperator is the slice of the cache service the payment flow uses.
type CacheOperator interface {
	CacheOrderStatus(ctx context.Context, orderID uint, status string) error
	GetOrderStatus(ctx context.Context, orderID uint) (string, error)
	RecordCallback(ctx context.Context, orderID uint, payload interface{}) error
}

// CreatePaymentRequest carries one checkout submission from the
// storefront.
type CreatePaymentRequest struct {
	CustomerName string      `json:"customer_name" validate:"required"`
	Email        string      `json:"email" validate:"required,email"`
	Phone        string      `json:"phone"`
	ShippingFee  int64       `json:"shipping_fee" validate:"gte=0"`
	Items        []ItemInput `json:"items" validate:"required,min=1,dive"`
}

// ItemInput is one order line from the storefront.
type ItemInput struct {
	Name     string `json:"name" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Price    int64  `json:"price" validate:"required,gt=0"`
}

// PollResult is the buyer-facing poll outcome.
type PollResult struct {
	Paid    bool   `json:"paid"`
	Expired bool   `json:"expired"`
	Message string `json:"message"`
}
