package models

import (
	"time"
)

// Order payment statuses
const (
	OrderStatusUninitiated = "uninitiated"
	OrderStatusPending     = "pending"
	OrderStatusPaid        = "paid"
	OrderStatusFailed      = "failed"
	OrderStatusCancelled   = "cancelled"
)

// Order is the gateway-side payment order. The payment record fields
// (reference, QR payload, expiry) are set once by a successful inquiry;
// callback data is overwritten each time a valid callback is accepted.
type Order struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Status string `gorm:"not null;default:'uninitiated';index" json:"status"`

	// FulfillmentStatus is the store-facing order status a paid order is
	// escalated to (processing by default, completed when configured).
	FulfillmentStatus string `json:"fulfillment_status,omitempty"`

	Amount       int64  `gorm:"not null" json:"amount"`
	ShippingFee  int64  `gorm:"default:0" json:"shipping_fee"`
	CustomerName string `json:"customer_name"`
	Email        string `gorm:"not null" json:"email"`
	Phone        string `json:"phone"`

	Items []OrderItem `json:"items"`
	Notes []OrderNote `json:"notes,omitempty"`

	// StockReserved marks line items held back for this order. It is
	// cleared exactly once when an expired pending order is cancelled.
	StockReserved bool `gorm:"default:true" json:"stock_reserved"`

	// Payment record, populated by a successful inquiry.
	Reference        string `gorm:"index" json:"reference,omitempty"`
	QRPayload        string `json:"qr_payload,omitempty"`
	ExpiresAt        int64  `json:"expires_at,omitempty"`
	AttemptID        string `json:"attempt_id,omitempty"`
	PaidAmount       int64  `json:"paid_amount,omitempty"`
	IssuerCode       string `json:"issuer_code,omitempty"`
	SettlementDate   string `json:"settlement_date,omitempty"`
	PublisherOrderID string `json:"publisher_order_id,omitempty"`
	LastCallbackData JSON   `gorm:"type:jsonb" json:"last_callback_data,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is one purchased line. Price is in whole rupiah.
type OrderItem struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	OrderID  uint   `gorm:"not null;index" json:"order_id"`
	Name     string `gorm:"not null" json:"name"`
	Quantity int    `gorm:"not null" json:"quantity"`
	Price    int64  `gorm:"not null" json:"price"`
}

// OrderNote is an audit entry appended by state transitions.
type OrderNote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Note      string    `gorm:"not null" json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// HasActivePayment reports whether the order already holds a payment
// request that has not expired yet. A second inquiry must not overwrite
// such a record.
func (o *Order) HasActivePayment(now time.Time) bool {
	return o.Reference != "" && now.Unix() <= o.ExpiresAt
}

// PaymentExpired reports whether the stored expiry has passed. Orders
// without a payment record never expire passively.
func (o *Order) PaymentExpired(now time.Time) bool {
	return o.ExpiresAt > 0 && now.Unix() > o.ExpiresAt
}
