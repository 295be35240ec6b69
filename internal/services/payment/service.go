// Package payment implements the order payment state machine:
// uninitiated -> pending -> {paid, failed, cancelled}. Transitions out
// of pending are applied at most once through the order repository's
// atomic compare-and-set, so racing callbacks and expiry polls can never
// both win.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"qrisgate/internal/config"
	domainErrors "qrisgate/internal/errors"
	"qrisgate/internal/models"
	"qrisgate/internal/repositories"
	"qrisgate/internal/services/duitku"
	"qrisgate/internal/utils"

	"github.com/google/uuid"
)

type service struct {
	orders   repositories.OrderRepository
	client   duitku.Client
	cache    CacheOperator
	settings config.Settings
	now      func() time.Time
}

// NewService creates the payment service.
func NewService(orders repositories.OrderRepository, client duitku.Client, cache CacheOperator, settings config.Settings) Service {
	if orders == nil {
		panic("order repository is required")
	}
	if client == nil {
		panic("duitku client is required")
	}
	if cache == nil {
		panic("cache is required")
	}

	return &service{
		orders:   orders,
		client:   client,
		cache:    cache,
		settings: settings,
		now:      time.Now,
	}
}

// CreatePayment stores a new gateway order and opens a payment inquiry
// for it. When the inquiry fails the order stays uninitiated with no
// payment record, so checkout can be retried.
func (s *service) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*models.Order, error) {
	var total int64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		total += it.Price * int64(it.Quantity)
		items = append(items, models.OrderItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	total += req.ShippingFee

	order := &models.Order{
		Status:        models.OrderStatusUninitiated,
		Amount:        total,
		ShippingFee:   req.ShippingFee,
		CustomerName:  req.CustomerName,
		Email:         req.Email,
		Phone:         req.Phone,
		Items:         items,
		StockReserved: true,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	return s.requestPayment(ctx, order)
}

// RetryPayment re-runs the inquiry for an existing order. An order that
// still holds a non-expired payment record gets that record back
// untouched instead of a fresh inquiry.
func (s *service) RetryPayment(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.requestPayment(ctx, order)
}

func (s *service) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	return s.orders.GetByID(ctx, orderID)
}

func (s *service) requestPayment(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.HasActivePayment(s.now()) {
		return order, nil
	}
	if order.Status != models.OrderStatusUninitiated {
		return nil, domainErrors.ErrStateConflict
	}

	resp, err := s.client.Inquire(ctx, s.settings, order)
	if err != nil {
		return nil, err
	}

	expiresAt := s.now().Add(time.Duration(s.settings.ExpiryMinutes) * time.Minute).Unix()
	updated, err := s.orders.TransitionStatus(ctx, order.ID,
		models.OrderStatusUninitiated, models.OrderStatusPending,
		func(o *models.Order) {
			o.Reference = resp.Reference
			o.QRPayload = resp.QRString
			o.ExpiresAt = expiresAt
			o.AttemptID = uuid.NewString()
		},
		"Awaiting QRIS payment",
	)
	if errors.Is(err, domainErrors.ErrStateConflict) {
		// A concurrent inquiry won; keep its payment record.
		s.logf("inquiry race on order %d, keeping existing payment", order.ID)
		return s.orders.GetByID(ctx, order.ID)
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ApplyCallback applies a verified callback result. Only "00" and "01"
// mutate state; any other result code is logged and acknowledged without
// touching the order, so a corrected later delivery still lands. Guard
// failures are silent no-ops: the processor retries callbacks and a
// duplicate must not be treated as an error.
func (s *service) ApplyCallback(ctx context.Context, order *models.Order, payload *models.CallbackPayload) error {
	switch payload.ResultCode {
	case models.ResultCodeSuccess:
		return s.markPaid(ctx, order.ID, payload.Reference, payload.Amount, payload)

	case models.ResultCodeFailed:
		updated, err := s.orders.TransitionStatus(ctx, order.ID,
			models.OrderStatusPending, models.OrderStatusFailed,
			func(o *models.Order) {
				s.applyCallbackData(o, payload)
			},
			fmt.Sprintf("Payment failed (result code %s)", payload.ResultCode),
		)
		if errors.Is(err, domainErrors.ErrStateConflict) {
			s.logf("failure callback for order %d ignored, status is no longer pending", order.ID)
			return nil
		}
		if err != nil {
			return err
		}
		s.cacheStatus(ctx, updated)
		s.recordCallback(ctx, order.ID, payload)
		return nil

	default:
		s.logf("unknown result code %q for order %d, state unchanged", payload.ResultCode, order.ID)
		return nil
	}
}

// Reconcile serves one buyer poll. Paid orders answer immediately; an
// expired pending order is cancelled with its stock released; otherwise
// the processor is asked opportunistically, and any failure there means
// "still waiting", never an error to the buyer.
func (s *service) Reconcile(ctx context.Context, orderID uint) (PollResult, error) {
	if cached, err := s.cache.GetOrderStatus(ctx, orderID); err == nil && cached != "" {
		if res, ok := resultForStatus(cached); ok {
			return res, nil
		}
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return PollResult{}, err
	}

	if res, ok := resultForStatus(order.Status); ok {
		s.cacheStatus(ctx, order)
		return res, nil
	}

	if order.Status == models.OrderStatusUninitiated {
		return PollResult{Message: "Payment not initiated"}, nil
	}

	if order.PaymentExpired(s.now()) {
		return s.cancelExpired(ctx, order)
	}
	return s.checkWithProcessor(ctx, order)
}

func (s *service) cancelExpired(ctx context.Context, order *models.Order) (PollResult, error) {
	expiredAt := time.Unix(order.ExpiresAt, 0).UTC().Format(time.RFC3339)
	updated, err := s.orders.TransitionStatus(ctx, order.ID,
		models.OrderStatusPending, models.OrderStatusCancelled,
		func(o *models.Order) {
			o.StockReserved = false
		},
		fmt.Sprintf("Payment expired at %s", expiredAt),
		"Released reserved stock",
	)
	if errors.Is(err, domainErrors.ErrStateConflict) {
		// A callback beat the expiry check; report whatever it produced.
		s.logf("expiry cancel for order %d lost the race", order.ID)
		fresh, ferr := s.orders.GetByID(ctx, order.ID)
		if ferr != nil {
			return PollResult{}, ferr
		}
		if res, ok := resultForStatus(fresh.Status); ok {
			return res, nil
		}
		return PollResult{Message: "Awaiting payment"}, nil
	}
	if err != nil {
		return PollResult{}, err
	}

	s.cacheStatus(ctx, updated)
	return PollResult{Expired: true, Message: "Payment expired"}, nil
}

func (s *service) checkWithProcessor(ctx context.Context, order *models.Order) (PollResult, error) {
	merchantOrderID := utils.FormatMerchantOrderID(s.settings.OrderIDPrefix, order.ID)
	resp, err := s.client.TransactionStatus(ctx, s.settings, merchantOrderID)
	if err != nil {
		// Unknown, try later. The callback path stays authoritative.
		s.logf("status check failed for order %d: %v", order.ID, err)
		return PollResult{Message: "Awaiting payment"}, nil
	}

	if resp.Paid() {
		if err := s.markPaid(ctx, order.ID, resp.Reference, resp.Amount, nil); err != nil {
			return PollResult{}, err
		}
		return PollResult{Paid: true, Message: "Payment completed"}, nil
	}
	return PollResult{Message: "Awaiting payment"}, nil
}

func (s *service) markPaid(ctx context.Context, orderID uint, reference, amount string, payload *models.CallbackPayload) error {
	updated, err := s.orders.TransitionStatus(ctx, orderID,
		models.OrderStatusPending, models.OrderStatusPaid,
		func(o *models.Order) {
			if reference != "" {
				o.Reference = reference
			}
			o.PaidAmount = parseAmount(amount)
			o.FulfillmentStatus = s.settings.CompletionStatus
			if payload != nil {
				s.applyCallbackData(o, payload)
			}
		},
		fmt.Sprintf("Payment completed via Duitku QRIS (Reference: %s, Amount: %s)", reference, amount),
	)
	if errors.Is(err, domainErrors.ErrStateConflict) {
		s.logf("paid transition for order %d ignored, status is no longer pending", orderID)
		return nil
	}
	if err != nil {
		return err
	}

	s.cacheStatus(ctx, updated)
	if payload != nil {
		s.recordCallback(ctx, orderID, payload)
	}
	return nil
}

func (s *service) applyCallbackData(o *models.Order, payload *models.CallbackPayload) {
	o.LastCallbackData = payload.AsJSON()
	o.IssuerCode = payload.IssuerCode
	o.SettlementDate = payload.SettlementDate
	o.PublisherOrderID = payload.PublisherOrderID
}

func (s *service) cacheStatus(ctx context.Context, order *models.Order) {
	switch order.Status {
	case models.OrderStatusPaid, models.OrderStatusFailed, models.OrderStatusCancelled:
		if err := s.cache.CacheOrderStatus(ctx, order.ID, order.Status); err != nil {
			log.Printf("failed to cache status for order %d: %v", order.ID, err)
		}
	}
}

func (s *service) recordCallback(ctx context.Context, orderID uint, payload *models.CallbackPayload) {
	if err := s.cache.RecordCallback(ctx, orderID, payload); err != nil {
		log.Printf("failed to record callback for order %d: %v", orderID, err)
	}
}

func (s *service) logf(format string, args ...interface{}) {
	if s.settings.LoggingEnabled {
		log.Printf("[payment] "+format, args...)
	}
}

// resultForStatus maps a terminal status to its poll result.
func resultForStatus(status string) (PollResult, bool) {
	switch status {
	case models.OrderStatusPaid:
		return PollResult{Paid: true, Message: "Payment completed"}, true
	case models.OrderStatusCancelled:
		return PollResult{Expired: true, Message: "Payment expired"}, true
	case models.OrderStatusFailed:
		return PollResult{Message: "Payment failed"}, true
	}
	return PollResult{}, false
}

func parseAmount(s string) int64 {
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
