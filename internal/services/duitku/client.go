// Package duitku talks to the Duitku merchant API. It only builds and
// sends requests; order state transitions are the payment service's job.
package duitku

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"qrisgate/internal/config"
	domainErrors "qrisgate/internal/errors"
	"qrisgate/internal/models"
	"qrisgate/internal/services/signature"
	"qrisgate/internal/utils"
)

// DefaultTimeout bounds every outbound call to the processor.
const DefaultTimeout = 30 * time.Second

// Client is the outbound payment client.
type Client interface {
	Inquire(ctx context.Context, settings config.Settings, order *models.Order) (*InquiryResponse, error)
	TransactionStatus(ctx context.Context, settings config.Settings, merchantOrderID string) (*StatusResponse, error)
}

type client struct {
	httpClient *http.Client

	// baseURLOverride points the client at a test server.
	baseURLOverride string
}

// NewClient creates a Duitku API client with a bounded request timeout.
func NewClient(timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Inquire opens a payment request for the order and returns the QR
// payload and processor reference. A transport failure or a non-"00"
// status code is returned as a typed error; the order is not touched.
func (c *client) Inquire(ctx context.Context, settings config.Settings, order *models.Order) (*InquiryResponse, error) {
	merchantOrderID := utils.FormatMerchantOrderID(settings.OrderIDPrefix, order.ID)
	total := order.Amount

	items := make([]ItemDetail, 0, len(order.Items)+1)
	for _, it := range order.Items {
		items = append(items, ItemDetail{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	if order.ShippingFee > 0 {
		items = append(items, ItemDetail{
			Name:     "Shipping",
			Quantity: 1,
			Price:    order.ShippingFee,
		})
	}

	req := InquiryRequest{
		MerchantCode:    settings.MerchantCode,
		PaymentAmount:   signature.FormatAmount(total),
		PaymentMethod:   settings.QrisProvider,
		MerchantOrderID: merchantOrderID,
		ProductDetails:  fmt.Sprintf("Order #%d", order.ID),
		CustomerVaName:  order.CustomerName,
		Email:           order.Email,
		PhoneNumber:     order.Phone,
		ItemDetails:     items,
		CallbackURL:     settings.CallbackURL,
		ReturnURL:       settings.ReturnURL,
		Signature:       signature.Inquiry(settings.MerchantCode, merchantOrderID, total, settings.APIKey),
		ExpiryPeriod:    settings.ExpiryMinutes,
	}

	var resp InquiryResponse
	if err := c.post(ctx, c.baseURL(settings)+inquiryPath, req, &resp); err != nil {
		return nil, err
	}

	if resp.StatusCode != StatusSuccess {
		c.logf(settings, "inquiry rejected for %s: [%s] %s", merchantOrderID, resp.StatusCode, resp.StatusMessage)
		return nil, &domainErrors.ProcessorError{
			StatusCode:    resp.StatusCode,
			StatusMessage: resp.StatusMessage,
		}
	}
	return &resp, nil
}

// TransactionStatus asks the processor for the current state of a
// payment. Callers must treat any error as "unknown, try later".
func (c *client) TransactionStatus(ctx context.Context, settings config.Settings, merchantOrderID string) (*StatusResponse, error) {
	req := StatusRequest{
		MerchantCode:    settings.MerchantCode,
		MerchantOrderID: merchantOrderID,
		Signature:       signature.TransactionStatus(settings.MerchantCode, merchantOrderID, settings.APIKey),
	}

	var resp StatusResponse
	if err := c.post(ctx, c.baseURL(settings)+transactionStatusPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *client) baseURL(settings config.Settings) string {
	if c.baseURLOverride != "" {
		return c.baseURLOverride
	}
	if settings.Environment == config.EnvProduction {
		return ProductionBaseURL
	}
	return SandboxBaseURL
}

func (c *client) post(ctx context.Context, url string, body, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domainErrors.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domainErrors.TransportError{Err: err}
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return &domainErrors.TransportError{
			Err: fmt.Errorf("invalid API response (http %d): %w", resp.StatusCode, err),
		}
	}
	return nil
}

func (c *client) logf(settings config.Settings, format string, args ...interface{}) {
	if settings.LoggingEnabled {
		log.Printf("[duitku] "+format, args...)
	}
}
