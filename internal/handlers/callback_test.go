package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	domainErrors "qrisgate/internal/errors"
	"qrisgate/internal/models"
	"qrisgate/internal/services/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, payload *models.CallbackPayload) (*models.Order, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, req payment.CreatePaymentRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockPaymentService) RetryPayment(ctx context.Context, orderID uint) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockPaymentService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockPaymentService) ApplyCallback(ctx context.Context, order *models.Order, payload *models.CallbackPayload) error {
	args := m.Called(ctx, order, payload)
	return args.Error(0)
}

func (m *MockPaymentService) Reconcile(ctx context.Context, orderID uint) (payment.PollResult, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(payment.PollResult), args.Error(1)
}

func callbackApp(verifier *MockVerifier, paymentSvc *MockPaymentService) *fiber.App {
	app := fiber.New()
	handler := NewCallbackHandler(verifier, paymentSvc)
	app.Post("/api/payments/callback", handler.Handle)
	return app
}

func callbackForm() url.Values {
	return url.Values{
		"merchantCode":     {"D1234"},
		"amount":           {"50000"},
		"merchantOrderId":  {"TRX-42"},
		"productDetail":    {"Order #42"},
		"additionalParam":  {"-"},
		"paymentCode":      {"SP"},
		"resultCode":       {"00"},
		"merchantUserId":   {"buyer@example.com"},
		"reference":        {"REF123"},
		"signature":        {"deadbeef"},
		"publisherOrderId": {"PUB987"},
		"settlementDate":   {"2026-08-29"},
		"issuerCode":       {"93600914"},
	}
}

func postCallback(t *testing.T, app *fiber.App, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCallbackHandler(t *testing.T) {
	t.Run("accepted notification answers the literal OK", func(t *testing.T) {
		verifier := new(MockVerifier)
		paymentSvc := new(MockPaymentService)
		order := &models.Order{ID: 42, Status: models.OrderStatusPending}

		verifier.On("Verify", mock.Anything, mock.MatchedBy(func(p *models.CallbackPayload) bool {
			return p.MerchantOrderID == "TRX-42" && p.ResultCode == "00"
		})).Return(order, nil)
		paymentSvc.On("ApplyCallback", mock.Anything, order, mock.Anything).Return(nil)

		resp := postCallback(t, callbackApp(verifier, paymentSvc), callbackForm())

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "OK", string(body))
	})

	t.Run("incomplete payload answers 400", func(t *testing.T) {
		verifier := new(MockVerifier)
		paymentSvc := new(MockPaymentService)
		verifier.On("Verify", mock.Anything, mock.Anything).
			Return(nil, &domainErrors.ValidationError{Missing: []string{"signature"}})

		form := callbackForm()
		form.Del("signature")
		resp := postCallback(t, callbackApp(verifier, paymentSvc), form)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		paymentSvc.AssertNotCalled(t, "ApplyCallback", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("merchant mismatch answers 401", func(t *testing.T) {
		verifier := new(MockVerifier)
		paymentSvc := new(MockPaymentService)
		verifier.On("Verify", mock.Anything, mock.Anything).
			Return(nil, domainErrors.ErrMerchantMismatch)

		resp := postCallback(t, callbackApp(verifier, paymentSvc), callbackForm())

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("bad signature answers 401", func(t *testing.T) {
		verifier := new(MockVerifier)
		paymentSvc := new(MockPaymentService)
		verifier.On("Verify", mock.Anything, mock.Anything).
			Return(nil, domainErrors.ErrInvalidSignature)

		resp := postCallback(t, callbackApp(verifier, paymentSvc), callbackForm())

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown order answers 404", func(t *testing.T) {
		verifier := new(MockVerifier)
		paymentSvc := new(MockPaymentService)
		verifier.On("Verify", mock.Anything, mock.Anything).
			Return(nil, domainErrors.ErrOrderNotFound)

		resp := postCallback(t, callbackApp(verifier, paymentSvc), callbackForm())

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("GET is not routed", func(t *testing.T) {
		app := callbackApp(new(MockVerifier), new(MockPaymentService))
		req := httptest.NewRequest(http.MethodGet, "/api/payments/callback", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}
