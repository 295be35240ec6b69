package callback

import (
	"context"
	"testing"

	"qrisgate/internal/config"
	domainErrors "qrisgate/internal/errors"
	"qrisgate/internal/models"
	"qrisgate/internal/services/signature"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepo) AddNote(ctx context.Context, orderID uint, note string) error {
	args := m.Called(ctx, orderID, note)
	return args.Error(0)
}

func (m *MockOrderRepo) TransitionStatus(ctx context.Context, orderID uint, from, to string, mutate func(*models.Order), notes ...string) (*models.Order, error) {
	args := m.Called(ctx, orderID, from, to, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

var testSettings = config.Settings{
	MerchantCode:  "D1234",
	APIKey:        "secret",
	OrderIDPrefix: "TRX-",
}

func signedPayload() *models.CallbackPayload {
	p := &models.CallbackPayload{
		MerchantCode:     "D1234",
		Amount:           "50000",
		MerchantOrderID:  "TRX-42",
		ProductDetail:    "Order #42",
		AdditionalParam:  "-",
		PaymentCode:      "SP",
		ResultCode:       models.ResultCodeSuccess,
		MerchantUserID:   "buyer@example.com",
		Reference:        "REF123",
		PublisherOrderID: "PUB987",
		SettlementDate:   "2026-08-29",
		IssuerCode:       "93600914",
	}
	p.Signature = signature.Callback(p.MerchantCode, p.Amount, p.MerchantOrderID, testSettings.APIKey)
	return p
}

func TestVerify(t *testing.T) {
	t.Run("valid callback resolves the order", func(t *testing.T) {
		orders := new(MockOrderRepo)
		order := &models.Order{ID: 42, Status: models.OrderStatusPending}
		orders.On("GetByID", mock.Anything, uint(42)).Return(order, nil)

		v := NewVerifier(orders, testSettings)
		got, err := v.Verify(context.Background(), signedPayload())

		assert.NoError(t, err)
		assert.Equal(t, uint(42), got.ID)
	})

	t.Run("missing fields are reported by wire name", func(t *testing.T) {
		orders := new(MockOrderRepo)
		payload := signedPayload()
		payload.Amount = ""
		payload.ResultCode = ""

		v := NewVerifier(orders, testSettings)
		_, err := v.Verify(context.Background(), payload)

		var validationErr *domainErrors.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		assert.ElementsMatch(t, []string{"amount", "resultCode"}, validationErr.Missing)
		orders.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("merchant code mismatch is rejected before lookup", func(t *testing.T) {
		orders := new(MockOrderRepo)
		payload := signedPayload()
		payload.MerchantCode = "D9999"

		v := NewVerifier(orders, testSettings)
		_, err := v.Verify(context.Background(), payload)

		assert.ErrorIs(t, err, domainErrors.ErrMerchantMismatch)
		orders.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unresolvable order reference maps to not found", func(t *testing.T) {
		orders := new(MockOrderRepo)
		payload := signedPayload()
		payload.MerchantOrderID = "WC-42"

		v := NewVerifier(orders, testSettings)
		_, err := v.Verify(context.Background(), payload)

		assert.ErrorIs(t, err, domainErrors.ErrOrderNotFound)
	})

	t.Run("unknown order id maps to not found", func(t *testing.T) {
		orders := new(MockOrderRepo)
		orders.On("GetByID", mock.Anything, uint(42)).Return(nil, domainErrors.ErrOrderNotFound)

		v := NewVerifier(orders, testSettings)
		_, err := v.Verify(context.Background(), signedPayload())

		assert.ErrorIs(t, err, domainErrors.ErrOrderNotFound)
	})

	t.Run("tampered amount invalidates the signature", func(t *testing.T) {
		orders := new(MockOrderRepo)
		order := &models.Order{ID: 42, Status: models.OrderStatusPending}
		orders.On("GetByID", mock.Anything, uint(42)).Return(order, nil)

		payload := signedPayload()
		payload.Amount = "1"

		v := NewVerifier(orders, testSettings)
		_, err := v.Verify(context.Background(), payload)

		assert.ErrorIs(t, err, domainErrors.ErrInvalidSignature)
	})

	t.Run("garbage signature is rejected", func(t *testing.T) {
		orders := new(MockOrderRepo)
		order := &models.Order{ID: 42, Status: models.OrderStatusPending}
		orders.On("GetByID", mock.Anything, uint(42)).Return(order, nil)

		payload := signedPayload()
		payload.Signature = "not-a-digest"

		v := NewVerifier(orders, testSettings)
		_, err := v.Verify(context.Background(), payload)

		assert.ErrorIs(t, err, domainErrors.ErrInvalidSignature)
	})
}
