package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Environments accepted by the gateway.
const (
	EnvSandbox    = "sandbox"
	EnvProduction = "production"
)

// Order statuses the gateway may escalate a paid order to.
const (
	CompletionProcessing = "processing"
	CompletionCompleted  = "completed"
)

// Settings is the immutable gateway configuration passed into every core
// operation. It is loaded once at startup and never mutated afterwards.
type Settings struct {
	MerchantCode     string `validate:"required"`
	APIKey           string `validate:"required"`
	Environment      string `validate:"required,oneof=sandbox production"`
	QrisProvider     string `validate:"required,oneof=SP NQ DQ GQ SQ"`
	OrderIDPrefix    string `validate:"required,max=5,excludesall=0123456789"`
	ExpiryMinutes    int    `validate:"required,gt=0"`
	CompletionStatus string `validate:"required,oneof=processing completed"`
	LoggingEnabled   bool
	CallbackURL      string `validate:"required,url"`
	ReturnURL        string `validate:"required,url"`
}

// QrisProviders maps the Duitku payment method codes to display names.
var QrisProviders = map[string]string{
	"SP": "QRIS ShopeePay",
	"NQ": "QRIS NobuBank",
	"DQ": "QRIS DANA",
	"GQ": "QRIS Gudang Voucher",
	"SQ": "QRIS Nusapay",
}

// LoadSettings reads the gateway settings from the environment.
func LoadSettings() (Settings, error) {
	s := Settings{
		MerchantCode:     GetEnv("DUITKU_MERCHANT_CODE", ""),
		APIKey:           GetEnv("DUITKU_API_KEY", ""),
		Environment:      GetEnv("DUITKU_ENVIRONMENT", EnvSandbox),
		QrisProvider:     GetEnv("DUITKU_QRIS_PROVIDER", "SP"),
		OrderIDPrefix:    GetEnv("DUITKU_ORDER_PREFIX", "TRX-"),
		ExpiryMinutes:    GetIntEnv("DUITKU_EXPIRY_MINUTES", 10),
		CompletionStatus: GetEnv("DUITKU_COMPLETION_STATUS", CompletionProcessing),
		LoggingEnabled:   GetBoolEnv("DUITKU_ENABLE_LOGGING", false),
		CallbackURL:      GetEnv("DUITKU_CALLBACK_URL", ""),
		ReturnURL:        GetEnv("DUITKU_RETURN_URL", ""),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings against the gateway constraints. The order
// prefix must stay reversible: it may never contain a digit, otherwise
// stripping it from a merchant order id becomes ambiguous.
func (s Settings) Validate() error {
	v := validator.New()
	if err := v.Struct(s); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			fields := make([]string, 0, len(errs))
			for _, fe := range errs {
				fields = append(fields, fe.Field())
			}
			return fmt.Errorf("invalid gateway settings: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}
