package models

// Duitku result codes delivered in callbacks. Anything outside this set
// is acknowledged but never mutates order state.
const (
	ResultCodeSuccess = "00"
	ResultCodeFailed  = "01"
)

// CallbackPayload is one inbound payment notification from Duitku. The
// processor sends it either JSON or form-encoded; every field is
// mandatory and an absent one invalidates the whole payload.
type CallbackPayload struct {
	MerchantCode     string `json:"merchantCode" form:"merchantCode" validate:"required"`
	Amount           string `json:"amount" form:"amount" validate:"required"`
	MerchantOrderID  string `json:"merchantOrderId" form:"merchantOrderId" validate:"required"`
	ProductDetail    string `json:"productDetail" form:"productDetail" validate:"required"`
	AdditionalParam  string `json:"additionalParam" form:"additionalParam" validate:"required"`
	PaymentCode      string `json:"paymentCode" form:"paymentCode" validate:"required"`
	ResultCode       string `json:"resultCode" form:"resultCode" validate:"required"`
	MerchantUserID   string `json:"merchantUserId" form:"merchantUserId" validate:"required"`
	Reference        string `json:"reference" form:"reference" validate:"required"`
	Signature        string `json:"signature" form:"signature" validate:"required"`
	PublisherOrderID string `json:"publisherOrderId" form:"publisherOrderId" validate:"required"`
	SettlementDate   string `json:"settlementDate" form:"settlementDate" validate:"required"`
	IssuerCode       string `json:"issuerCode" form:"issuerCode" validate:"required"`
}

// AsJSON returns the payload as a JSON column value for the order's
// last-callback audit field.
func (p *CallbackPayload) AsJSON() JSON {
	return JSON{
		"merchantCode":     p.MerchantCode,
		"amount":           p.Amount,
		"merchantOrderId":  p.MerchantOrderID,
		"productDetail":    p.ProductDetail,
		"additionalParam":  p.AdditionalParam,
		"paymentCode":      p.PaymentCode,
		"resultCode":       p.ResultCode,
		"merchantUserId":   p.MerchantUserID,
		"reference":        p.Reference,
		"publisherOrderId": p.PublisherOrderID,
		"settlementDate":   p.SettlementDate,
		"issuerCode":       p.IssuerCode,
	}
}
