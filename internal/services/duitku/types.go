package duitku

// Base URLs per environment. Both are compile-time constants; selection
// is purely a function of the configured environment.
const (
	SandboxBaseURL    = "https://sandbox.duitku.com/webapi/api/merchant"
	ProductionBaseURL = "https://passport.duitku.com/webapi/api/merchant"

	inquiryPath           = "/v2/inquiry"
	transactionStatusPath = "/transactionStatus"
)

// StatusSuccess is the processor status code for an accepted request and
// for a settled transaction on status checks.
const StatusSuccess = "00"

// InquiryRequest is the v2/inquiry request body.
type InquiryRequest struct {
	MerchantCode    string       `json:"merchantCode"`
	PaymentAmount   string       `json:"paymentAmount"`
	PaymentMethod   string       `json:"paymentMethod"`
	MerchantOrderID string       `json:"merchantOrderId"`
	ProductDetails  string       `json:"productDetails"`
	CustomerVaName  string       `json:"customerVaName"`
	Email           string       `json:"email"`
	PhoneNumber     string       `json:"phoneNumber"`
	ItemDetails     []ItemDetail `json:"itemDetails"`
	CallbackURL     string       `json:"callbackUrl"`
	ReturnURL       string       `json:"returnUrl"`
	Signature       string       `json:"signature"`
	ExpiryPeriod    int          `json:"expiryPeriod"`
}

// ItemDetail is one itemized line in an inquiry. Shipping, when charged,
// is sent as a synthetic line.
type ItemDetail struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// InquiryResponse is the subset of the inquiry response the gateway
// consumes.
type InquiryResponse struct {
	StatusCode    string `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	Reference     string `json:"reference"`
	QRString      string `json:"qrString"`
	PaymentURL    string `json:"paymentUrl"`
	Amount        string `json:"amount"`
}

// StatusRequest is the transactionStatus request body.
type StatusRequest struct {
	MerchantCode    string `json:"merchantCode"`
	MerchantOrderID string `json:"merchantOrderId"`
	Signature       string `json:"signature"`
}

// StatusResponse is the transactionStatus response body.
type StatusResponse struct {
	StatusCode    string `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	Reference     string `json:"reference"`
	Amount        string `json:"amount"`
	Fee           string `json:"fee"`
}

// Paid reports whether the processor considers the transaction settled.
func (r *StatusResponse) Paid() bool {
	return r.StatusCode == StatusSuccess
}
