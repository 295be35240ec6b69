package errors

var (
	ErrOrderNotFound = &DomainError{
		Code:    "ORDER_NOT_FOUND",
		Message: "order not found",
	}
	ErrMerchantMismatch = &DomainError{
		Code:    "MERCHANT_MISMATCH",
		Message: "merchant code does not match",
	}
	ErrInvalidSignature = &DomainError{
		Code:    "INVALID_SIGNATURE",
		Message: "invalid signature",
	}
	ErrStateConflict = &DomainError{
		Code:    "STATE_CONFLICT",
		Message: "order is not in a state that allows this transition",
	}
	ErrInvalidOrderRef = &DomainError{
		Code:    "INVALID_ORDER_REF",
		Message: "merchant order id cannot be resolved",
	}
)
