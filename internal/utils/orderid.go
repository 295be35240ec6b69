package utils

import (
	"strconv"
	"strings"

	domainErrors "qrisgate/internal/errors"
)

// FormatMerchantOrderID derives the processor-facing order id from the
// configured prefix and the local numeric order id.
func FormatMerchantOrderID(prefix string, orderID uint) string {
	return prefix + strconv.FormatUint(uint64(orderID), 10)
}

// ParseMerchantOrderID strips the configured prefix and parses the rest
// as the local order id. The prefix is validated to be digit-free at
// startup, so the strip is deterministic.
func ParseMerchantOrderID(prefix, merchantOrderID string) (uint, error) {
	rest, ok := strings.CutPrefix(merchantOrderID, prefix)
	if !ok || rest == "" {
		return 0, domainErrors.ErrInvalidOrderRef
	}
	id, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, domainErrors.ErrInvalidOrderRef
	}
	return uint(id), nil
}
