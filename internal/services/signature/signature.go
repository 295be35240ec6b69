// Package signature implements the Duitku shared-secret signatures.
//
// The processor uses three incompatible field orderings that share the
// same hash primitive. They are kept as three named functions so a call
// site can never silently pick the wrong ordering:
//
//	inquiry:      md5(merchantCode + merchantOrderId + amount + apiKey)
//	callback:     md5(merchantCode + amount + merchantOrderId + apiKey)
//	status check: md5(merchantCode + merchantOrderId + apiKey)
//
// MD5 is mandated by the Duitku protocol and must be kept bit-for-bit
// for interoperability.
package signature

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
)

// FormatAmount renders an amount the way Duitku expects it inside
// signatures and request bodies: whole rupiah, no separators.
func FormatAmount(amount int64) string {
	return strconv.FormatInt(amount, 10)
}

// Inquiry signs an outbound payment inquiry request.
func Inquiry(merchantCode, merchantOrderID string, amount int64, apiKey string) string {
	return digest(merchantCode + merchantOrderID + FormatAmount(amount) + apiKey)
}

// Callback signs an inbound payment notification. Note the amount is the
// raw string from the payload, not a reformatted value: the digest must
// match exactly what the processor hashed.
func Callback(merchantCode, amount, merchantOrderID, apiKey string) string {
	return digest(merchantCode + amount + merchantOrderID + apiKey)
}

// TransactionStatus signs an outbound status check request.
func TransactionStatus(merchantCode, merchantOrderID, apiKey string) string {
	return digest(merchantCode + merchantOrderID + apiKey)
}

// VerifyCallback recomputes the callback signature and compares it in
// constant time.
func VerifyCallback(sig, merchantCode, amount, merchantOrderID, apiKey string) bool {
	expected := Callback(merchantCode, amount, merchantOrderID, apiKey)
	return subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) == 1
}

func digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
