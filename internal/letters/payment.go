package letters

import (
	"context"
	"math"
	"strconv"
	"strings"
)

// DefaultMerchantID identifies the insurer with the QR payment provider
const DefaultMerchantID = 153

const maxCustomerLabel = 24

var holderTitles = map[string]bool{
	"Mr": true, "Mrs": true, "Ms": true, "Miss": true,
	"Dr": true, "Prof": true, "Sir": true, "Madam": true,
}

// PaymentRequest is the body sent to the QR provider for one policy
type PaymentRequest struct {
	MerchantID int `json:"MerchantId"`

	SetTransactionAmount bool    `json:"SetTransactionAmount"`
	TransactionAmount    float64 `json:"TransactionAmount"`

	SetAdditionalBillNumber      bool   `json:"SetAdditionalBillNumber"`
	AdditionalRequiredBillNumber bool   `json:"AdditionalRequiredBillNumber"`
	AdditionalBillNumber         string `json:"AdditionalBillNumber"`

	SetAdditionalMobileNo      bool   `json:"SetAdditionalMobileNo"`
	AdditionalRequiredMobileNo bool   `json:"AdditionalRequiredMobileNo"`
	AdditionalMobileNo         string `json:"AdditionalMobileNo"`

	SetAdditionalCustomerLabel      bool   `json:"SetAdditionalCustomerLabel"`
	AdditionalRequiredCustomerLabel bool   `json:"AdditionalRequiredCustomerLabel"`
	AdditionalCustomerLabel         string `json:"AdditionalCustomerLabel"`

	SetAdditionalPurposeTransaction      bool   `json:"SetAdditionalPurposeTransaction"`
	AdditionalRequiredPurposeTransaction bool   `json:"AdditionalRequiredPurposeTransaction"`
	AdditionalPurposeTransaction         string `json:"AdditionalPurposeTransaction"`
}

// QRProvider turns a payment request into the payload encoded in the
// letter's QR code
type QRProvider interface {
	MerchantQR(ctx context.Context, req PaymentRequest) (string, error)
}

// NewPaymentRequest builds the QR request for a row
func NewPaymentRequest(rec Record, merchantID int) PaymentRequest {
	return PaymentRequest{
		MerchantID:                      merchantID,
		SetAdditionalBillNumber:         true,
		AdditionalBillNumber:            BillNumber(rec.PolicyNo),
		SetAdditionalMobileNo:           true,
		AdditionalMobileNo:              MobileNumber(rec.Mobile),
		SetAdditionalCustomerLabel:      true,
		AdditionalCustomerLabel:         CustomerLabel(rec.PolicyHolder),
		SetAdditionalPurposeTransaction: true,
		AdditionalPurposeTransaction:    "Arrears Payment",
	}
}

// BillNumber is the policy number in the form the provider accepts
func BillNumber(policyNo string) string {
	return strings.ReplaceAll(strings.TrimSpace(policyNo), "/", ".")
}

// MobileNumber normalises a mobile number that may have been read as a
// float ("57123456.0"). Unparseable, non-finite and out of range values
// give "".
func MobileNumber(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	// int64 conversion of an out of range float is implementation defined
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return ""
	}
	return strconv.FormatInt(int64(f), 10)
}

// CustomerLabel shortens a holder name to an initial and surname of at most
// 24 characters, dropping a leading title
func CustomerLabel(holder string) string {
	clean := strings.ReplaceAll(strings.TrimSpace(holder), "-", " ")
	if clean == "" {
		return ""
	}

	parts := strings.Fields(clean)
	if len(parts) > 0 && holderTitles[parts[0]] {
		parts = parts[1:]
	}

	switch len(parts) {
	case 0:
		return truncate(clean, maxCustomerLabel)
	case 1:
		return truncate(parts[0], maxCustomerLabel)
	}

	initial := strings.ToUpper(string([]rune(parts[0])[:1]))
	surname := parts[len(parts)-1]
	label := initial + " " + surname
	if len([]rune(label)) <= maxCustomerLabel {
		return label
	}
	if len([]rune(surname)) <= maxCustomerLabel-2 {
		return truncate(label, maxCustomerLabel)
	}
	return truncate(surname, maxCustomerLabel)
}

// ValidQRData reports whether a provider response carries a usable payload
func ValidQRData(data string) bool {
	switch strings.ToLower(strings.TrimSpace(data)) {
	case "", "null", "none", "nan":
		return false
	}
	return true
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n])
}
