package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// VerifySignature checks that a payment-completion callback carries a
// genuine signature: hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
// Empty inputs are a caller error, not a failed verification.
func (c *Client) VerifySignature(orderID, paymentID, signature string) (bool, error) {
	return VerifySignature(c.keySecret, orderID, paymentID, signature)
}

func VerifySignature(secret, orderID, paymentID, signature string) (bool, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return false, fmt.Errorf("%w: order id, payment id and signature are required", ErrInvalidInput)
	}

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature)), nil
}
