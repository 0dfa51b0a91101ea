package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	g := &StripeGateway{webhookSecret: "whsec_test"}

	sig := signPayment("whsec_test", "order_1", "pay_1")
	assert.True(t, g.VerifySignature("pay_1", "order_1", sig))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	g := &StripeGateway{webhookSecret: "whsec_test"}
	sig := signPayment("whsec_test", "order_1", "pay_1")

	assert.False(t, g.VerifySignature("pay_2", "order_1", sig), "different payment")
	assert.False(t, g.VerifySignature("pay_1", "order_2", sig), "different order")
	assert.False(t, g.VerifySignature("pay_1", "order_1", sig+"00"), "mangled signature")
	assert.False(t, g.VerifySignature("pay_1", "order_1", ""), "empty signature")
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	g := &StripeGateway{webhookSecret: "whsec_test"}
	sig := signPayment("whsec_other", "order_1", "pay_1")
	assert.False(t, g.VerifySignature("pay_1", "order_1", sig))
}
