package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/paymentintent"
)

// PaymentGateway is the external payment collaborator. CreateOrder registers
// a payment for the given minor-unit amount and returns the gateway order id;
// VerifySignature checks the signature the gateway handed the payer after a
// successful payment.
type PaymentGateway interface {
	CreateOrder(amountMinorUnits int64, currency, preferredMethod string) (string, error)
	VerifySignature(paymentID, orderID, signature string) bool
}

// StripeGateway backs the PaymentGateway contract with Stripe
// PaymentIntents. Signatures are HMAC-SHA256 over "orderID|paymentID" keyed
// with the webhook secret.
type StripeGateway struct {
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{webhookSecret: webhookSecret}
}

func (g *StripeGateway) CreateOrder(amountMinorUnits int64, currency, preferredMethod string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinorUnits),
		Currency: stripe.String(currency),
	}
	if preferredMethod != "" {
		params.PaymentMethodTypes = stripe.StringSlice([]string{preferredMethod})
	}
	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("error creating payment intent: %w", err)
	}
	return intent.ID, nil
}

func (g *StripeGateway) VerifySignature(paymentID, orderID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
