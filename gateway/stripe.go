package gateway

import (
	"context"
	"fmt"

	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
	"github.com/stripe/stripe-go/v72/webhook"

	"hambax/entity"
)

// StripeVerifier checks webhook payloads against the endpoint secret before
// anything in them is trusted.
type StripeVerifier struct {
	endpointSecret string
}

func NewStripeVerifier(endpointSecret string) StripeVerifier {
	if endpointSecret == "" {
		panic("missing stripe endpoint secret")
	}
	return StripeVerifier{endpointSecret: endpointSecret}
}

func (v StripeVerifier) VerifyAndParse(payload []byte, signatureHeader string) (entity.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, v.endpointSecret)
	if err != nil {
		return entity.PaymentEvent{}, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	return entity.PaymentEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Payload: event.Data.Raw,
	}, nil
}

// StripePayments creates PaymentIntents for the storefront checkout.
type StripePayments struct{}

func NewStripePayments(secretKey string) StripePayments {
	if secretKey == "" {
		panic("missing stripe secret key")
	}
	stripe.Key = secretKey
	return StripePayments{}
}

func (p StripePayments) CreatePaymentIntent(ctx context.Context, currency string, amountCents int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("could not create payment intent: %w", err)
	}

	return intent.ClientSecret, nil
}
