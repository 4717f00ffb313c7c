package entity

import "encoding/json"

// PaymentEventTypePaymentSucceeded is the only upstream event type that
// triggers ticket issuance. Other types are acked without side effects.
const PaymentEventTypePaymentSucceeded = "payment_intent.succeeded"

// PaymentEvent is a signature-verified event delivered by the payment
// provider. Payload holds the provider's raw object; it is only parsed by
// the intake service once the type is known.
type PaymentEvent struct {
	ID      string
	Type    string
	Payload json.RawMessage
}
