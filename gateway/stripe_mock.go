package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"hambax/entity"
)

// VerifierMock accepts any payload carrying the expected test signature and
// parses it as a provider event envelope.
type VerifierMock struct {
	ExpectedSignature string
}

func (v VerifierMock) VerifyAndParse(payload []byte, signatureHeader string) (entity.PaymentEvent, error) {
	if signatureHeader != v.ExpectedSignature {
		return entity.PaymentEvent{}, errors.New("invalid signature")
	}

	var envelope struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object json.RawMessage `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return entity.PaymentEvent{}, err
	}

	return entity.PaymentEvent{
		ID:      envelope.ID,
		Type:    envelope.Type,
		Payload: envelope.Data.Object,
	}, nil
}

type PaymentsMock struct {
	mock sync.Mutex

	CreatedIntents int
}

func (p *PaymentsMock) CreatePaymentIntent(ctx context.Context, currency string, amountCents int64) (string, error) {
	p.mock.Lock()
	defer p.mock.Unlock()

	p.CreatedIntents++
	return "pi_mock_secret", nil
}
