// internal/api/payments.go
package api

import (
	"context"
	"net/http"
	"net/url"

	"scholarstream/internal/common/errors"
	"scholarstream/internal/models"
)

// PaymentsAPI creates payment intents through the backend and records
// completed payments.
type PaymentsAPI struct {
	sec *SecureClient
}

func NewPaymentsAPI(sec *SecureClient) *PaymentsAPI {
	return &PaymentsAPI{sec: sec}
}

// CreateIntent asks the backend for a payment intent. The attempt id
// doubles as an idempotency key server-side.
func (a *PaymentsAPI) CreateIntent(ctx context.Context, amount int, attemptID string) (*models.PaymentIntent, error) {
	body := map[string]interface{}{
		"amount":         amount,
		"idempotencyKey": attemptID,
	}
	var intent models.PaymentIntent
	if err := a.sec.do(ctx, http.MethodPost, "/create-payment-intent", nil, body, &intent); err != nil {
		return nil, errors.NewPaymentInitError(err)
	}
	if intent.ClientSecret == "" {
		return nil, errors.NewPaymentInitError(errIntentWithoutSecret)
	}
	return &intent, nil
}

var errIntentWithoutSecret = errors.NewBackendError(http.StatusOK, "payment intent response missing client secret")

func (a *PaymentsAPI) Record(ctx context.Context, rec models.PaymentRecord) error {
	return a.sec.do(ctx, http.MethodPost, "/payments", nil, rec, nil)
}

func (a *PaymentsAPI) ByUser(ctx context.Context, email string) ([]models.PaymentRecord, error) {
	var records []models.PaymentRecord
	if err := a.sec.do(ctx, http.MethodGet, "/payments/user/"+url.PathEscape(email), nil, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}
