// internal/payment/processor.go
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"scholarstream/internal/common/errors"
)

// Card carries the card details collected client-side. They go straight
// to the processor for tokenization and never touch the backend.
type Card struct {
	Number   string
	ExpMonth string
	ExpYear  string
	CVC      string
	Name     string
	Email    string
}

// ConfirmResult is the terminal state of a payment confirmation.
type ConfirmResult struct {
	Declined      bool
	Message       string // decline reason, set only when Declined
	TransactionID string // set only on success
}

// Processor is what the checkout sequencer needs from a payment provider.
type Processor interface {
	CreatePaymentMethod(ctx context.Context, card Card) (string, error)
	ConfirmPayment(ctx context.Context, clientSecret, paymentMethodID string) (*ConfirmResult, error)
}

// Client talks to the card processor's REST API using the publishable key.
type Client struct {
	baseURL        string
	publishableKey string
	httpClient     *http.Client
}

func NewClient(baseURL, publishableKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		publishableKey: publishableKey,
		httpClient:     &http.Client{Timeout: timeout},
	}
}

type processorErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreatePaymentMethod tokenizes the card. An invalid card comes back as a
// CardError with the processor's message; nothing has been charged or
// written at this point.
func (c *Client) CreatePaymentMethod(ctx context.Context, card Card) (string, error) {
	form := url.Values{}
	form.Set("type", "card")
	form.Set("card[number]", card.Number)
	form.Set("card[exp_month]", card.ExpMonth)
	form.Set("card[exp_year]", card.ExpYear)
	form.Set("card[cvc]", card.CVC)
	if card.Name != "" {
		form.Set("billing_details[name]", card.Name)
	}
	if card.Email != "" {
		form.Set("billing_details[email]", card.Email)
	}

	raw, status, err := c.post(ctx, "/v1/payment_methods", form)
	if err != nil {
		return "", err
	}

	if status >= 400 {
		var perr processorErrorBody
		if jsonErr := json.Unmarshal(raw, &perr); jsonErr == nil && perr.Error.Message != "" {
			return "", errors.NewCardError(perr.Error.Message)
		}
		return "", errors.NewCardError(fmt.Sprintf("card tokenization failed with status %d", status))
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &out); err != nil || out.ID == "" {
		return "", errors.NewNetworkError(fmt.Errorf("malformed payment method response"))
	}
	return out.ID, nil
}

// ConfirmPayment confirms the intent behind the client secret with a
// tokenized payment method. A decline is a result, not an error: the
// sequencer still writes the application record on that path.
func (c *Client) ConfirmPayment(ctx context.Context, clientSecret, paymentMethodID string) (*ConfirmResult, error) {
	intentID, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("payment_method", paymentMethodID)
	form.Set("client_secret", clientSecret)

	raw, status, err := c.post(ctx, "/v1/payment_intents/"+url.PathEscape(intentID)+"/confirm", form)
	if err != nil {
		return nil, err
	}

	if status >= 400 {
		var perr processorErrorBody
		if jsonErr := json.Unmarshal(raw, &perr); jsonErr == nil && perr.Error.Type == "card_error" {
			return &ConfirmResult{Declined: true, Message: perr.Error.Message}, nil
		}
		return nil, errors.NewNetworkError(fmt.Errorf("payment confirmation failed with status %d", status))
	}

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.NewNetworkError(fmt.Errorf("malformed confirmation response"))
	}
	if out.Status != "succeeded" {
		return &ConfirmResult{Declined: true, Message: fmt.Sprintf("payment ended in status %q", out.Status)}, nil
	}
	return &ConfirmResult{TransactionID: out.ID}, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.publishableKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.NewNetworkError(err)
	}
	return raw, resp.StatusCode, nil
}

// intentIDFromSecret extracts the intent id from a client secret shaped
// like "pi_123_secret_456".
func intentIDFromSecret(clientSecret string) (string, error) {
	idx := strings.Index(clientSecret, "_secret_")
	if idx <= 0 {
		return "", errors.NewNetworkError(fmt.Errorf("malformed client secret"))
	}
	return clientSecret[:idx], nil
}
