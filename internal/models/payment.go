// internal/models/payment.go
package models

import "time"

// PaymentRecord is written only alongside a successful application payment
// and is never mutated afterwards.
type PaymentRecord struct {
	ID            string    `json:"id,omitempty"`
	UserEmail     string    `json:"userEmail"`
	ScholarshipID string    `json:"scholarshipId"`
	Amount        int       `json:"amount"`
	TransactionID string    `json:"transactionId"`
	PaymentDate   time.Time `json:"paymentDate"`
}

// PaymentIntent is the backend's handle on an in-progress charge.
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
}
