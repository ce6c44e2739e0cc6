// internal/models/application.go
package models

import "time"

// ApplicationStatus transitions are moderator-driven.
type ApplicationStatus string

const (
	ApplicationPending    ApplicationStatus = "pending"
	ApplicationProcessing ApplicationStatus = "processing"
	ApplicationCompleted  ApplicationStatus = "completed"
	ApplicationRejected   ApplicationStatus = "rejected"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationPending, ApplicationProcessing, ApplicationCompleted, ApplicationRejected:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type Application struct {
	ID                  string              `json:"id,omitempty"`
	ScholarshipID       string              `json:"scholarshipId"`
	UserID              string              `json:"userId"`
	UserName            string              `json:"userName"`
	UserEmail           string              `json:"userEmail"`
	UniversityName      string              `json:"universityName"`
	ScholarshipCategory ScholarshipCategory `json:"scholarshipCategory"`
	SubjectCategory     string              `json:"subjectCategory,omitempty"`
	Degree              string              `json:"degree"`
	ApplicationFees     int                 `json:"applicationFees"`
	ServiceCharge       int                 `json:"serviceCharge"`
	ApplicationStatus   ApplicationStatus   `json:"applicationStatus"`
	PaymentStatus       PaymentStatus       `json:"paymentStatus"`
	Feedback            string              `json:"feedback,omitempty"`
	TransactionID       string              `json:"transactionId,omitempty"`
	ApplicationDate     time.Time           `json:"applicationDate"`
}

// Deletable reports whether the owning student may still withdraw the
// application.
func (a *Application) Deletable() bool {
	return a.ApplicationStatus == ApplicationPending
}
