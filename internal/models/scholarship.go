// internal/models/scholarship.go
package models

// ScholarshipCategory is the funding tier of a scholarship.
type ScholarshipCategory string

const (
	CategoryFullFund ScholarshipCategory = "Full fund"
	CategoryPartial  ScholarshipCategory = "Partial"
	CategorySelfFund ScholarshipCategory = "Self-fund"
)

// DeadlineOpen marks a scholarship with no closing date.
const DeadlineOpen = "open"

type Scholarship struct {
	ID                  string              `json:"id"`
	ScholarshipName     string              `json:"scholarshipName"`
	UniversityName      string              `json:"universityName"`
	UniversityImage     string              `json:"universityImage,omitempty"`
	UniversityCountry   string              `json:"universityCountry,omitempty"`
	UniversityCity      string              `json:"universityCity,omitempty"`
	ScholarshipCategory ScholarshipCategory `json:"scholarshipCategory"`
	SubjectCategory     string              `json:"subjectCategory,omitempty"`
	Degree              string              `json:"degree"`
	ApplicationFees     int                 `json:"applicationFees"`
	ServiceCharge       int                 `json:"serviceCharge"`
	Deadline            string              `json:"deadline,omitempty"`
	PostedUserEmail     string              `json:"postedUserEmail,omitempty"`
	Rating              float64             `json:"rating,omitempty"`
}

// TotalAmount is what the applicant pays at checkout.
func (s *Scholarship) TotalAmount() int {
	return s.ApplicationFees + s.ServiceCharge
}

// ScholarshipQuery carries the catalog search/filter/pagination parameters.
type ScholarshipQuery struct {
	Search   string
	Category ScholarshipCategory
	Degree   string
	Page     int
	Limit    int
	Sort     string
}

// ScholarshipPage is one page of catalog results.
type ScholarshipPage struct {
	Scholarships []Scholarship `json:"scholarships"`
	Total        int           `json:"total"`
	Page         int           `json:"page"`
	TotalPages   int           `json:"totalPages"`
}
