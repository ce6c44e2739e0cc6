// internal/models/review.go
package models

import "time"

type Review struct {
	ID             string    `json:"id,omitempty"`
	ScholarshipID  string    `json:"scholarshipId"`
	UniversityName string    `json:"universityName,omitempty"`
	UserEmail      string    `json:"userEmail"`
	UserName       string    `json:"userName,omitempty"`
	UserPhoto      string    `json:"userPhoto,omitempty"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment"`
	ReviewDate     time.Time `json:"reviewDate"`
}
