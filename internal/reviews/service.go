// internal/reviews/service.go
package reviews

import (
	"context"
	"fmt"
	"strings"
	"time"

	"scholarstream/internal/common/errors"
	"scholarstream/internal/common/logger"
	"scholarstream/internal/common/validation"
	"scholarstream/internal/models"
)

// Author is the signed-in user writing or editing a review.
type Author struct {
	Name  string
	Email string
	Photo string
	Role  models.Role
}

// Input is the review form as submitted.
type Input struct {
	ScholarshipID  string
	UniversityName string
	Rating         int
	Comment        string
}

// Store is the slice of the reviews API the service needs.
type Store interface {
	Create(ctx context.Context, review models.Review) error
	Update(ctx context.Context, id string, review models.Review) error
	Delete(ctx context.Context, id string) error
}

// ApplicationLister checks the author's application history.
type ApplicationLister interface {
	ByUser(ctx context.Context, email string) ([]models.Application, error)
}

// Service enforces the review rules the backend trusts the client to
// check first: only students with a completed application for a
// scholarship may review it, and only the owner may edit their review.
type Service struct {
	reviews      Store
	applications ApplicationLister
	logger       logger.Logger
	now          func() time.Time
}

func NewService(reviews Store, applications ApplicationLister, log logger.Logger) *Service {
	return &Service{
		reviews:      reviews,
		applications: applications,
		logger:       log,
		now:          time.Now,
	}
}

// Create validates the input, verifies the author has a completed
// application for the scholarship, and posts the review.
func (s *Service) Create(ctx context.Context, author Author, in Input) error {
	if err := validateInput(in); err != nil {
		return err
	}

	ok, err := s.hasCompletedApplication(ctx, author.Email, in.ScholarshipID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.NewValidationError("a review requires a completed application for this scholarship")
	}

	review := models.Review{
		ScholarshipID:  in.ScholarshipID,
		UniversityName: in.UniversityName,
		UserEmail:      author.Email,
		UserName:       author.Name,
		UserPhoto:      author.Photo,
		Rating:         in.Rating,
		Comment:        in.Comment,
		ReviewDate:     s.now(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return err
	}
	s.logger.Info("review created", map[string]interface{}{
		"scholarship_id": in.ScholarshipID,
		"user_email":     author.Email,
	})
	return nil
}

// Update lets the owner change the rating and comment of their review.
func (s *Service) Update(ctx context.Context, author Author, existing models.Review, in Input) error {
	if existing.UserEmail != author.Email {
		return errors.NewAuthorizationError(403, "/reviews/"+existing.ID)
	}
	if err := validateInput(in); err != nil {
		return err
	}
	existing.Rating = in.Rating
	existing.Comment = in.Comment
	existing.ReviewDate = s.now()
	return s.reviews.Update(ctx, existing.ID, existing)
}

// Delete removes a review. Owners delete their own; moderators and
// admins may delete any.
func (s *Service) Delete(ctx context.Context, author Author, existing models.Review) error {
	if existing.UserEmail != author.Email && !author.Role.AtLeastModerator() {
		return errors.NewAuthorizationError(403, "/reviews/"+existing.ID)
	}
	return s.reviews.Delete(ctx, existing.ID)
}

func (s *Service) hasCompletedApplication(ctx context.Context, email, scholarshipID string) (bool, error) {
	applications, err := s.applications.ByUser(ctx, email)
	if err != nil {
		return false, err
	}
	for _, app := range applications {
		if app.ScholarshipID == scholarshipID && app.ApplicationStatus == models.ApplicationCompleted {
			return true, nil
		}
	}
	return false, nil
}

func validateInput(in Input) error {
	result := validation.ValidateInput(map[string]interface{}{
		"scholarshipId":  in.ScholarshipID,
		"rating":         in.Rating,
		"comment":        in.Comment,
		"universityName": in.UniversityName,
	}, validation.ReviewInputSchema())
	if !result.Valid {
		details := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			details = append(details, fmt.Sprintf("%s: %s", e.Field, e.Message))
		}
		return errors.NewValidationError(strings.Join(details, "; "))
	}
	return nil
}
