// internal/api/reviews.go
package api

import (
	"context"
	"net/http"
	"net/url"

	"scholarstream/internal/models"
)

// ReviewsAPI reads per-scholarship reviews anonymously; everything else is
// a secure call.
type ReviewsAPI struct {
	pub *PublicClient
	sec *SecureClient
}

func NewReviewsAPI(pub *PublicClient, sec *SecureClient) *ReviewsAPI {
	return &ReviewsAPI{pub: pub, sec: sec}
}

func (a *ReviewsAPI) ByScholarship(ctx context.Context, scholarshipID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := a.pub.do(ctx, http.MethodGet, "/reviews/scholarship/"+url.PathEscape(scholarshipID), nil, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (a *ReviewsAPI) All(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := a.sec.do(ctx, http.MethodGet, "/reviews", nil, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (a *ReviewsAPI) ByUser(ctx context.Context, email string) ([]models.Review, error) {
	var reviews []models.Review
	if err := a.sec.do(ctx, http.MethodGet, "/reviews/user/"+url.PathEscape(email), nil, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (a *ReviewsAPI) Create(ctx context.Context, review models.Review) error {
	return a.sec.do(ctx, http.MethodPost, "/reviews", nil, review, nil)
}

func (a *ReviewsAPI) Update(ctx context.Context, id string, review models.Review) error {
	return a.sec.do(ctx, http.MethodPut, "/reviews/"+url.PathEscape(id), nil, review, nil)
}

func (a *ReviewsAPI) Delete(ctx context.Context, id string) error {
	return a.sec.do(ctx, http.MethodDelete, "/reviews/"+url.PathEscape(id), nil, nil, nil)
}
