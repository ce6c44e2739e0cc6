// internal/reviews/service_test.go
package reviews

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarstream/internal/common/errors"
	"scholarstream/internal/common/logger"
	"scholarstream/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeStore struct {
	created []models.Review
	updated []models.Review
	deleted []string
}

func (f *fakeStore) Create(_ context.Context, review models.Review) error {
	f.created = append(f.created, review)
	return nil
}

func (f *fakeStore) Update(_ context.Context, id string, review models.Review) error {
	review.ID = id
	f.updated = append(f.updated, review)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeApplications struct {
	applications []models.Application
	err          error
}

func (f *fakeApplications) ByUser(_ context.Context, _ string) ([]models.Application, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.applications, nil
}

func completedApplication(scholarshipID string) models.Application {
	return models.Application{
		ScholarshipID:     scholarshipID,
		UserEmail:         "jane@example.com",
		ApplicationStatus: models.ApplicationCompleted,
	}
}

func testAuthor() Author {
	return Author{Name: "Jane Student", Email: "jane@example.com", Role: models.RoleStudent}
}

func testInput() Input {
	return Input{
		ScholarshipID:  "sch-1",
		UniversityName: "Harvard University",
		Rating:         5,
		Comment:        "Great process.",
	}
}

func newTestService(t *testing.T, store *fakeStore, apps *fakeApplications) *Service {
	return NewService(store, apps, logger.NewTestLogger(t))
}

// ==========================
// Create Tests
// ==========================

func TestService_CreateWithCompletedApplication(t *testing.T) {
	store := &fakeStore{}
	apps := &fakeApplications{applications: []models.Application{completedApplication("sch-1")}}
	svc := newTestService(t, store, apps)

	err := svc.Create(context.Background(), testAuthor(), testInput())
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	review := store.created[0]
	assert.Equal(t, "sch-1", review.ScholarshipID)
	assert.Equal(t, "jane@example.com", review.UserEmail)
	assert.Equal(t, 5, review.Rating)
	assert.False(t, review.ReviewDate.IsZero())
}

func TestService_CreateWithoutCompletedApplicationRefused(t *testing.T) {
	tests := []struct {
		name         string
		applications []models.Application
	}{
		{name: "no applications at all"},
		{
			name: "application still pending",
			applications: []models.Application{{
				ScholarshipID:     "sch-1",
				ApplicationStatus: models.ApplicationPending,
			}},
		},
		{
			name:         "completed application for another scholarship",
			applications: []models.Application{completedApplication("sch-other")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			svc := newTestService(t, store, &fakeApplications{applications: tt.applications})

			err := svc.Create(context.Background(), testAuthor(), testInput())
			assert.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed))
			assert.Empty(t, store.created)
		})
	}
}

func TestService_CreateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{name: "rating too low", input: Input{ScholarshipID: "sch-1", Rating: 0, Comment: "x"}},
		{name: "rating too high", input: Input{ScholarshipID: "sch-1", Rating: 6, Comment: "x"}},
		{name: "empty comment", input: Input{ScholarshipID: "sch-1", Rating: 4}},
		{name: "missing scholarship id", input: Input{Rating: 4, Comment: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			apps := &fakeApplications{applications: []models.Application{completedApplication("sch-1")}}
			svc := newTestService(t, store, apps)

			err := svc.Create(context.Background(), testAuthor(), tt.input)
			assert.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeValidationFailed))
			assert.Empty(t, store.created)
		})
	}
}

// ==========================
// Update / Delete Tests
// ==========================

func TestService_UpdateOwnReview(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store, &fakeApplications{})

	existing := models.Review{ID: "rev-1", ScholarshipID: "sch-1", UserEmail: "jane@example.com", Rating: 3, Comment: "ok"}
	in := testInput()
	in.Rating = 4
	in.Comment = "Better than I thought."

	err := svc.Update(context.Background(), testAuthor(), existing, in)
	require.NoError(t, err)
	require.Len(t, store.updated, 1)
	assert.Equal(t, 4, store.updated[0].Rating)
	assert.Equal(t, "Better than I thought.", store.updated[0].Comment)
}

func TestService_UpdateSomeoneElsesReviewRefused(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store, &fakeApplications{})

	existing := models.Review{ID: "rev-1", ScholarshipID: "sch-1", UserEmail: "other@example.com"}
	err := svc.Update(context.Background(), testAuthor(), existing, testInput())
	assert.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAuthorization))
	assert.Empty(t, store.updated)
}

func TestService_DeleteOwnReview(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store, &fakeApplications{})

	existing := models.Review{ID: "rev-1", UserEmail: "jane@example.com"}
	err := svc.Delete(context.Background(), testAuthor(), existing)
	assert.NoError(t, err)
	assert.Equal(t, []string{"rev-1"}, store.deleted)
}

func TestService_ModeratorDeletesAnyReview(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store, &fakeApplications{})

	moderator := Author{Email: "mod@example.com", Role: models.RoleModerator}
	existing := models.Review{ID: "rev-1", UserEmail: "jane@example.com"}

	err := svc.Delete(context.Background(), moderator, existing)
	assert.NoError(t, err)
	assert.Equal(t, []string{"rev-1"}, store.deleted)
}

func TestService_StudentDeletingOthersReviewRefused(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(t, store, &fakeApplications{})

	existing := models.Review{ID: "rev-1", UserEmail: "other@example.com"}
	err := svc.Delete(context.Background(), testAuthor(), existing)
	assert.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAuthorization))
	assert.Empty(t, store.deleted)
}
