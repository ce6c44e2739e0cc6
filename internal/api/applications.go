// internal/api/applications.go
package api

import (
	"context"
	"net/http"
	"net/url"

	"scholarstream/internal/models"
)

// ApplicationsAPI is the moderator/student application surface; every call
// goes through the secure client.
type ApplicationsAPI struct {
	sec *SecureClient
}

func NewApplicationsAPI(sec *SecureClient) *ApplicationsAPI {
	return &ApplicationsAPI{sec: sec}
}

// All lists every application, optionally filtered by status.
func (a *ApplicationsAPI) All(ctx context.Context, status models.ApplicationStatus) ([]models.Application, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	var applications []models.Application
	if err := a.sec.do(ctx, http.MethodGet, "/applications/all", query, nil, &applications); err != nil {
		return nil, err
	}
	return applications, nil
}

func (a *ApplicationsAPI) ByUser(ctx context.Context, email string) ([]models.Application, error) {
	var applications []models.Application
	if err := a.sec.do(ctx, http.MethodGet, "/applications/user/"+url.PathEscape(email), nil, nil, &applications); err != nil {
		return nil, err
	}
	return applications, nil
}

func (a *ApplicationsAPI) Create(ctx context.Context, app models.Application) error {
	return a.sec.do(ctx, http.MethodPost, "/applications", nil, app, nil)
}

func (a *ApplicationsAPI) Delete(ctx context.Context, id string) error {
	return a.sec.do(ctx, http.MethodDelete, "/applications/"+url.PathEscape(id), nil, nil, nil)
}

func (a *ApplicationsAPI) SetStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	body := map[string]string{"status": string(status)}
	return a.sec.do(ctx, http.MethodPatch, "/applications/"+url.PathEscape(id)+"/status", nil, body, nil)
}

func (a *ApplicationsAPI) SetFeedback(ctx context.Context, id, feedback string) error {
	body := map[string]string{"feedback": feedback}
	return a.sec.do(ctx, http.MethodPatch, "/applications/"+url.PathEscape(id)+"/feedback", nil, body, nil)
}
