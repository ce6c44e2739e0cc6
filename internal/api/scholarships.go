// internal/api/scholarships.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"scholarstream/internal/common/errors"
	"scholarstream/internal/common/validation"
	"scholarstream/internal/models"
)

// ScholarshipsAPI covers the catalog (public reads) and the admin CRUD
// surface (secure writes).
type ScholarshipsAPI struct {
	pub *PublicClient
	sec *SecureClient
}

func NewScholarshipsAPI(pub *PublicClient, sec *SecureClient) *ScholarshipsAPI {
	return &ScholarshipsAPI{pub: pub, sec: sec}
}

func (a *ScholarshipsAPI) List(ctx context.Context, q models.ScholarshipQuery) (*models.ScholarshipPage, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Category != "" {
		query.Set("category", string(q.Category))
	}
	if q.Degree != "" {
		query.Set("degree", q.Degree)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Sort != "" {
		query.Set("sort", q.Sort)
	}

	var page models.ScholarshipPage
	if err := a.pub.do(ctx, http.MethodGet, "/scholarships", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (a *ScholarshipsAPI) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := a.pub.do(ctx, http.MethodGet, "/scholarships/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (a *ScholarshipsAPI) Top(ctx context.Context, limit int) ([]models.Scholarship, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var scholarships []models.Scholarship
	if err := a.pub.do(ctx, http.MethodGet, "/scholarships/top", query, nil, &scholarships); err != nil {
		return nil, err
	}
	return scholarships, nil
}

// Related returns scholarships in the same category, excluding the one
// being viewed.
func (a *ScholarshipsAPI) Related(ctx context.Context, category models.ScholarshipCategory, excludeID string) ([]models.Scholarship, error) {
	path := fmt.Sprintf("/scholarships/related/%s/%s", url.PathEscape(string(category)), url.PathEscape(excludeID))
	var scholarships []models.Scholarship
	if err := a.pub.do(ctx, http.MethodGet, path, nil, nil, &scholarships); err != nil {
		return nil, err
	}
	return scholarships, nil
}

func (a *ScholarshipsAPI) Get(ctx context.Context, id string) (*models.Scholarship, error) {
	var scholarship models.Scholarship
	err := a.pub.do(ctx, http.MethodGet, "/scholarships/"+url.PathEscape(id), nil, nil, &scholarship)
	if errors.HasCode(err, errors.ErrCodeResourceNotFound) {
		return nil, errors.NewNotFoundError("scholarship", id)
	}
	if err != nil {
		return nil, err
	}
	return &scholarship, nil
}

func (a *ScholarshipsAPI) AdminList(ctx context.Context) ([]models.Scholarship, error) {
	var scholarships []models.Scholarship
	if err := a.sec.do(ctx, http.MethodGet, "/scholarships/admin/all", nil, nil, &scholarships); err != nil {
		return nil, err
	}
	return scholarships, nil
}

func (a *ScholarshipsAPI) Create(ctx context.Context, s models.Scholarship) error {
	if err := validateScholarship(s); err != nil {
		return err
	}
	return a.sec.do(ctx, http.MethodPost, "/scholarships", nil, s, nil)
}

func (a *ScholarshipsAPI) Update(ctx context.Context, id string, s models.Scholarship) error {
	if err := validateScholarship(s); err != nil {
		return err
	}
	return a.sec.do(ctx, http.MethodPut, "/scholarships/"+url.PathEscape(id), nil, s, nil)
}

func (a *ScholarshipsAPI) Delete(ctx context.Context, id string) error {
	return a.sec.do(ctx, http.MethodDelete, "/scholarships/"+url.PathEscape(id), nil, nil, nil)
}

// validateScholarship checks the document against the published schema
// before it leaves the client.
func validateScholarship(s models.Scholarship) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.NewValidationError(err.Error())
	}

	if err := validation.ValidateScholarshipDocument(doc); err != nil {
		return errors.NewValidationError(strings.TrimPrefix(err.Error(), "scholarship document invalid: "))
	}
	return nil
}
