// internal/api/users.go
package api

import (
	"context"
	"net/http"
	"net/url"

	"scholarstream/internal/models"
)

// UsersAPI is the user directory: upsert on registration, role lookup for
// the resolver, and the admin management surface.
type UsersAPI struct {
	pub *PublicClient
	sec *SecureClient
}

func NewUsersAPI(pub *PublicClient, sec *SecureClient) *UsersAPI {
	return &UsersAPI{pub: pub, sec: sec}
}

// Upsert registers or refreshes the backend user record after sign-up or
// federated sign-in. Anonymous on purpose: it runs before a bearer token
// exists.
func (a *UsersAPI) Upsert(ctx context.Context, user models.User) error {
	return a.pub.do(ctx, http.MethodPost, "/users", nil, user, nil)
}

func (a *UsersAPI) List(ctx context.Context, search string) ([]models.User, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	var users []models.User
	if err := a.sec.do(ctx, http.MethodGet, "/users", query, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FetchRole implements role.Fetcher.
func (a *UsersAPI) FetchRole(ctx context.Context, email string) (models.Role, error) {
	var out struct {
		Role string `json:"role"`
	}
	if err := a.sec.do(ctx, http.MethodGet, "/users/role/"+url.PathEscape(email), nil, nil, &out); err != nil {
		return "", err
	}
	return models.ParseRole(out.Role), nil
}

func (a *UsersAPI) SetRole(ctx context.Context, id string, role models.Role) error {
	body := map[string]string{"role": string(role)}
	return a.sec.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id)+"/role", nil, body, nil)
}

func (a *UsersAPI) Delete(ctx context.Context, id string) error {
	return a.sec.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil, nil)
}
