// internal/api/misc.go
package api

import (
	"context"
	"net/http"
	"net/url"

	"scholarstream/internal/models"
)

// TokenAPI is the backend token-issuance endpoint, keyed by email. It runs
// on the public client because it is what bootstraps the secure one.
type TokenAPI struct {
	pub *PublicClient
}

func NewTokenAPI(pub *PublicClient) *TokenAPI {
	return &TokenAPI{pub: pub}
}

// IssueToken implements session.TokenIssuer.
func (a *TokenAPI) IssueToken(ctx context.Context, email string) (string, error) {
	body := map[string]string{"email": email}
	var out struct {
		Token string `json:"token"`
	}
	if err := a.pub.do(ctx, http.MethodPost, "/jwt", nil, body, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// AnalyticsAPI fetches the admin dashboard aggregate.
type AnalyticsAPI struct {
	sec *SecureClient
}

func NewAnalyticsAPI(sec *SecureClient) *AnalyticsAPI {
	return &AnalyticsAPI{sec: sec}
}

func (a *AnalyticsAPI) Summary(ctx context.Context) (*models.AnalyticsSummary, error) {
	var summary models.AnalyticsSummary
	if err := a.sec.do(ctx, http.MethodGet, "/analytics", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// WishlistAPI saves scholarships for later from the detail view.
type WishlistAPI struct {
	sec *SecureClient
}

func NewWishlistAPI(sec *SecureClient) *WishlistAPI {
	return &WishlistAPI{sec: sec}
}

func (a *WishlistAPI) Add(ctx context.Context, email, scholarshipID string) error {
	body := map[string]string{"scholarshipId": scholarshipID}
	return a.sec.do(ctx, http.MethodPost, "/wishlist/"+url.PathEscape(email), nil, body, nil)
}
