// internal/identity/provider.go
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scholarstream/internal/common/errors"
)

// Account is the provider-side identity record. The IDToken proves the
// identity to this client only; backend calls use a separately issued
// bearer token.
type Account struct {
	UID         string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	IDToken     string `json:"idToken,omitempty"`
}

// FederatedCredential is what a completed provider-hosted sign-in hands back.
type FederatedCredential struct {
	ProviderID  string
	AccessToken string
}

// FederatedFlow models the provider-hosted popup. Implementations return
// ErrFlowAborted when the user closes the window before completing.
type FederatedFlow interface {
	Authenticate(ctx context.Context) (*FederatedCredential, error)
}

// ErrFlowAborted is returned by a FederatedFlow when the user cancels.
var ErrFlowAborted = fmt.Errorf("federated flow aborted")

// Provider is a REST client for the external identity provider.
type Provider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewProvider(baseURL, apiKey string, timeout time.Duration) *Provider {
	return &Provider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type accountPayload struct {
	Email             string `json:"email,omitempty"`
	Password          string `json:"password,omitempty"`
	IDToken           string `json:"idToken,omitempty"`
	DisplayName       string `json:"displayName,omitempty"`
	PhotoURL          string `json:"photoUrl,omitempty"`
	ProviderID        string `json:"providerId,omitempty"`
	AccessToken       string `json:"accessToken,omitempty"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type providerErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignUp creates a new email/password account. Malformed or duplicate
// emails and weak passwords are the provider's call; its reason comes
// back inside the CredentialError.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*Account, error) {
	account, err := p.post(ctx, "accounts:signUp", &accountPayload{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		if reason, ok := rejectionReason(err); ok {
			return nil, errors.NewCredentialError(reason)
		}
		return nil, err
	}
	return account, nil
}

// SignInWithPassword authenticates an existing account. The provider may
// collapse "not found" and "wrong password" into one rejection code.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*Account, error) {
	account, err := p.post(ctx, "accounts:signInWithPassword", &accountPayload{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		if reason, ok := rejectionReason(err); ok {
			return nil, errors.NewInvalidCredentialError(reason)
		}
		return nil, err
	}
	return account, nil
}

// SignInWithFederated runs a provider-hosted flow and exchanges its
// credential for an account. An aborted flow maps to PopupClosedError.
func (p *Provider) SignInWithFederated(ctx context.Context, flow FederatedFlow) (*Account, error) {
	cred, err := flow.Authenticate(ctx)
	if err != nil {
		if err == ErrFlowAborted {
			return nil, errors.NewPopupClosedError()
		}
		return nil, errors.NewNetworkError(err)
	}

	account, err := p.post(ctx, "accounts:signInWithIdp", &accountPayload{
		ProviderID:        cred.ProviderID,
		AccessToken:       cred.AccessToken,
		ReturnSecureToken: true,
	})
	if err != nil {
		if reason, ok := rejectionReason(err); ok {
			return nil, errors.NewInvalidCredentialError(reason)
		}
		return nil, err
	}
	return account, nil
}

// UpdateProfile mutates the identity record in place. There is no backend
// sync here; callers upsert the backend user separately if they need to.
func (p *Provider) UpdateProfile(ctx context.Context, idToken, displayName, photoURL string) error {
	_, err := p.post(ctx, "accounts:update", &accountPayload{
		IDToken:           idToken,
		DisplayName:       displayName,
		PhotoURL:          photoURL,
		ReturnSecureToken: false,
	})
	return err
}

// SignOut revokes the provider session. Failures are the caller's to log;
// local session teardown never waits on this.
func (p *Provider) SignOut(ctx context.Context, idToken string) error {
	_, err := p.post(ctx, "accounts:signOut", &accountPayload{IDToken: idToken})
	return err
}

// rejection wraps a 4xx provider response so callers can map it to the
// right credential error.
type rejection struct {
	reason string
}

func (r *rejection) Error() string { return r.reason }

func rejectionReason(err error) (string, bool) {
	if r, ok := err.(*rejection); ok {
		return r.reason, true
	}
	return "", false
}

func (p *Provider) post(ctx context.Context, action string, payload *accountPayload) (*Account, error) {
	endpoint := fmt.Sprintf("%s/v1/%s?key=%s", p.baseURL, action, p.apiKey)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError(err)
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var perr providerErrorBody
		if err := json.Unmarshal(raw, &perr); err == nil && perr.Error.Message != "" {
			return nil, &rejection{reason: perr.Error.Message}
		}
		return nil, &rejection{reason: fmt.Sprintf("provider rejected %s with status %d", action, resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewNetworkError(fmt.Errorf("%s returned status %d", action, resp.StatusCode))
	}

	var account Account
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &account); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", action, err)
		}
	}
	return &account, nil
}
