// internal/identity/provider_test.go
package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarstream/internal/common/errors"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestProvider(serverURL string) *Provider {
	return NewProvider(serverURL, "test-api-key", 5*time.Second)
}

func writeAccount(w http.ResponseWriter, email string) {
	json.NewEncoder(w).Encode(map[string]string{
		"localId": "uid-1",
		"email":   email,
		"idToken": "id-token-1",
	})
}

func writeRejection(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{"code": 400, "message": message},
	})
}

type staticFlow struct {
	cred *FederatedCredential
	err  error
}

func (f *staticFlow) Authenticate(context.Context) (*FederatedCredential, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cred, nil
}

// ==========================
// Sign-Up / Sign-In Tests
// ==========================

func TestProvider_SignUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:signUp", r.URL.Path)
		assert.Equal(t, "test-api-key", r.URL.Query().Get("key"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "new@example.com", payload["email"])
		assert.Equal(t, true, payload["returnSecureToken"])

		writeAccount(w, "new@example.com")
	}))
	defer server.Close()

	account, err := newTestProvider(server.URL).SignUp(context.Background(), "new@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", account.UID)
	assert.Equal(t, "id-token-1", account.IDToken)
}

func TestProvider_SignUpRejectionIsCredentialError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeRejection(w, "EMAIL_EXISTS")
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).SignUp(context.Background(), "dup@example.com", "secret123")
	assert.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeCredential))
	assert.Contains(t, err.Error(), "EMAIL_EXISTS")
}

// The provider collapses "no such account" and "wrong password" into one
// rejection; callers get a single invalid-credential error either way.
func TestProvider_SignInRejectionIsInvalidCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeRejection(w, "INVALID_LOGIN_CREDENTIALS")
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL).SignInWithPassword(context.Background(), "who@example.com", "wrong")
	assert.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidCredential))
}

func TestProvider_SignInWithPassword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:signInWithPassword", r.URL.Path)
		writeAccount(w, "jane@example.com")
	}))
	defer server.Close()

	account, err := newTestProvider(server.URL).SignInWithPassword(context.Background(), "jane@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", account.Email)
}

// ==========================
// Federated Flow Tests
// ==========================

func TestProvider_FederatedSignIn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:signInWithIdp", r.URL.Path)
		writeAccount(w, "fed@example.com")
	}))
	defer server.Close()

	flow := &staticFlow{cred: &FederatedCredential{ProviderID: "google.com", AccessToken: "ya29"}}
	account, err := newTestProvider(server.URL).SignInWithFederated(context.Background(), flow)
	require.NoError(t, err)
	assert.Equal(t, "fed@example.com", account.Email)
}

// Closing the popup is a user decision, not a failure: it maps to the
// dedicated popup-closed error so the UI can stay quiet.
func TestProvider_FederatedAbortIsPopupClosed(t *testing.T) {
	flow := &staticFlow{err: ErrFlowAborted}
	_, err := newTestProvider("http://unused").SignInWithFederated(context.Background(), flow)
	assert.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodePopupClosed))
}

// ==========================
// Profile / Sign-Out Tests
// ==========================

func TestProvider_UpdateProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:update", r.URL.Path)

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "id-token-1", payload["idToken"])
		assert.Equal(t, "New Name", payload["displayName"])

		writeAccount(w, "jane@example.com")
	}))
	defer server.Close()

	err := newTestProvider(server.URL).UpdateProfile(context.Background(), "id-token-1", "New Name", "https://example.com/p.png")
	assert.NoError(t, err)
}

func TestProvider_SignOutPropagatesFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeRejection(w, "INVALID_ID_TOKEN")
	}))
	defer server.Close()

	err := newTestProvider(server.URL).SignOut(context.Background(), "stale-token")
	assert.Error(t, err)
}
