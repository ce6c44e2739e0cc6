// internal/session/manager.go
package session

import (
	"context"
	"sync"

	"scholarstream/internal/common/logger"
	"scholarstream/internal/common/metrics"
	"scholarstream/internal/identity"
)

// State is the session lifecycle state. No gate decision may be made
// while the state is StateLoading.
type State int

const (
	StateLoading State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	}
	return "loading"
}

// IdentityProvider is the slice of the provider client the manager needs.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (*identity.Account, error)
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Account, error)
	SignInWithFederated(ctx context.Context, flow identity.FederatedFlow) (*identity.Account, error)
	UpdateProfile(ctx context.Context, idToken, displayName, photoURL string) error
	SignOut(ctx context.Context, idToken string) error
}

// TokenIssuer exchanges an authenticated email for a backend bearer token.
type TokenIssuer interface {
	IssueToken(ctx context.Context, email string) (string, error)
}

// Snapshot is an immutable view of the session for gate decisions and UI.
type Snapshot struct {
	State       State
	Account     *identity.Account
	BearerToken string
}

// Manager owns the identity session: the Loading -> Anonymous <->
// Authenticated state machine, the bearer token tied to the current
// identity, and change notification for subscribers.
type Manager struct {
	provider IdentityProvider
	issuer   TokenIssuer
	store    TokenStore
	logger   logger.Logger

	mu        sync.RWMutex
	state     State
	account   *identity.Account
	token     string
	listeners map[int]func(Snapshot)
	nextID    int
}

func NewManager(provider IdentityProvider, issuer TokenIssuer, store TokenStore, log logger.Logger) *Manager {
	return &Manager{
		provider:  provider,
		issuer:    issuer,
		store:     store,
		logger:    log.WithFields(map[string]interface{}{"component": "session"}),
		state:     StateLoading,
		listeners: map[int]func(Snapshot){},
	}
}

// Start runs the initial auth-state evaluation. The provider holds no
// persisted session in this runtime, so the first callback lands on
// Anonymous; any stale persisted token is cleared with it.
func (m *Manager) Start(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("failed to clear persisted token on startup", map[string]interface{}{
			"error": err.Error(),
		})
	}

	m.mu.Lock()
	m.state = StateAnonymous
	m.account = nil
	m.token = ""
	m.mu.Unlock()

	metrics.SessionTransitions.WithLabelValues(StateAnonymous.String()).Inc()
	m.notify()
}

func (m *Manager) SignUp(ctx context.Context, email, password string) error {
	account, err := m.provider.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	m.onIdentityChanged(ctx, account)
	return nil
}

func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	account, err := m.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}
	m.onIdentityChanged(ctx, account)
	return nil
}

func (m *Manager) SignInFederated(ctx context.Context, flow identity.FederatedFlow) error {
	account, err := m.provider.SignInWithFederated(ctx, flow)
	if err != nil {
		return err
	}
	m.onIdentityChanged(ctx, account)
	return nil
}

// SignOut always succeeds locally: the persisted token and in-memory
// session are cleared before the provider is told, and a failing provider
// call is logged, not surfaced.
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	idToken := ""
	if m.account != nil {
		idToken = m.account.IDToken
	}
	m.state = StateAnonymous
	m.account = nil
	m.token = ""
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("failed to clear persisted token", map[string]interface{}{
			"error": err.Error(),
		})
	}

	metrics.SessionTransitions.WithLabelValues(StateAnonymous.String()).Inc()
	m.notify()

	if idToken != "" {
		if err := m.provider.SignOut(ctx, idToken); err != nil {
			m.logger.Warn("provider sign-out failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// UpdateProfile mutates the identity record in place; no backend sync
// happens here.
func (m *Manager) UpdateProfile(ctx context.Context, displayName, photoURL string) error {
	m.mu.RLock()
	account := m.account
	m.mu.RUnlock()

	if account == nil {
		return nil
	}
	if err := m.provider.UpdateProfile(ctx, account.IDToken, displayName, photoURL); err != nil {
		return err
	}

	m.mu.Lock()
	if m.account != nil {
		m.account.DisplayName = displayName
		m.account.PhotoURL = photoURL
	}
	m.mu.Unlock()
	m.notify()
	return nil
}

// onIdentityChanged runs on every identity change: it requests a fresh
// bearer token keyed by the identity's email and persists it. Issuance
// failure leaves the session authenticated but unauthorized for secure
// calls; that is logged, not fatal.
func (m *Manager) onIdentityChanged(ctx context.Context, account *identity.Account) {
	token, err := m.issuer.IssueToken(ctx, account.Email)
	if err != nil {
		m.logger.Warn("bearer token issuance failed", map[string]interface{}{
			"email": account.Email,
			"error": err.Error(),
		})
		token = ""
	} else if err := m.store.Save(ctx, token); err != nil {
		m.logger.Warn("failed to persist bearer token", map[string]interface{}{
			"error": err.Error(),
		})
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.account = account
	m.token = token
	m.mu.Unlock()

	metrics.SessionTransitions.WithLabelValues(StateAuthenticated.String()).Inc()
	m.notify()
}

// Snapshot returns the current session view.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		State:       m.state,
		Account:     m.account,
		BearerToken: m.token,
	}
}

// BearerToken returns the current bearer token, falling back to the
// persisted copy.
func (m *Manager) BearerToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	token := m.token
	m.mu.RUnlock()
	if token != "" {
		return token, nil
	}
	return m.store.Load(ctx)
}

// Subscribe registers a listener for session changes and returns its
// cancel function.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify() {
	m.mu.RLock()
	snap := Snapshot{State: m.state, Account: m.account, BearerToken: m.token}
	fns := make([]func(Snapshot), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
}
