// cmd/scholarstream/app_test.go
package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarstream/internal/common/logger"
	"scholarstream/internal/common/observability"
	"scholarstream/internal/identity"
	"scholarstream/internal/models"
	"scholarstream/internal/role"
	"scholarstream/internal/session"
)

// ==========================
// Test Helper Functions
// ==========================

type stubProvider struct{}

func (stubProvider) SignUp(_ context.Context, email, _ string) (*identity.Account, error) {
	return &identity.Account{Email: email, IDToken: "id-token"}, nil
}

func (stubProvider) SignInWithPassword(_ context.Context, email, _ string) (*identity.Account, error) {
	return &identity.Account{Email: email, IDToken: "id-token"}, nil
}

func (stubProvider) SignInWithFederated(_ context.Context, _ identity.FederatedFlow) (*identity.Account, error) {
	return &identity.Account{Email: "federated@example.com", IDToken: "id-token"}, nil
}

func (stubProvider) UpdateProfile(_ context.Context, _, _, _ string) error { return nil }

func (stubProvider) SignOut(_ context.Context, _ string) error { return nil }

type stubIssuer struct{}

func (stubIssuer) IssueToken(_ context.Context, _ string) (string, error) {
	return "bearer-token", nil
}

// mutableFetcher lets a test change the backend-held role between
// sign-ins, the way an admin demotion from another client would.
type mutableFetcher struct {
	mu    sync.Mutex
	role  models.Role
	calls int
}

func (f *mutableFetcher) FetchRole(_ context.Context, _ string) (models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.role, nil
}

func (f *mutableFetcher) setRole(r models.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.role = r
}

func (f *mutableFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestApp(t *testing.T, fetcher *mutableFetcher) *application {
	log := logger.NewTestLogger(t)
	return &application{
		session:  session.NewManager(stubProvider{}, stubIssuer{}, session.NewMemoryStore(), log),
		resolver: role.NewResolver(fetcher, log),
		obs:      &observability.Observability{},
		logger:   log,
	}
}

// ==========================
// Role Cache Lifecycle Tests
// ==========================

func TestAppRun_AuthenticatedSnapshotWarmsRole(t *testing.T) {
	fetcher := &mutableFetcher{role: models.RoleModerator}
	app := newTestApp(t, fetcher)
	ctx := context.Background()

	unsubscribe := app.run(ctx)
	defer unsubscribe()

	app.session.Start(ctx)
	require.NoError(t, app.session.SignIn(ctx, "mod@example.com", "secret"))

	require.Eventually(t, func() bool {
		return !app.resolver.StateFor("mod@example.com").Pending
	}, time.Second, 5*time.Millisecond)

	got, err := app.resolver.Resolve(ctx, "mod@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, got)
	assert.Equal(t, 1, fetcher.callCount())
}

// A role cached during one session must not leak into the next. The
// backend demotes the user while they are signed out; the next sign-in
// has to fetch the new role rather than replay the cached one.
func TestAppRun_SignOutDropsRoleCache(t *testing.T) {
	fetcher := &mutableFetcher{role: models.RoleModerator}
	app := newTestApp(t, fetcher)
	ctx := context.Background()

	unsubscribe := app.run(ctx)
	defer unsubscribe()

	app.session.Start(ctx)
	require.NoError(t, app.session.SignIn(ctx, "mod@example.com", "secret"))
	require.Eventually(t, func() bool {
		return !app.resolver.StateFor("mod@example.com").Pending
	}, time.Second, 5*time.Millisecond)

	// Demoted server-side by another client while signed in here.
	fetcher.setRole(models.RoleStudent)

	app.session.SignOut(ctx)
	assert.True(t, app.resolver.StateFor("mod@example.com").Pending,
		"sign-out must drop the cached role")

	require.NoError(t, app.session.SignIn(ctx, "mod@example.com", "secret"))
	require.Eventually(t, func() bool {
		return fetcher.callCount() == 2
	}, time.Second, 5*time.Millisecond)

	got, err := app.resolver.Resolve(ctx, "mod@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, got)
}
