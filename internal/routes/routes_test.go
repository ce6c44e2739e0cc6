// internal/routes/routes_test.go
package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scholarstream/internal/guard"
	"scholarstream/internal/models"
	"scholarstream/internal/role"
	"scholarstream/internal/session"
)

func anonymous() guard.State {
	return guard.State{Session: session.Snapshot{State: session.StateAnonymous}, Role: role.Pending()}
}

func signedInAs(r models.Role) guard.State {
	return guard.State{
		Session: session.Snapshot{State: session.StateAuthenticated},
		Role:    role.Resolved(r),
	}
}

func TestRouter_PublicPagesOpenToAnonymous(t *testing.T) {
	router := NewRouter()

	for _, path := range []string{Home, Scholarships, Login, Register} {
		res := router.Navigate(path, anonymous())
		assert.Equal(t, guard.Allow, res.Decision.Kind, path)
	}
}

func TestRouter_GuardedPagesByRole(t *testing.T) {
	router := NewRouter()

	tests := []struct {
		path     string
		state    guard.State
		wantKind guard.DecisionKind
	}{
		{Dashboard, anonymous(), guard.Redirect},
		{Dashboard, signedInAs(models.RoleStudent), guard.Allow},
		{MyApplications, signedInAs(models.RoleStudent), guard.Allow},

		{ManageApplications, signedInAs(models.RoleStudent), guard.Redirect},
		{ManageApplications, signedInAs(models.RoleModerator), guard.Allow},
		{AllReviews, signedInAs(models.RoleAdmin), guard.Allow},

		{ManageUsers, signedInAs(models.RoleModerator), guard.Redirect},
		{ManageUsers, signedInAs(models.RoleAdmin), guard.Allow},
		{Analytics, signedInAs(models.RoleStudent), guard.Redirect},
		{Analytics, signedInAs(models.RoleAdmin), guard.Allow},
	}

	for _, tt := range tests {
		res := router.Navigate(tt.path, tt.state)
		assert.Equal(t, tt.wantKind, res.Decision.Kind, "%s as %v", tt.path, tt.state.Role)
	}
}

// An anonymous hit on a guarded page records where the user was headed;
// sign-in consumes it to return them there.
func TestRouter_SignInRedirectRemembersOrigin(t *testing.T) {
	router := NewRouter()

	res := router.Navigate(MyApplications, anonymous())
	assert.Equal(t, guard.Redirect, res.Decision.Kind)
	assert.Equal(t, guard.SignInPath, res.Decision.Target)

	assert.Equal(t, MyApplications, router.ConsumeReturnPath())
	// Consumed: the next read falls back to the dashboard.
	assert.Equal(t, Dashboard, router.ConsumeReturnPath())
}

// A wrong-role redirect goes to the dashboard and records nothing; the
// user is signed in, there is nothing to come back to.
func TestRouter_RoleRedirectDoesNotRememberOrigin(t *testing.T) {
	router := NewRouter()

	res := router.Navigate(ManageUsers, signedInAs(models.RoleStudent))
	assert.Equal(t, guard.Redirect, res.Decision.Kind)
	assert.Equal(t, guard.DashboardPath, res.Decision.Target)

	assert.Equal(t, Dashboard, router.ConsumeReturnPath())
}

func TestRouter_UnknownPathAllows(t *testing.T) {
	router := NewRouter()
	res := router.Navigate("/does-not-exist", anonymous())
	assert.Equal(t, guard.Allow, res.Decision.Kind)
}

func TestRouter_LoadingBlocksGuardedNavigation(t *testing.T) {
	router := NewRouter()
	loading := guard.State{Session: session.Snapshot{State: session.StateLoading}, Role: role.Pending()}

	res := router.Navigate(Dashboard, loading)
	assert.Equal(t, guard.Pending, res.Decision.Kind)
}
