// internal/guard/guard.go
package guard

import (
	"scholarstream/internal/common/metrics"
	"scholarstream/internal/models"
	"scholarstream/internal/role"
	"scholarstream/internal/session"
)

// Navigation targets for denied access. Anonymous users go to sign-in;
// authenticated users with the wrong role go back to the dashboard root.
// The asymmetry is intentional.
const (
	SignInPath    = "/login"
	DashboardPath = "/dashboard"
)

type DecisionKind int

const (
	// Pending blocks rendering while session or role state is still
	// loading. A guard must never flash allowed or denied content during
	// that window.
	Pending DecisionKind = iota
	Allow
	Redirect
)

// Decision is the tagged result of a guard predicate.
type Decision struct {
	Kind   DecisionKind
	Target string // redirect target, set only for Redirect
}

func (d Decision) String() string {
	switch d.Kind {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	}
	return "pending"
}

func allow() Decision {
	return Decision{Kind: Allow}
}

func redirect(target string) Decision {
	return Decision{Kind: Redirect, Target: target}
}

func pending() Decision {
	return Decision{Kind: Pending}
}

// State is everything a guard predicate may look at.
type State struct {
	Session session.Snapshot
	Role    role.State
}

// Predicate is a pure function of the session/role state.
type Predicate func(State) Decision

// Auth admits authenticated sessions. Anonymous sessions are redirected
// to sign-in; the router remembers where they came from.
func Auth(s State) Decision {
	switch s.Session.State {
	case session.StateLoading:
		return pending()
	case session.StateAuthenticated:
		return allow()
	}
	return redirect(SignInPath)
}

// Moderator admits moderators and admins. It assumes it is nested inside
// Auth and treats the anonymous case like any other denial.
func Moderator(s State) Decision {
	// Anonymous falls through to Auth's sign-in redirect: denial is
	// denial, only the target differs.
	if d := Auth(s); d.Kind != Allow {
		return d
	}
	if s.Role.Pending {
		return pending()
	}
	if s.Role.Role.AtLeastModerator() {
		return allow()
	}
	return redirect(DashboardPath)
}

// Admin admits admins only.
func Admin(s State) Decision {
	if d := Auth(s); d.Kind != Allow {
		return d
	}
	if s.Role.Pending {
		return pending()
	}
	if s.Role.Role == models.RoleAdmin {
		return allow()
	}
	return redirect(DashboardPath)
}

// Chain composes guards. Pending anywhere blocks the whole chain; the
// first redirect wins; Allow requires every guard to allow.
type Chain []Predicate

func (c Chain) Evaluate(s State) Decision {
	for _, p := range c {
		d := p(s)
		if d.Kind != Allow {
			return d
		}
	}
	return allow()
}

// Named wraps a predicate with a metrics label.
func Named(name string, p Predicate) Predicate {
	return func(s State) Decision {
		d := p(s)
		metrics.GuardDecisions.WithLabelValues(name, d.String()).Inc()
		return d
	}
}
