// internal/routes/routes.go
package routes

import (
	"sync"

	"scholarstream/internal/guard"
)

// Route paths mirrored from the web app.
const (
	Home               = "/"
	Scholarships       = "/scholarships"
	ScholarshipDetail  = "/scholarship/:id"
	Login              = "/login"
	Register           = "/register"
	Checkout           = "/checkout/:id"
	PaymentSuccess     = "/payment-success"
	PaymentFailed      = "/payment-failed"
	Dashboard          = "/dashboard"
	MyProfile          = "/dashboard/my-profile"
	MyApplications     = "/dashboard/my-applications"
	MyReviews          = "/dashboard/my-reviews"
	ManageApplications = "/dashboard/manage-applications"
	AllReviews         = "/dashboard/all-reviews"
	AddScholarship     = "/dashboard/add-scholarship"
	ManageScholarships = "/dashboard/manage-scholarships"
	ManageUsers        = "/dashboard/manage-users"
	Analytics          = "/dashboard/analytics"
)

// Resolution is the router's answer for a navigation attempt.
type Resolution struct {
	Decision guard.Decision
	Path     string // the path that was asked for
}

// Router maps paths to guard chains and remembers the origin of an auth
// redirect so sign-in can send the user back.
type Router struct {
	table map[string]guard.Chain

	mu         sync.Mutex
	returnPath string
}

// NewRouter builds the route table. Public pages carry no guards; the
// checkout and dashboard tiers nest Auth, Moderator and Admin the same
// way the web app nests its route wrappers.
func NewRouter() *Router {
	authOnly := guard.Chain{guard.Named("auth", guard.Auth)}
	moderator := guard.Chain{guard.Named("auth", guard.Auth), guard.Named("moderator", guard.Moderator)}
	admin := guard.Chain{guard.Named("auth", guard.Auth), guard.Named("admin", guard.Admin)}

	return &Router{
		table: map[string]guard.Chain{
			Home:              nil,
			Scholarships:      nil,
			ScholarshipDetail: nil,
			Login:             nil,
			Register:          nil,

			Checkout:       authOnly,
			PaymentSuccess: authOnly,
			PaymentFailed:  authOnly,

			Dashboard:      authOnly,
			MyProfile:      authOnly,
			MyApplications: authOnly,
			MyReviews:      authOnly,

			ManageApplications: moderator,
			AllReviews:         moderator,

			AddScholarship:     admin,
			ManageScholarships: admin,
			ManageUsers:        admin,
			Analytics:          admin,
		},
	}
}

// Navigate evaluates the guard chain for a path. An auth redirect records
// the origin so the user returns after re-authenticating.
func (r *Router) Navigate(path string, state guard.State) Resolution {
	chain, ok := r.table[path]
	if !ok {
		// Unknown paths render the error page; no guard applies.
		return Resolution{Decision: guard.Decision{Kind: guard.Allow}, Path: path}
	}

	decision := chain.Evaluate(state)
	if decision.Kind == guard.Redirect && decision.Target == guard.SignInPath {
		r.RememberOrigin(path)
	}
	return Resolution{Decision: decision, Path: path}
}

// RememberOrigin stores the path to return to after sign-in.
func (r *Router) RememberOrigin(path string) {
	r.mu.Lock()
	r.returnPath = path
	r.mu.Unlock()
}

// ConsumeReturnPath pops the remembered origin, defaulting to the
// dashboard root.
func (r *Router) ConsumeReturnPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	path := r.returnPath
	r.returnPath = ""
	if path == "" {
		return Dashboard
	}
	return path
}
