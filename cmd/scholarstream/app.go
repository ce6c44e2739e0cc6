// cmd/scholarstream/app.go
package main

import (
	"context"

	"scholarstream/internal/account"
	"scholarstream/internal/api"
	"scholarstream/internal/checkout"
	"scholarstream/internal/common/logger"
	"scholarstream/internal/common/observability"
	"scholarstream/internal/reviews"
	"scholarstream/internal/role"
	"scholarstream/internal/routes"
	"scholarstream/internal/session"
)

// application bundles the wired client surfaces. It reacts to session
// changes so role state is warm before any guarded navigation happens.
type application struct {
	session      *session.Manager
	router       *routes.Router
	resolver     *role.Resolver
	scholarships *api.ScholarshipsAPI
	applications *api.ApplicationsAPI
	payments     *api.PaymentsAPI
	analytics    *api.AnalyticsAPI
	wishlist     *api.WishlistAPI
	checkout     *checkout.Sequencer
	reviews      *reviews.Service
	account      *account.Service
	obs          *observability.Observability

	logger logger.Logger
}

// run subscribes to session transitions and kicks off role resolution as
// soon as a user is authenticated. Resolution failures leave the role
// pending; guarded routes stay closed until a retry succeeds. Any
// transition out of authenticated drops the role cache, so the next
// sign-in resolves a fresh role instead of reusing the previous
// session's.
func (a *application) run(ctx context.Context) func() {
	return a.session.Subscribe(func(snap session.Snapshot) {
		a.obs.RecordSessionEvent(ctx, snap.State.String())

		if snap.State != session.StateAuthenticated || snap.Account == nil {
			a.resolver.Invalidate()
			return
		}
		email := snap.Account.Email
		go func() {
			if _, err := a.resolver.Resolve(ctx, email); err != nil {
				a.logger.Warn("role resolution failed, role stays pending", map[string]interface{}{
					"user_email": email,
					"error":      err.Error(),
				})
			}
		}()
	})
}
