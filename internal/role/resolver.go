// internal/role/resolver.go
package role

import (
	"context"
	"sync"

	"scholarstream/internal/common/errors"
	"scholarstream/internal/common/logger"
	"scholarstream/internal/models"
)

// State distinguishes "role still loading" from a resolved role. A pending
// state must never be read as student when deciding moderator/admin gates.
type State struct {
	Pending bool
	Role    models.Role
}

// Pending is the state before any resolution has landed.
func Pending() State {
	return State{Pending: true}
}

// Resolved wraps a known role.
func Resolved(r models.Role) State {
	return State{Role: r}
}

// Fetcher retrieves the role the backend holds for an email.
type Fetcher interface {
	FetchRole(ctx context.Context, email string) (models.Role, error)
}

// Resolver resolves a user's role once per authenticated session and
// caches it until invalidated on sign-out. Resolution failure leaves the
// state pending; it never fails open to an elevated role and never lets
// a caller mistake "loading" for "student".
type Resolver struct {
	fetcher Fetcher
	logger  logger.Logger

	mu    sync.RWMutex
	cache map[string]models.Role
}

func NewResolver(fetcher Fetcher, log logger.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		logger:  log.WithFields(map[string]interface{}{"component": "role-resolver"}),
		cache:   map[string]models.Role{},
	}
}

// Resolve returns the cached role or fetches it from the backend.
func (r *Resolver) Resolve(ctx context.Context, email string) (models.Role, error) {
	r.mu.RLock()
	cached, ok := r.cache[email]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	fetched, err := r.fetcher.FetchRole(ctx, email)
	if err != nil {
		r.logger.Warn("role resolution failed", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		return "", errors.NewRoleResolutionError(err)
	}

	role := models.ParseRole(string(fetched))

	r.mu.Lock()
	r.cache[email] = role
	r.mu.Unlock()

	return role, nil
}

// StateFor reports the resolution state without triggering a fetch.
func (r *Resolver) StateFor(email string) State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if role, ok := r.cache[email]; ok {
		return Resolved(role)
	}
	return Pending()
}

// Invalidate drops the cache; called on sign-out and identity change.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.cache = map[string]models.Role{}
	r.mu.Unlock()
}

// InvalidateUser drops one cached entry after an admin changes that
// user's role.
func (r *Resolver) InvalidateUser(email string) {
	r.mu.Lock()
	delete(r.cache, email)
	r.mu.Unlock()
}
