// internal/account/service.go
package account

import (
	"context"

	"scholarstream/internal/common/errors"
	"scholarstream/internal/common/logger"
	"scholarstream/internal/models"
	"scholarstream/internal/role"
)

// Directory is the slice of the users API the service needs.
type Directory interface {
	List(ctx context.Context, search string) ([]models.User, error)
	SetRole(ctx context.Context, id string, role models.Role) error
	Delete(ctx context.Context, id string) error
}

// Service wraps the admin user-management surface with the client-side
// rules that never reach the wire.
type Service struct {
	users    Directory
	resolver *role.Resolver
	logger   logger.Logger
}

func NewService(users Directory, resolver *role.Resolver, log logger.Logger) *Service {
	return &Service{users: users, resolver: resolver, logger: log}
}

// List searches the user directory.
func (s *Service) List(ctx context.Context, search string) ([]models.User, error) {
	return s.users.List(ctx, search)
}

// SetRole promotes or demotes a user and drops any cached role for them
// so the next resolution sees the new tier.
func (s *Service) SetRole(ctx context.Context, target models.User, newRole models.Role) error {
	if err := s.users.SetRole(ctx, target.ID, newRole); err != nil {
		return err
	}
	s.resolver.InvalidateUser(target.Email)
	s.logger.Info("user role updated", map[string]interface{}{
		"user_id": target.ID,
		"role":    string(newRole),
	})
	return nil
}

// Delete removes a user. Deleting your own account is refused before any
// request is made; an admin locking themselves out is not a state the
// backend can undo.
func (s *Service) Delete(ctx context.Context, actorEmail string, target models.User) error {
	if target.Email == actorEmail {
		return errors.NewValidationError("cannot delete your own account")
	}
	if err := s.users.Delete(ctx, target.ID); err != nil {
		return err
	}
	s.resolver.InvalidateUser(target.Email)
	return nil
}
