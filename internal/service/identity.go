package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/listenupapp/pressroom/internal/access"
	"github.com/listenupapp/pressroom/internal/domain"
	domainerrors "github.com/listenupapp/pressroom/internal/errors"
	"github.com/listenupapp/pressroom/internal/id"
	"github.com/listenupapp/pressroom/internal/store"
)

// IdentityService maps identity-provider principals to local users.
type IdentityService struct {
	store           store.Store
	bootstrapAdmins []string
	logger          *slog.Logger
	now             func() time.Time
}

// NewIdentityService creates a new identity service. Principals whose
// external id is in bootstrapAdmins become admins the first time they are seen.
func NewIdentityService(store store.Store, bootstrapAdmins []string, logger *slog.Logger) *IdentityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityService{
		store:           store,
		bootstrapAdmins: bootstrapAdmins,
		logger:          logger,
		now:             time.Now,
	}
}

// Resolve returns the user for a principal, creating it on first sight and
// reconciling profile drift afterwards. A nil principal is anonymous and
// resolves to a nil user without error.
func (s *IdentityService) Resolve(ctx context.Context, p *domain.Principal) (*domain.User, error) {
	if p == nil {
		return nil, nil
	}
	if strings.TrimSpace(p.ExternalID) == "" {
		return nil, domainerrors.Unauthorized("Identity is missing a subject")
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user id: %w", err)
	}

	role := domain.RoleMember
	if slices.Contains(s.bootstrapAdmins, p.ExternalID) {
		role = domain.RoleAdmin
	}

	candidate := &domain.User{
		Entity:      domain.Entity{ID: userID},
		ExternalID:  p.ExternalID,
		Email:       p.Email,
		DisplayName: p.DisplayName(),
		AvatarURL:   p.AvatarURL,
		Role:        role,
	}
	candidate.InitTimestamps(s.now())

	// Only a real profile name overwrites the stored one, never the email fallback.
	user, created, err := s.store.ResolveUser(ctx, candidate, p.ProfileName())
	if err != nil {
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	if created {
		s.logger.Info("user created",
			"user_id", user.ID,
			"external_id", user.ExternalID,
			"role", user.Role,
		)
	}
	return user, nil
}

// ListUsers returns every user. Admin only.
func (s *IdentityService) ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if d := access.RequireAdmin(actor); d.Denied() {
		return nil, d.Err()
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetRole changes a user's role. Admin only, and admins cannot demote themselves.
func (s *IdentityService) SetRole(ctx context.Context, actor *domain.User, userID string, role domain.Role) (*domain.User, error) {
	if d := access.RequireAdmin(actor); d.Denied() {
		return nil, d.Err()
	}
	if !role.Valid() {
		return nil, domainerrors.InvalidField("role", "must be one of MEMBER, ADMIN")
	}
	if actor.ID == userID && role != domain.RoleAdmin {
		return nil, domainerrors.Validation("You cannot remove your own admin role")
	}

	user, err := s.store.UpdateUserRole(ctx, userID, role)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("update user role: %w", err)
	}

	s.logger.Info("user role changed", "user_id", user.ID, "role", user.Role, "actor_id", actor.ID)
	return user, nil
}
