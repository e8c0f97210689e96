package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/listenupapp/pressroom/internal/domain"
	"github.com/listenupapp/pressroom/internal/store"
)

func newResolveUser(id, externalID, email, name, avatar string) *domain.User {
	now := time.Now()
	return &domain.User{
		Entity:      domain.Entity{ID: id, CreatedAt: now, UpdatedAt: now},
		ExternalID:  externalID,
		Email:       email,
		DisplayName: name,
		AvatarURL:   avatar,
		Role:        domain.RoleMember,
	}
}

func TestResolveUser_CreatesOnFirstSight(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, created, err := s.ResolveUser(ctx, newResolveUser("user-1", "idp|42", "ada@example.com", "Ada Lovelace", ""), "Ada Lovelace")
	if err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	if !created {
		t.Error("created: got false, want true")
	}
	if got.ID != "user-1" {
		t.Errorf("ID: got %q, want %q", got.ID, "user-1")
	}
	if got.Role != domain.RoleMember {
		t.Errorf("Role: got %q, want %q", got.Role, domain.RoleMember)
	}
	if got.AvatarURL != "" {
		t.Errorf("AvatarURL: got %q, want empty", got.AvatarURL)
	}
}

func TestResolveUser_IsIdempotentAndReconciles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, _, err := s.ResolveUser(ctx, newResolveUser("user-1", "idp|42", "ada@example.com", "Ada", "https://img/a.png"), "Ada")
	if err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	if _, err := s.UpdateUserRole(ctx, first.ID, domain.RoleAdmin); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}

	// Second sight with a fresh candidate id and drifted profile.
	got, created, err := s.ResolveUser(ctx, newResolveUser("user-2", "idp|42", "ada@new.example.com", "Ada King", "https://img/b.png"), "Ada King")
	if err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	if created {
		t.Error("created: got true, want false")
	}
	if got.ID != first.ID {
		t.Errorf("ID: got %q, want %q", got.ID, first.ID)
	}
	if got.Email != "ada@new.example.com" {
		t.Errorf("Email: got %q, want %q", got.Email, "ada@new.example.com")
	}
	if got.DisplayName != "Ada King" {
		t.Errorf("DisplayName: got %q, want %q", got.DisplayName, "Ada King")
	}
	if got.AvatarURL != "https://img/b.png" {
		t.Errorf("AvatarURL: got %q, want %q", got.AvatarURL, "https://img/b.png")
	}
	if got.Role != domain.RoleAdmin {
		t.Errorf("Role: got %q, want %q (reconcile must not touch role)", got.Role, domain.RoleAdmin)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("ListUsers: got %d users, want 1", len(users))
	}
}

func TestResolveUser_EmptyProfileKeepsStoredValues(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, _, err := s.ResolveUser(ctx, newResolveUser("user-1", "idp|7", "grace@example.com", "Grace Hopper", "https://img/g.png"), "Grace Hopper"); err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}

	got, _, err := s.ResolveUser(ctx, newResolveUser("user-2", "idp|7", "", "", ""), "")
	if err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	if got.Email != "grace@example.com" {
		t.Errorf("Email: got %q, want %q", got.Email, "grace@example.com")
	}
	if got.DisplayName != "Grace Hopper" {
		t.Errorf("DisplayName: got %q, want %q", got.DisplayName, "Grace Hopper")
	}
	if got.AvatarURL != "https://img/g.png" {
		t.Errorf("AvatarURL: got %q, want %q", got.AvatarURL, "https://img/g.png")
	}
}

func TestGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser(t, s, "user-get", domain.RoleMember)

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.ExternalID != u.ExternalID {
		t.Errorf("ExternalID: got %q, want %q", got.ExternalID, u.ExternalID)
	}

	byExternal, err := s.GetUserByExternalID(ctx, u.ExternalID)
	if err != nil {
		t.Fatalf("GetUserByExternalID: %v", err)
	}
	if byExternal.ID != u.ID {
		t.Errorf("ID: got %q, want %q", byExternal.ID, u.ID)
	}

	if _, err := s.GetUser(ctx, "user-missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetUser missing: got %v, want ErrNotFound", err)
	}
}

func TestCreateUser_DuplicateExternalID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser(t, s, "user-a", domain.RoleMember)
	dup := newResolveUser("user-b", u.ExternalID, "b@example.com", "B", "")

	if err := s.CreateUser(ctx, dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("CreateUser duplicate: got %v, want ErrAlreadyExists", err)
	}
}

func TestUpdateUserRole_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.UpdateUserRole(context.Background(), "user-missing", domain.RoleAdmin); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateUserRole missing: got %v, want ErrNotFound", err)
	}
}
