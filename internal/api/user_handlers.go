package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/pressroom/internal/api/dto"
	"github.com/listenupapp/pressroom/internal/domain"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the signed-in user",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/users",
		Summary:     "List users",
		Description: "Returns every user (admin only)",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "setUserRole",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/users/{id}/role",
		Summary:     "Change user role",
		Description: "Promotes or demotes a user (admin only). Admins cannot demote themselves.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetUserRole)
}

// === DTOs ===

// AuthenticatedInput carries only the bearer token.
type AuthenticatedInput struct {
	Authorization string `header:"Authorization"`
}

// UserOutput wraps a user response for Huma.
type UserOutput struct {
	Body dto.UserResponse
}

// ListUsersResponse contains all users.
type ListUsersResponse struct {
	Users []dto.UserResponse `json:"users" doc:"Users"`
}

// ListUsersOutput wraps the list users response for Huma.
type ListUsersOutput struct {
	Body ListUsersResponse
}

// SetRoleRequest is the request body for changing a role.
type SetRoleRequest struct {
	Role string `json:"role,omitempty" doc:"MEMBER or ADMIN"`
}

// SetRoleInput wraps the set role request for Huma.
type SetRoleInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
	Body          SetRoleRequest
}

// === Handlers ===

func (s *Server) handleGetCurrentUser(ctx context.Context, input *AuthenticatedInput) (*UserOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: dto.UserFromDomain(user)}, nil
}

func (s *Server) handleListUsers(ctx context.Context, input *AuthenticatedInput) (*ListUsersOutput, error) {
	user, err := s.currentUser(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	users, err := s.services.Identity.ListUsers(ctx, user)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.UserResponse, len(users))
	for i, u := range users {
		resp[i] = dto.UserFromDomain(u)
	}
	return &ListUsersOutput{Body: ListUsersResponse{Users: resp}}, nil
}

func (s *Server) handleSetUserRole(ctx context.Context, input *SetRoleInput) (*UserOutput, error) {
	user, err := s.currentUser(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	updated, err := s.services.Identity.SetRole(ctx, user, input.ID, domain.Role(input.Body.Role))
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: dto.UserFromDomain(updated)}, nil
}
