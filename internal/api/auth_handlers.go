package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/pressroom/internal/api/dto"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createSession",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/session",
		Summary:     "Create session",
		Description: "Exchanges an identity provider token for a pressroom access token. The user is created on first sign-in.",
		Tags:        []string{"Authentication"},
	}, s.handleCreateSession)
}

// === DTOs ===

// CreateSessionInput wraps the session request for Huma.
type CreateSessionInput struct {
	Body dto.SessionRequest
}

// SessionOutput wraps the session response for Huma.
type SessionOutput struct {
	Body dto.SessionResponse
}

// === Handlers ===

func (s *Server) handleCreateSession(ctx context.Context, input *CreateSessionInput) (*SessionOutput, error) {
	session, err := s.services.Auth.Exchange(ctx, input.Body.IDToken)
	if err != nil {
		return nil, err
	}

	return &SessionOutput{
		Body: dto.SessionResponse{
			AccessToken: session.AccessToken,
			TokenType:   "Bearer",
			ExpiresAt:   session.ExpiresAt,
			User:        dto.UserFromDomain(session.User),
		},
	}, nil
}
