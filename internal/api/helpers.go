package api

import (
	"context"
	"strings"

	"github.com/listenupapp/pressroom/internal/domain"
	domainerrors "github.com/listenupapp/pressroom/internal/errors"
)

// currentUser resolves the caller from the Authorization header.
// No header means an anonymous caller (nil user, nil error); services decide
// whether anonymous is enough. A malformed header or a bad token is rejected.
func (s *Server) currentUser(ctx context.Context, authHeader string) (*domain.User, error) {
	if authHeader == "" {
		return nil, nil
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, domainerrors.Unauthorized("Invalid authorization header format")
	}

	user, _, err := s.services.Auth.VerifyAccessToken(ctx, strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}

	return user, nil
}

// authenticateRequest is currentUser for routes that always need a caller.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.User, error) {
	user, err := s.currentUser(ctx, authHeader)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.Unauthorized("Missing authorization header")
	}
	return user, nil
}
