package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/listenupapp/pressroom/internal/auth"
	"github.com/listenupapp/pressroom/internal/domain"
	domainerrors "github.com/listenupapp/pressroom/internal/errors"
	"github.com/listenupapp/pressroom/internal/store"
)

// PrincipalVerifier turns an identity-provider token into a principal.
type PrincipalVerifier interface {
	Verify(token string) (*domain.Principal, error)
}

// AuthService exchanges identity-provider tokens for session tokens and
// authenticates requests carrying those sessions.
type AuthService struct {
	store        store.Store
	verifier     PrincipalVerifier
	identity     *IdentityService
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	verifier PrincipalVerifier,
	identity *IdentityService,
	tokenService *auth.TokenService,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		store:        store,
		verifier:     verifier,
		identity:     identity,
		tokenService: tokenService,
		logger:       logger,
	}
}

// Session is the result of a successful exchange.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *domain.User
}

// Exchange verifies an identity token, resolves the user, and issues a session.
func (s *AuthService) Exchange(ctx context.Context, idToken string) (*Session, error) {
	if idToken == "" {
		return nil, domainerrors.InvalidField("id_token", "is required")
	}

	// 1. Verify the identity token.
	principal, err := s.verifier.Verify(idToken)
	if err != nil {
		s.logger.Debug("identity token rejected", "error", err)
		return nil, domainerrors.Unauthorized("Invalid identity token")
	}

	// 2. Resolve or create the local user.
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	// 3. Issue the session token.
	token, expiresAt, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	s.logger.Info("session issued", "user_id", user.ID, "role", user.Role)
	return &Session{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

// VerifyAccessToken validates a session token and returns the current user.
// The role comes from storage, so a changed role applies immediately.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("Invalid or expired token")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, domainerrors.Unauthorized("Invalid or expired token")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	return user, claims, nil
}
