// Package identity verifies tokens minted by the external identity provider
// and turns them into principals.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/listenupapp/pressroom/internal/domain"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid identity token")

// Claims are the identity-provider claims we read.
type Claims struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
	jwt.RegisteredClaims
}

// Config configures a Verifier.
type Config struct {
	Secret   []byte
	Issuer   string // optional
	Audience string // optional
	Leeway   time.Duration
}

// Verifier checks HS256 identity tokens.
type Verifier struct {
	secret []byte
	opts   []jwt.ParserOption
}

// NewVerifier creates a verifier. The secret must be non-empty.
func NewVerifier(cfg Config) (*Verifier, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("identity: secret is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &Verifier{secret: cfg.Secret, opts: opts}, nil
}

// Verify checks signature, issuer, audience and expiry and returns the principal.
func (v *Verifier) Verify(tokenString string) (*domain.Principal, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, v.opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &domain.Principal{
		ExternalID: claims.Subject,
		Email:      strings.TrimSpace(claims.Email),
		FirstName:  strings.TrimSpace(claims.GivenName),
		LastName:   strings.TrimSpace(claims.FamilyName),
		AvatarURL:  strings.TrimSpace(claims.Picture),
	}, nil
}
