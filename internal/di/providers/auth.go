package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/pressroom/internal/auth"
	"github.com/listenupapp/pressroom/internal/config"
	"github.com/listenupapp/pressroom/internal/identity"
	"github.com/listenupapp/pressroom/internal/logger"
)

// AuthKey is the hex-encoded PASETO key.
type AuthKey string

// ProvideAuthKey loads or generates the session signing key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.Path)
	if err != nil {
		return "", err
	}

	// Update config with the loaded key
	cfg.Auth.AccessTokenKey = key

	log.Info("Authentication key loaded",
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService(string(authKey), cfg.Auth.AccessTokenDuration)
}

// ProvideIdentityVerifier provides the identity provider token verifier.
func ProvideIdentityVerifier(i do.Injector) (*identity.Verifier, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return identity.NewVerifier(identity.Config{
		Secret:   []byte(cfg.Identity.JWTSecret),
		Issuer:   cfg.Identity.Issuer,
		Audience: cfg.Identity.Audience,
	})
}
