package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-identity-secret")

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":         "idp|42",
		"email":       "ada@example.com",
		"given_name":  "Ada",
		"family_name": "Lovelace",
		"picture":     "https://example.com/ada.png",
		"iss":         "https://idp.example.com",
		"aud":         "pressroom",
		"exp":         time.Now().Add(time.Hour).Unix(),
	}
}

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(Config{
		Secret:   testSecret,
		Issuer:   "https://idp.example.com",
		Audience: "pressroom",
	})
	require.NoError(t, err)
	return v
}

func TestNewVerifier_RequiresSecret(t *testing.T) {
	_, err := NewVerifier(Config{})
	assert.Error(t, err)
}

func TestVerify_Valid(t *testing.T) {
	v := newTestVerifier(t)

	p, err := v.Verify(sign(t, jwt.SigningMethodHS256, testSecret, validClaims()))
	require.NoError(t, err)

	assert.Equal(t, "idp|42", p.ExternalID)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, "Ada", p.FirstName)
	assert.Equal(t, "Lovelace", p.LastName)
	assert.Equal(t, "https://example.com/ada.png", p.AvatarURL)
	assert.Equal(t, "Ada Lovelace", p.DisplayName())
}

func TestVerify_Rejects(t *testing.T) {
	v := newTestVerifier(t)

	tests := []struct {
		name   string
		mutate func(jwt.MapClaims)
		key    []byte
		method jwt.SigningMethod
	}{
		{name: "wrong secret", key: []byte("other")},
		{name: "expired", mutate: func(c jwt.MapClaims) { c["exp"] = time.Now().Add(-time.Hour).Unix() }},
		{name: "missing exp", mutate: func(c jwt.MapClaims) { delete(c, "exp") }},
		{name: "wrong issuer", mutate: func(c jwt.MapClaims) { c["iss"] = "https://evil.example.com" }},
		{name: "wrong audience", mutate: func(c jwt.MapClaims) { c["aud"] = "someone-else" }},
		{name: "missing subject", mutate: func(c jwt.MapClaims) { delete(c, "sub") }},
		{name: "HS512 not accepted", method: jwt.SigningMethodHS512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := validClaims()
			if tt.mutate != nil {
				tt.mutate(claims)
			}
			key := testSecret
			if tt.key != nil {
				key = tt.key
			}
			method := jwt.SigningMethod(jwt.SigningMethodHS256)
			if tt.method != nil {
				method = tt.method
			}

			_, err := v.Verify(sign(t, method, key, claims))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}

func TestVerify_Garbage(t *testing.T) {
	v := newTestVerifier(t)
	_, err := v.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
