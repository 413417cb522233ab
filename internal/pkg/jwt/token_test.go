package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/piresc/ordertrack/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() models.JWTConfig {
	return models.JWTConfig{Secret: "test-secret", Expiration: 60, Issuer: "identity-service"}
}

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := testConfig()

	token, expiresAt, err := GenerateToken("courier-1", "courier", cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	claims, err := ValidateToken(token, cfg)
	require.NoError(t, err)
	assert.Equal(t, "courier-1", claims.UserID)
	assert.Equal(t, "courier", claims.Role)
}

func TestValidateToken_Failures(t *testing.T) {
	cfg := testConfig()

	expired := func() string {
		c := cfg
		c.Expiration = -1
		tok, _, err := GenerateToken("u1", "customer", c)
		require.NoError(t, err)
		return tok
	}

	wrongIssuer := func() string {
		c := cfg
		c.Issuer = "someone-else"
		tok, _, err := GenerateToken("u1", "customer", c)
		require.NoError(t, err)
		return tok
	}

	wrongSecret := func() string {
		c := cfg
		c.Secret = "other"
		tok, _, err := GenerateToken("u1", "customer", c)
		require.NoError(t, err)
		return tok
	}

	noneAlg := func() string {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1", Role: "customer"})
		s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name  string
		token func() string
	}{
		{name: "garbage", token: func() string { return "not-a-token" }},
		{name: "expired", token: expired},
		{name: "wrong issuer", token: wrongIssuer},
		{name: "wrong secret", token: wrongSecret},
		{name: "none algorithm", token: noneAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token(), cfg)
			assert.Nil(t, claims)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}
