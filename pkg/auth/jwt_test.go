package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	config.Set("JWT_SECRET", "test-secret")

	tok, err := auth.GenerateToken(42, "admin", time.Hour)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestExpiredTokenRejected(t *testing.T) {
	config.Set("JWT_SECRET", "test-secret")

	tok, err := auth.GenerateToken(1, "user", -time.Minute)
	require.NoError(t, err)

	_, err = auth.ValidateToken(tok)
	assert.Error(t, err)
}

func TestTokenSignedWithOtherSecretRejected(t *testing.T) {
	config.Set("JWT_SECRET", "one")
	tok, err := auth.GenerateToken(1, "user", time.Hour)
	require.NoError(t, err)

	config.Set("JWT_SECRET", "two")
	_, err = auth.ValidateToken(tok)
	assert.Error(t, err)
}

func TestClaimsContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, auth.FromContext(ctx))

	c := &auth.Claims{UserID: 3}
	assert.Same(t, c, auth.FromContext(auth.WithClaims(ctx, c)))
}
