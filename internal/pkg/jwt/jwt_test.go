package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-basis-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "15m")

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "company-1", user.RoleManager)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotZero(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "company-1", claims["company_id"])
	assert.Equal(t, "manager", claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestGenerateAccessToken_InvalidExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon")

	_, _, err := svc.GenerateAccessToken("user-1", "company-1", user.RoleOwner)
	assert.Error(t, err)
}

func TestDecode_RejectsForeignSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", "15m")
	verifier := NewJWTService("secret-b", "15m")

	token, _, err := issuer.GenerateAccessToken("user-1", "company-1", user.RoleOwner)
	require.NoError(t, err)

	_, err = verifier.JWTAuth().Decode(token)
	assert.Error(t, err)
}
