package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc, err := NewJWTService("test-secret", "15m")
	require.NoError(t, err)

	employeeID := "emp-1"
	token, expiresAt, err := svc.GenerateAccessToken(AccessClaims{
		UserID:     "user-1",
		Email:      "budi@example.com",
		EmployeeID: &employeeID,
		Role:       identity.RoleManager,
		Modules:    []identity.Module{identity.ModuleHR, identity.ModuleSales},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotZero(t, expiresAt)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TokenTypeAccess, claims["type"])

	actor, err := identity.FromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", actor.UserID)
	assert.Equal(t, "emp-1", actor.EmployeeID)
	assert.Empty(t, actor.CompanyID)
	assert.True(t, actor.CanReview())
	assert.True(t, actor.HasModule(identity.ModuleSales))
	assert.False(t, actor.HasModule(identity.ModulePurchase))
}

func TestNewJWTServiceRejectsBadExpiration(t *testing.T) {
	_, err := NewJWTService("test-secret", "soon")
	assert.Error(t, err)
}
