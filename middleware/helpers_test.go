package middleware

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithClaims(claims jwt.MapClaims) context.Context {
	return context.WithValue(context.Background(), claimsContextKey, claims)
}

func TestGetManagerIDFromContext(t *testing.T) {
	ctx := contextWithClaims(jwt.MapClaims{"sub": float64(7), "role": "manager"})

	id, err := GetManagerIDFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, id)
}

func TestGetManagerIDFromContextRejectsBadSubjects(t *testing.T) {
	badClaims := []jwt.MapClaims{
		{},
		{"sub": "7"},
		{"sub": 7.5},
		{"sub": float64(0)},
		{"sub": float64(-3)},
	}
	for _, claims := range badClaims {
		_, err := GetManagerIDFromContext(contextWithClaims(claims))
		assert.Error(t, err)
	}
}

func TestGetManagerIDFromContextWithoutClaims(t *testing.T) {
	_, err := GetManagerIDFromContext(context.Background())
	assert.Error(t, err)
}

func TestGetRoleFromContext(t *testing.T) {
	role, err := GetRoleFromContext(contextWithClaims(jwt.MapClaims{"role": "manager"}))
	require.NoError(t, err)
	assert.Equal(t, "manager", role)

	_, err = GetRoleFromContext(contextWithClaims(jwt.MapClaims{}))
	assert.Error(t, err)
}
