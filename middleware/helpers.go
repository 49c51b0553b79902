package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

const (
	jwtClaimSubject = "sub"
	jwtClaimRole    = "role"
)

func claimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(claimsContextKey).(jwt.MapClaims)
	if !ok {
		return nil, errors.New("token claims not found in context")
	}
	return claims, nil
}

// GetManagerIDFromContext extracts the authenticated manager's id.
func GetManagerIDFromContext(ctx context.Context) (int, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return 0, err
	}

	subject, ok := claims[jwtClaimSubject]
	if !ok {
		return 0, fmt.Errorf("missing %q claim in token", jwtClaimSubject)
	}
	// JSON numbers decode as float64.
	subjectFloat, ok := subject.(float64)
	if !ok || subjectFloat != float64(int(subjectFloat)) || int(subjectFloat) <= 0 {
		return 0, fmt.Errorf("invalid %q claim in token", jwtClaimSubject)
	}
	return int(subjectFloat), nil
}

func GetRoleFromContext(ctx context.Context) (string, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}

	role, ok := claims[jwtClaimRole].(string)
	if !ok || role == "" {
		return "", fmt.Errorf("missing %q claim in token", jwtClaimRole)
	}
	return role, nil
}
