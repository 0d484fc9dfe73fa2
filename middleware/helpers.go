package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v4"
)

// Имена JWT claims
const (
	jwtClaimSubject = "sub"
	jwtClaimUserID  = "user_id"
)

var ErrNoClaims = errors.New("user claims not found in context")

func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return nil, ErrNoClaims
	}
	return claims, nil
}

// GetSubjectFromContext returns who signed the request: the "sub" claim, or
// the "user_id" claim.
func GetSubjectFromContext(ctx context.Context) (string, error) {
	claims, err := ClaimsFromContext(ctx)
	if err != nil {
		return "", err
	}

	if sub, ok := claims[jwtClaimSubject].(string); ok && sub != "" {
		return sub, nil
	}

	switch id := claims[jwtClaimUserID].(type) {
	case float64:
		if id != float64(int64(id)) || id <= 0 {
			return "", fmt.Errorf("invalid '%s' claim: %v", jwtClaimUserID, id)
		}
		return strconv.FormatInt(int64(id), 10), nil
	case string:
		if id != "" {
			return id, nil
		}
	case nil:
		return "", fmt.Errorf("missing '%s' or '%s' claim in token", jwtClaimSubject, jwtClaimUserID)
	}
	return "", fmt.Errorf("invalid type for '%s' claim: %T", jwtClaimUserID, claims[jwtClaimUserID])
}

// WithClaims stores claims the way Authenticate does.
func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}
