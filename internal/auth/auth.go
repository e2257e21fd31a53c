package auth

import (
	"context"
	"errors"

	"github.com/curioswitch/go-usegcp/middleware/firebaseauth"
)

// ErrUnauthenticated is returned when there is no current user identity.
var ErrUnauthenticated = errors.New("auth: no authenticated user")

// UserID returns the authenticated user's ID from the request context.
func UserID(ctx context.Context) (string, error) {
	tok := firebaseauth.TokenFromContext(ctx)
	if tok == nil || tok.UID == "" {
		return "", ErrUnauthenticated
	}
	return tok.UID, nil
}
