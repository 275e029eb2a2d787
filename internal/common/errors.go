// Package common defines shared constants and sentinel errors used across
// the client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Session errors.
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrSessionChanged = errors.New("session changed")

	// Token errors (malformed or incomplete claims).
	ErrInvalidToken = errors.New("invalid token")
)
