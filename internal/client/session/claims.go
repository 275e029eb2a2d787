package session

import (
	"fmt"

	"github.com/dmitrijs2005/urguide/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidClaims is returned by DecodeClaims for tokens that cannot be
// parsed or carry no username. It matches common.ErrInvalidToken.
var ErrInvalidClaims = fmt.Errorf("%w: bad claims", common.ErrInvalidToken)

// Claims are the fields the server embeds in a session token.
type Claims struct {
	Username string `json:"username"`
	UserID   int64  `json:"user_id"`
	jwt.RegisteredClaims
}

// DecodeClaims extracts the claims of token without verifying its
// signature. The result is a display hint only; the server remains the
// authority on whether the token is valid.
func DecodeClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("%w: missing username", ErrInvalidClaims)
	}
	return claims, nil
}
