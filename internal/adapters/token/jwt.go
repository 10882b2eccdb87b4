package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/benchpoint/benchpoint/internal/core/domain"
)

// Verifier implements ports.IdentityVerifier for HS256 bearer tokens
// issued by the external auth service. It only verifies; issuance never
// happens in this process.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier sharing the auth service's signing secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

type accessClaims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// Verify maps a token to the user id it was issued for. Expired tokens
// return domain.ErrTokenExpired so the HTTP layer can tell the client
// to refresh; everything else that fails is domain.ErrInvalidToken.
func (v *Verifier) Verify(tokenStr string) (int64, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &accessClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, domain.ErrTokenExpired
		}
		return 0, domain.ErrInvalidToken
	}

	claims, ok := tok.Claims.(*accessClaims)
	if !ok || !tok.Valid || claims.UserID <= 0 {
		return 0, domain.ErrInvalidToken
	}
	return claims.UserID, nil
}
