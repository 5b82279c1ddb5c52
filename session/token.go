package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is what the session cookie carries. The record itself stays server-side.
type tokenClaims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

type tokenCodec struct {
	secret []byte
	now    func() time.Time
}

func (c tokenCodec) sign(s Session) (string, error) {
	claims := tokenClaims{
		UserID: s.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

// parse verifies the signature and returns the claims. With checkExpiry false an
// expired token is still accepted, which logout needs to find the record to delete.
func (c tokenCodec) parse(token string, checkExpiry bool) (*tokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	}
	if !checkExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, errors.New("parse session token: invalid")
	}
	return claims, nil
}
