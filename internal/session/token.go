package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "eventpro"

type Claims struct {
	jwt.RegisteredClaims

	Role string `json:"role"`
}

type VerifiedToken struct {
	SessionID string
	UserID    string
	Role      string
	ExpiresAt time.Time
}

// Sign issues an HS256 token for sess. The jti claim carries the session id.
func Sign(sess Session, secret []byte) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   sess.User.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
		Role: string(sess.User.Role),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify checks signature, issuer and expiry as of now.
func Verify(tokenString string, secret []byte, now time.Time) (*VerifiedToken, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("missing secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	claims := &Claims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("token missing session or subject")
	}

	return &VerifiedToken{
		SessionID: claims.ID,
		UserID:    claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
