// Package auth issues and checks the signed tokens players join games with.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gillessed/palantarot/engine"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("token not valid")

// Claims names the player a token was issued for.
type Claims struct {
	Player string `json:"player"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 player tokens.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// NewSigner returns a signer for secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

// Issue returns a token for player valid for ttl. A zero ttl never expires.
func (s *Signer) Issue(player engine.PlayerID, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		Player: string(player),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  string(player),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks a token and returns its player.
func (s *Signer) Verify(token string) (engine.PlayerID, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Player == "" {
		return "", ErrInvalidToken
	}
	return engine.PlayerID(claims.Player), nil
}
