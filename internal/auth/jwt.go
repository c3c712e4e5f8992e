// Package auth issues and checks session tokens and action nonces. Both are
// HS256 JWTs; the audience claim keeps one from being accepted as the other.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	audienceSession = "quickclone-session"
	audienceNonce   = "quickclone-nonce"
)

// ErrInvalidToken wraps every reason a token fails validation.
var ErrInvalidToken = errors.New("invalid token")

// TokenExpiry is the session lifetime. The web session cookie uses the same value.
const TokenExpiry = 24 * time.Hour

// Claims are carried by a session token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken issues a session token for a user.
func GenerateToken(secret string, userID int64, username, role string) (string, error) {
	reg, err := registered(audienceSession, TokenExpiry)
	if err != nil {
		return "", err
	}
	return sign(secret, &Claims{UserID: userID, Username: username, Role: role, RegisteredClaims: reg})
}

// ValidateToken checks a session token and returns its claims.
func ValidateToken(secret, token string) (*Claims, error) {
	claims := &Claims{}
	if err := parse(secret, token, audienceSession, claims); err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: no user", ErrInvalidToken)
	}
	return claims, nil
}

// registered fills the standard claims with a fresh random ID.
func registered(audience string, ttl time.Duration) (jwt.RegisteredClaims, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return jwt.RegisteredClaims{}, fmt.Errorf("generating JTI: %w", err)
	}
	now := time.Now()
	return jwt.RegisteredClaims{
		ID:        hex.EncodeToString(buf),
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}, nil
}

func sign(secret string, claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func parse(secret, token, audience string, into jwt.Claims) error {
	parsed, err := jwt.ParseWithClaims(token, into, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
