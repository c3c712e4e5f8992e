package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NonceExpiry is how long an action nonce stays valid.
const NonceExpiry = 24 * time.Hour

// ActionCloneNotice scopes the nonce that authorises a clone result notice.
const ActionCloneNotice = "clone_notice"

// ErrNonceScope is returned when a nonce was issued for a different action or user.
var ErrNonceScope = errors.New("nonce issued for another action or user")

// NonceClaims binds a request integrity token to one action and one user.
type NonceClaims struct {
	Action string `json:"act"`
	UserID int64  `json:"uid"`
	jwt.RegisteredClaims
}

// CloneAction returns the nonce action for cloning post id.
func CloneAction(id int64) string {
	return fmt.Sprintf("clone_%d", id)
}

// CloneEditAction returns the nonce action for clone-and-edit of post id.
func CloneEditAction(id int64) string {
	return fmt.Sprintf("clone_edit_%d", id)
}

// CreateNonce issues a signed nonce for action on behalf of userID.
func CreateNonce(secret, action string, userID int64) (string, error) {
	reg, err := registered(audienceNonce, NonceExpiry)
	if err != nil {
		return "", err
	}
	return sign(secret, &NonceClaims{Action: action, UserID: userID, RegisteredClaims: reg})
}

// VerifyNonce checks the signature and expiry of a nonce and that it was
// issued for exactly action and userID. Single use is enforced by the caller
// through the returned JTI.
func VerifyNonce(secret, token, action string, userID int64) (*NonceClaims, error) {
	claims := &NonceClaims{}
	if err := parse(secret, token, audienceNonce, claims); err != nil {
		return nil, fmt.Errorf("verifying nonce: %w", err)
	}
	if claims.Action != action || claims.UserID != userID || claims.ID == "" {
		return nil, ErrNonceScope
	}
	return claims, nil
}
