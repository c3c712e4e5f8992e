package auth

import (
	"errors"
	"testing"
)

func TestNonceRoundTrip(t *testing.T) {
	secret := "nonce-secret"

	nonce, err := CreateNonce(secret, CloneAction(12), 3)
	if err != nil {
		t.Fatalf("CreateNonce: %v", err)
	}

	claims, err := VerifyNonce(secret, nonce, CloneAction(12), 3)
	if err != nil {
		t.Fatalf("VerifyNonce: %v", err)
	}
	if claims.ID == "" {
		t.Error("expected a JTI on the nonce")
	}
}

func TestNonceScope(t *testing.T) {
	secret := "nonce-secret"
	nonce, _ := CreateNonce(secret, CloneAction(12), 3)

	tests := []struct {
		name   string
		action string
		user   int64
	}{
		{"other id", CloneAction(13), 3},
		{"other action", CloneEditAction(12), 3},
		{"other user", CloneAction(12), 4},
		{"notice", ActionCloneNotice, 3},
	}
	for _, tt := range tests {
		_, err := VerifyNonce(secret, nonce, tt.action, tt.user)
		if !errors.Is(err, ErrNonceScope) {
			t.Errorf("%s: expected ErrNonceScope, got %v", tt.name, err)
		}
	}
}

func TestNonceWrongSecret(t *testing.T) {
	nonce, _ := CreateNonce("a", ActionCloneNotice, 1)
	if _, err := VerifyNonce("b", nonce, ActionCloneNotice, 1); err == nil {
		t.Error("expected error for wrong secret")
	}
	if _, err := VerifyNonce("a", "garbage", ActionCloneNotice, 1); err == nil {
		t.Error("expected error for malformed nonce")
	}
}

func TestSessionTokenIsNotANonce(t *testing.T) {
	secret := "shared"
	session, _ := GenerateToken(secret, 1, "admin", "admin")
	if _, err := VerifyNonce(secret, session, CloneAction(1), 1); err == nil {
		t.Error("expected session token to be rejected as a nonce")
	}
}

func TestCloneActionNames(t *testing.T) {
	if CloneAction(5) != "clone_5" {
		t.Errorf("unexpected action %q", CloneAction(5))
	}
	if CloneEditAction(5) != "clone_edit_5" {
		t.Errorf("unexpected action %q", CloneEditAction(5))
	}
}
