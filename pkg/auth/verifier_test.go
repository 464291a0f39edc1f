package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/velocart/velocart/pkg/auth"
)

func TestIssueAndVerify(t *testing.T) {
	v := auth.NewHMACVerifier("secret")

	token, err := v.Issue("riya@example.com", "rider", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Email != "riya@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Role != "rider" {
		t.Errorf("role = %q", claims.Role)
	}
}

func TestVerifyExpired(t *testing.T) {
	v := auth.NewHMACVerifier("secret")

	token, err := v.Issue("riya@example.com", "rider", -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, err = v.Verify(token)
	if !errors.Is(err, auth.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	v := auth.NewHMACVerifier("secret")

	_, err := v.Verify("not-a-token")
	if !errors.Is(err, auth.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	signer := auth.NewHMACVerifier("secret-a")
	verifier := auth.NewHMACVerifier("secret-b")

	token, err := signer.Issue("riya@example.com", "", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected verification to fail with a different secret")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !auth.CheckPassword(hash, "hunter2") {
		t.Error("correct password rejected")
	}
	if auth.CheckPassword(hash, "hunter3") {
		t.Error("wrong password accepted")
	}
}
