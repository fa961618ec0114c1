package jwt

import (
	"testing"
	"time"
)

func TestGenerateAndVerify(t *testing.T) {
	mgr := NewManager(Config{
		SecretKey: "test-secret",
		Issuer:    "cicd-dashboard",
		TTL:       time.Hour,
	})

	token, err := mgr.GenerateToken("1", "admin@example.com", "admin")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := mgr.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if claims.Subject != "1" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "1")
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "admin@example.com")
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want %q", claims.Role, "admin")
	}
	if claims.Issuer != "cicd-dashboard" {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, "cicd-dashboard")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewManager(Config{SecretKey: "secret-a"})
	verifier := NewManager(Config{SecretKey: "secret-b"})

	token, err := issuer.GenerateToken("1", "admin@example.com", "admin")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := verifier.VerifyToken(token); err == nil {
		t.Fatal("VerifyToken() accepted a token signed with a different secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	mgr := NewManager(Config{SecretKey: "test-secret", TTL: -time.Minute})

	token, err := mgr.GenerateToken("1", "admin@example.com", "admin")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := mgr.VerifyToken(token); err == nil {
		t.Fatal("VerifyToken() accepted an expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	mgr := NewManager(Config{SecretKey: "test-secret"})
	if _, err := mgr.VerifyToken("not-a-token"); err == nil {
		t.Fatal("VerifyToken() accepted a malformed token")
	}
}
