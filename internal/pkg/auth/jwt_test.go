// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/your-org/bookstore-backend/internal/config"
)

func testManager() *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-key-that-is-long-enough-123"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.JWT.RefreshTokenExpiry = 24 * time.Hour
	return NewJWTManager(cfg)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := testManager()

	token, err := m.GenerateAccessToken(42, "reader@example.com", "customer")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "reader@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != "customer" {
		t.Errorf("Role = %q, want customer", claims.Role)
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	m := testManager()

	refresh, err := m.GenerateRefreshToken(42, "reader@example.com")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	if _, err := m.ValidateAccessToken(refresh); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := m.ValidateRefreshToken(refresh); err != nil {
		t.Errorf("ValidateRefreshToken() error = %v", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	m := testManager()

	token, err := m.GenerateAccessToken(42, "reader@example.com", "customer")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := m.ValidateAccessToken(tampered); err == nil {
		t.Error("tampered token accepted")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	m := testManager()
	token, err := m.GenerateAccessToken(42, "reader@example.com", "admin")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	other := &config.Config{}
	other.JWT.Secret = "a-completely-different-secret-key-456"
	other.JWT.AccessTokenExpiry = time.Hour
	other.JWT.RefreshTokenExpiry = time.Hour
	if _, err := NewJWTManager(other).ValidateAccessToken(token); err == nil {
		t.Error("token signed with another secret accepted")
	}
}
