// internal/pkg/auth/password_test.go
package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}

	if !CheckPassword("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordInvalidCostFallsBack(t *testing.T) {
	hash, err := HashPassword("some password", 99)
	if err != nil {
		t.Fatalf("HashPassword() with out-of-range cost error = %v", err)
	}
	if !CheckPassword("some password", hash) {
		t.Error("password hashed with fallback cost rejected")
	}
}
