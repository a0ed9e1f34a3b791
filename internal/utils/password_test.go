package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pa55word", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !IsBcryptHash(hash) {
		t.Fatalf("%q not recognised as bcrypt", hash)
	}
	if !VerifyPassword(hash, "pa55word") {
		t.Error("hashed password rejected")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password accepted against hash")
	}
	// legacy accounts store plain text
	if !VerifyPassword("plain", "plain") {
		t.Error("legacy plain password rejected")
	}
	if VerifyPassword("plain", "plain2") {
		t.Error("wrong legacy password accepted")
	}
}
