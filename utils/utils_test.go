package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("p@ss")
	if err != nil {
		t.Fatalf("hash err: %v", err)
	}
	if !CheckPasswordHash("p@ss", hashed) {
		t.Fatal("correct password should match")
	}
	if CheckPasswordHash("wrong", hashed) {
		t.Fatal("wrong password should not match")
	}
}

func TestJWTGenerateAndVerify(t *testing.T) {
	token, err := GenerateToken("a@b.com", 87)
	if err != nil {
		t.Fatalf("gen token err: %v", err)
	}
	uid, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("verify err: %v", err)
	}
	if uid != 87 {
		t.Fatalf("want 87, got %d", uid)
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	if _, err := VerifyToken("not.a.token"); err == nil {
		t.Fatal("garbage token must not verify")
	}
}
