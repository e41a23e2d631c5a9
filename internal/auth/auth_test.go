package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("muito-secreto")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "muito-secreto" {
		t.Fatal("password stored in the clear")
	}

	if err := CheckPassword("muito-secreto", hash); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := CheckPassword("errada", hash); err == nil {
		t.Error("wrong password accepted")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("curta"); err == nil {
		t.Error("short password accepted")
	}
	if err := ValidatePassword("comprida-suficiente"); err != nil {
		t.Errorf("valid password rejected: %v", err)
	}
}
