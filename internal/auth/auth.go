package auth

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var playerNamePattern = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// ErrWrongPIN is returned when a PIN does not match a claimed name.
var ErrWrongPIN = errors.New("wrong PIN")

// HashPIN hashes the PIN that protects a claimed player name.
func HashPIN(pin string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func CheckPIN(pin, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return ErrWrongPIN
	}
	return nil
}

func ValidatePlayerName(name string) error {
	if len(name) < 3 {
		return fmt.Errorf("player name must be at least 3 characters long")
	}
	if len(name) > 50 {
		return fmt.Errorf("player name must be no more than 50 characters long")
	}
	if !playerNamePattern.MatchString(name) {
		return fmt.Errorf("player name can only contain letters, numbers, and underscores")
	}
	return nil
}

func ValidatePIN(pin string) error {
	if len(pin) < 4 {
		return fmt.Errorf("PIN must be at least 4 characters long")
	}
	if len(pin) > 72 {
		return fmt.Errorf("PIN must be no more than 72 characters long")
	}
	return nil
}
