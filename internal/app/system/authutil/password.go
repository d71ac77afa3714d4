// internal/app/system/authutil/password.go
// Package authutil holds the password rules and bcrypt helpers used by
// registration and login.
package authutil

import (
	"crypto/rand"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for new hashes.
const BcryptCost = 10

// ErrPasswordConfirmation is returned when a password and its confirmation differ.
var ErrPasswordConfirmation = errors.New("Senhas não conferem")

// ConfirmPassword returns ErrPasswordConfirmation unless both values match.
func ConfirmPassword(password, confirmation string) error {
	if password != confirmation {
		return ErrPasswordConfirmation
	}
	return nil
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plain-text password with a bcrypt hash.
// Returns true if the password matches, false otherwise.
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// dummyHash is a cost-BcryptCost hash of a random value that no password matches.
var dummyHash = sync.OnceValue(func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(rand.Text()), BcryptCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
})

// DummyHash returns a bcrypt hash at BcryptCost for comparing against when
// the account does not exist, so a miss costs as much as a wrong password.
func DummyHash() string {
	return dummyHash()
}
