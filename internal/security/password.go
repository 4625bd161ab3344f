package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedHash means a stored hash could not be parsed. That is a data
// integrity problem, not a wrong password; callers must not surface it to
// the client.
var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword hashes a plain text password with bcrypt. The salt is
// generated per call, so hashing the same input twice yields different
// strings.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plaintext password. A
// mismatch is a boolean outcome, not an error; only an unparseable hash
// produces one.
func CheckPassword(hash, plain string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))

	if err == nil {
		return true, nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, ErrMalformedHash
}
