package board

import (
	"errors"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt looks at
const MaxPasswordBytes = 72

// HashPassword will generate a salted bcrypt hash. Passwords longer
// than MaxPasswordBytes are rejected rather than silently truncated.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	if len([]byte(password)) > MaxPasswordBytes {
		return "", ErrInputTooLong
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrInputTooLong
		}
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}
	return string(h), nil
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return goerrors.Wrap(err, goerrors.CategoryAuth, "invalid password hash").
			WithTextCode(TextCodePasswordMismatch)
	}
	return nil
}

// VerifyPassword reports whether password matches hash. Malformed
// hashes, empty inputs and passwords HashPassword would have refused
// are a plain false.
func VerifyPassword(password, hash string) bool {
	if password == "" || hash == "" || len([]byte(password)) > MaxPasswordBytes {
		return false
	}
	return ComparePasswordAndHash(password, hash) == nil
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnPasswordCheck runs one bcrypt comparison against a throwaway hash
// so that unknown usernames take as long to reject as wrong passwords.
func burnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("board-timing-equalizer"), passwordHashCost())
		if err == nil {
			dummyHash = string(h)
		}
	})
	if dummyHash == "" {
		return
	}
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
