// Package passhash encodes driver passwords as
// pbkdf2_sha256$<iterations>$<saltB64>$<dkB64>.
package passhash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultIterations = 210_000
	SaltLen           = 16
	KeyLen            = 32

	prefix = "pbkdf2_sha256$"
)

var (
	ErrMalformedHash = errors.New("malformed hash")
	ErrUnsupported   = errors.New("unsupported hash format")
)

// Hasher hashes with a fixed iteration count.
type Hasher struct {
	Iterations int
}

func New(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{Iterations: iterations}
}

func (h *Hasher) Hash(password string) (string, error) {
	return HashPasswordWithIters(password, h.Iterations)
}

func (h *Hasher) Verify(password, encoded string) (bool, error) {
	return VerifyPassword(password, encoded)
}

// HashPassword hashes with DefaultIterations.
func HashPassword(password string) (string, error) {
	return HashPasswordWithIters(password, DefaultIterations)
}

func HashPasswordWithIters(password string, iterations int) (string, error) {
	if iterations <= 0 {
		return "", errors.New("iterations must be > 0")
	}
	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("rand.Read: %w", err)
	}
	dk := pbkdf2.Key([]byte(password), salt, iterations, KeyLen, sha256.New)

	return prefix + strconv.Itoa(iterations) + "$" +
		base64.RawStdEncoding.EncodeToString(salt) + "$" +
		base64.RawStdEncoding.EncodeToString(dk), nil
}

// VerifyPassword compares password with encoded in constant time.
func VerifyPassword(password, encoded string) (bool, error) {
	if !strings.HasPrefix(encoded, prefix) {
		return false, ErrUnsupported
	}
	parts := strings.Split(encoded[len(prefix):], "$")
	if len(parts) != 3 {
		return false, ErrMalformedHash
	}

	iters, err := strconv.Atoi(parts[0])
	if err != nil || iters <= 0 {
		return false, fmt.Errorf("%w: invalid iterations", ErrMalformedHash)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil || len(salt) == 0 {
		return false, fmt.Errorf("%w: invalid salt", ErrMalformedHash)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return false, fmt.Errorf("%w: invalid derived key", ErrMalformedHash)
	}

	got := pbkdf2.Key([]byte(password), salt, iters, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
