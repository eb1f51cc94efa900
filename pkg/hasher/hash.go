package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash returns the hex SHA-256 of s.
func Hash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// Fingerprint hashes parts joined by a unit separator, so ("ab","c") and
// ("a","bc") differ. Used as a stable message id for deduplication.
func Fingerprint(parts ...string) string {
	return Hash(strings.Join(parts, "\x1f"))
}
