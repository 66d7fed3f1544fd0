package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// ContentHash returns the hex SHA-256 of parts. Each part is length-prefixed
// so that ("ab", "c") and ("a", "bc") hash differently.
func ContentHash(parts ...string) string {
	hasher := sha256.New()
	for _, p := range parts {
		hasher.Write([]byte(strconv.Itoa(len(p))))
		hasher.Write([]byte{':'})
		hasher.Write([]byte(p))
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

// ShortHash returns the first 16 hex characters of ContentHash, used to
// fingerprint documents in stored results.
func ShortHash(parts ...string) string {
	return ContentHash(parts...)[:16]
}
