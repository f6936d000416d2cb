package stepup

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
)

// CodeLength is the number of digits in a challenge code
const CodeLength = 6

var codeSpace = big.NewInt(1000000)

// GenerateCode returns a cryptographically random zero-padded 6-digit code
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n), nil
}

// HashCode returns the hex-encoded SHA-256 hash of a code. Only the
// hash is ever persisted.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// CodeMatches compares a submitted code against a stored hash in
// constant time.
func CodeMatches(storedHash, code string) bool {
	candidate := HashCode(code)
	return subtle.ConstantTimeCompare([]byte(storedHash), []byte(candidate)) == 1
}
