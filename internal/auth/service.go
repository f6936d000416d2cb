package auth

import "golang.org/x/crypto/bcrypt"

// Hasher is the password hashing capability. The core never depends on
// the primitive directly so deployments can swap the cost or algorithm.
type Hasher interface {
	// Hash returns a one-way hash of the plaintext password.
	Hash(password string) (string, error)
	// Compare returns nil when the plaintext matches the hash.
	Compare(hashedPassword, password string) error
}

// BcryptHasher implements Hasher using bcrypt
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher. A cost of zero selects
// bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash hashes a password using bcrypt
func (h *BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(bytes), err
}

// Compare compares a hashed password with a plain text password
func (h *BcryptHasher) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
