package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost keeps brute-force cost tunable without a schema change;
// the salt lives inside the bcrypt output.
const DefaultBcryptCost = 12

// Hasher wraps one-way salted password hashing.
type Hasher struct {
	cost int
}

// NewHasher constructs a Hasher with the given work factor. Costs outside
// bcrypt's supported range fall back to DefaultBcryptCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the salted hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches hashed. Mismatch is not an
// error condition; bcrypt's comparison is constant-time.
func (h *Hasher) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
