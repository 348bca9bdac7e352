package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomSource picks a uniformly distributed index in [0, n)
type RandomSource interface {
	Index(n int) (int, error)
}

// SecureRandom draws indices from the operating system CSPRNG.
// rand.Int rejection-samples, so every index is equally likely.
type SecureRandom struct{}

// NewSecureRandom creates a cryptographically secure random source
func NewSecureRandom() *SecureRandom {
	return &SecureRandom{}
}

// Index returns a uniformly random integer in [0, n)
func (SecureRandom) Index(n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("cannot pick an index from %d candidates", n)
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random index: %w", err)
	}
	return int(v.Int64()), nil
}
