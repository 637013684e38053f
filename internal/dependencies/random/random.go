package random

import (
	"crypto/rand"
	"math/big"
)

// Random abstracts randomness so tests can queue deterministic values
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String returns a random string of the given length drawn from
	// alphabet
	String(length int, alphabet string) string
}

// CryptoRandom draws from crypto/rand
type CryptoRandom struct{}

// New returns a Random backed by crypto/rand
func New() *CryptoRandom {
	return &CryptoRandom{}
}

func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand reads should not fail; fall back to 0
		return 0
	}
	return int(result.Int64())
}

func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(out)
}
