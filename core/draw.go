package core

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandSource provides random number generation for the lot draw.
// This interface enables dependency injection for deterministic testing.
type RandSource interface {
	// Intn returns a random integer in [0, n). Panics if n <= 0.
	Intn(n int) int
}

// cryptoRandSource wraps crypto/rand for production use
type cryptoRandSource struct{}

// Intn returns a cryptographically secure random integer in [0, n).
// Panics if n <= 0 (programmer error).
func (cryptoRandSource) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("cryptoRandSource.Intn: n must be positive, got %d", n))
	}
	// rand.Int does not error when using rand.Reader
	// https://pkg.go.dev/crypto/rand#Int
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(nBig.Int64())
}

// defaultRandSource provides a cryptographically secure random source for production
var defaultRandSource RandSource = cryptoRandSource{}

// DrawSubset returns k distinct ids drawn uniformly at random from ids,
// without replacement, using a partial Fisher-Yates shuffle of a copy.
// If k >= len(ids) a shuffled copy of all ids is returned. The input slice
// is never modified. A nil randSource falls back to crypto/rand.
func DrawSubset(ids []string, k int, randSource RandSource) []string {
	if k <= 0 || len(ids) == 0 {
		return []string{}
	}
	if randSource == nil {
		randSource = defaultRandSource
	}
	if k > len(ids) {
		k = len(ids)
	}

	pool := make([]string, len(ids))
	copy(pool, ids)

	// Partial Fisher-Yates: after i iterations the first i entries are a
	// uniform i-subset in uniform order.
	for i := 0; i < k; i++ {
		j := i + randSource.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}

	return pool[:k]
}
