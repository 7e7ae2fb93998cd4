package game

import (
	"crypto/rand"
	"math/big"
)

// Chooser picks an index in [0, n). Production picks uniformly at random;
// tests substitute a deterministic one.
type Chooser interface {
	Intn(n int) int
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(n int) int

func (f ChooserFunc) Intn(n int) int { return f(n) }

// CryptoChooser draws from crypto/rand.
type CryptoChooser struct{}

func (CryptoChooser) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
