// Package keygen produces random cipher keys.
package keygen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/vigenere/internal/alphabet"
)

// Generator produces random lowercase keys.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Key returns a key of the given length drawn uniformly from the alphabet.
func (g *Generator) Key(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("key length must be > 0")
	}
	key := make([]byte, length)
	for i := range key {
		key[i] = alphabet.Letters[g.rnd.Intn(alphabet.Size)]
	}
	return string(key), nil
}
