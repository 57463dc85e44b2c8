package cracker

import (
	"math/bits"

	"github.com/verte-zerg/vigenere/internal/alphabet"
)

// MaxCandidates caps the number of candidate keys a single crack enumerates.
const MaxCandidates = 1 << 22

// assumedPlaintext is the letter the most frequent ciphertext letter is taken to encode.
const assumedPlaintext = 'e'

// KeyLetters converts frequent ciphertext letters into the key letters that
// would map assumedPlaintext onto them.
func KeyLetters(letters []rune) []rune {
	base, _ := alphabet.Index(assumedPlaintext)
	out := make([]rune, 0, len(letters))
	for _, r := range letters {
		idx, err := alphabet.Index(r)
		if err != nil {
			continue
		}
		out = append(out, alphabet.Letter(idx-base))
	}
	return out
}

// CandidateKeys forms the Cartesian product of the per-position letter lists.
// Position 0 varies slowest, so the order matches nested loops over
// positions 0..n-1. It returns nil when any position has no letters or the
// product exceeds MaxCandidates.
func CandidateKeys(positions [][]rune) []string {
	if len(positions) == 0 {
		return nil
	}
	total := 1
	for _, letters := range positions {
		if len(letters) == 0 {
			return nil
		}
		var ok bool
		if total, ok = mulCapped(total, len(letters)); !ok {
			return nil
		}
	}

	keys := make([]string, 0, total)
	idx := make([]int, len(positions))
	buf := make([]rune, len(positions))
	for {
		for p, i := range idx {
			buf[p] = positions[p][i]
		}
		keys = append(keys, string(buf))

		p := len(positions) - 1
		for ; p >= 0; p-- {
			idx[p]++
			if idx[p] < len(positions[p]) {
				break
			}
			idx[p] = 0
		}
		if p < 0 {
			return keys
		}
	}
}

// CandidateCount returns numTestChars^keyLength, the number of keys a crack
// enumerates. ok is false when the count exceeds MaxCandidates.
func CandidateCount(keyLength, numTestChars int) (count int, ok bool) {
	if keyLength < 0 || numTestChars < 0 {
		return 0, false
	}
	if numTestChars <= 1 {
		return numTestChars, true
	}
	count = 1
	for range keyLength {
		if count, ok = mulCapped(count, numTestChars); !ok {
			return 0, false
		}
	}
	return count, true
}

// mulCapped multiplies two non-negative ints, failing past MaxCandidates.
func mulCapped(a, b int) (int, bool) {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > MaxCandidates {
		return 0, false
	}
	return int(lo), true
}
