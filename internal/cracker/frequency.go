// Package cracker recovers a Vigenère key of known length from ciphertext.
package cracker

import (
	"errors"
	"sort"
	"strings"

	"github.com/verte-zerg/vigenere/internal/alphabet"
)

// ErrDegenerateKeyLength is returned when a key position has no letters,
// which happens when the key length exceeds the letters in the ciphertext.
var ErrDegenerateKeyLength = errors.New("key length exceeds available letters")

// Distribution holds the relative frequency of each letter, indexed 0-25.
type Distribution [alphabet.Size]float64

// SplitThreads assigns every letter of text to thread (letter index mod keyLength).
// Letters are folded to lowercase; everything else is dropped without
// advancing the letter index.
func SplitThreads(text string, keyLength int) []string {
	if keyLength <= 0 {
		return nil
	}
	builders := make([]strings.Builder, keyLength)
	index := 0
	for _, r := range text {
		if !alphabet.IsLetter(r) {
			continue
		}
		builders[index%keyLength].WriteRune(alphabet.Fold(r))
		index++
	}
	threads := make([]string, keyLength)
	for i := range builders {
		threads[i] = builders[i].String()
	}
	return threads
}

// Frequencies computes the letter distribution of a thread. Non-letters are
// ignored. An empty thread yields ErrDegenerateKeyLength.
func Frequencies(thread string) (Distribution, error) {
	var counts [alphabet.Size]int
	total := 0
	for _, r := range thread {
		idx, err := alphabet.Index(r)
		if err != nil {
			continue
		}
		counts[idx]++
		total++
	}
	var dist Distribution
	if total == 0 {
		return dist, ErrDegenerateKeyLength
	}
	for i, c := range counts {
		dist[i] = float64(c) / float64(total)
	}
	return dist, nil
}

// TopLetters returns the n most frequent letters in descending frequency.
// Letters are stably sorted ascending from 'a' to 'z' and read from the end,
// so among equal frequencies the later letter comes first.
func TopLetters(dist Distribution, n int) []rune {
	type item struct {
		letter rune
		freq   float64
	}
	items := make([]item, alphabet.Size)
	for i := range items {
		items[i] = item{letter: alphabet.Letter(i), freq: dist[i]}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].freq < items[j].freq
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]rune, 0, n)
	for i := len(items) - 1; i >= len(items)-n; i-- {
		out = append(out, items[i].letter)
	}
	return out
}
