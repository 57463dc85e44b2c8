// Package dictionary provides the word oracle used to score candidate plaintexts.
package dictionary

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/vigenere/internal/wordlist"
)

// ErrUnavailable is returned when a dictionary cannot be loaded.
var ErrUnavailable = errors.New("dictionary unavailable")

//go:embed data/english.txt
var embeddedWords string

// Oracle reports which words it does not recognize.
type Oracle interface {
	// Unknown returns the unrecognized entries of words in input order.
	// Every unrecognized token is returned, duplicates included.
	Unknown(words []string) []string
}

// WordSet is a case-insensitive in-memory dictionary.
type WordSet struct {
	words map[string]struct{}
}

// NewWordSet builds a WordSet from a list of words.
func NewWordSet(words []string) *WordSet {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}
	return &WordSet{words: set}
}

// Load reads a word list file, one word per line.
func Load(path string) (*WordSet, error) {
	words, err := wordlist.LoadWords(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, path, err)
	}
	return NewWordSet(words), nil
}

// Embedded returns the English word list bundled with the binary.
func Embedded() *WordSet {
	return NewWordSet(strings.Split(embeddedWords, "\n"))
}

// Contains reports whether word is in the set.
func (s *WordSet) Contains(word string) bool {
	_, ok := s.words[strings.ToLower(word)]
	return ok
}

// Len returns the number of distinct words.
func (s *WordSet) Len() int {
	return len(s.words)
}

// Unknown implements Oracle.
func (s *WordSet) Unknown(words []string) []string {
	var out []string
	for _, word := range words {
		if !s.Contains(word) {
			out = append(out, word)
		}
	}
	return out
}
