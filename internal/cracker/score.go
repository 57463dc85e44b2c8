package cracker

import (
	"strings"

	"github.com/verte-zerg/vigenere/internal/alphabet"
	"github.com/verte-zerg/vigenere/internal/cipher"
	"github.com/verte-zerg/vigenere/internal/dictionary"
)

// Score decrypts ciphertext under key and counts the words oracle does not
// recognize. Lower scores are more plausible.
func Score(oracle dictionary.Oracle, ciphertext, key string) (int, error) {
	if !cipher.IsValid(ciphertext, key) {
		return 0, cipher.ErrInvalidInput
	}
	return scoreValid(oracle, ciphertext, key), nil
}

// scoreValid is Score for inputs that already passed cipher.IsValid.
func scoreValid(oracle dictionary.Oracle, ciphertext, key string) int {
	return len(oracle.Unknown(Words(cipher.DecryptValid(ciphertext, key))))
}

// Words splits text on spaces and strips alphabet.WordPunctuation from each
// token. Tokens left empty are dropped.
func Words(text string) []string {
	parts := strings.Split(text, " ")
	words := make([]string, 0, len(parts))
	for _, part := range parts {
		word := strings.Map(func(r rune) rune {
			if strings.ContainsRune(alphabet.WordPunctuation, r) {
				return -1
			}
			return r
		}, part)
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	return words
}
