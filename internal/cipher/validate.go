// Package cipher implements the Vigenère transform and its input checks.
package cipher

import "github.com/verte-zerg/vigenere/internal/alphabet"

// IsValid reports whether message and key may be passed to the cipher.
// A message is one or more ASCII letters, spaces, newlines or characters
// from alphabet.Punctuation. A key is one or more ASCII letters.
func IsValid(message, key string) bool {
	return IsValidMessage(message) && validKey(key)
}

// IsValidMessage reports whether message alone satisfies the message rules of IsValid.
func IsValidMessage(message string) bool {
	if message == "" {
		return false
	}
	for _, r := range message {
		if !alphabet.IsLetter(r) && !alphabet.IsPunctuation(r) {
			return false
		}
	}
	return true
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		if !alphabet.IsLetter(rune(key[i])) {
			return false
		}
	}
	return true
}
