package cipher

import (
	"errors"
	"strings"

	"github.com/verte-zerg/vigenere/internal/alphabet"
)

// ErrInvalidInput is returned when the message or key fails IsValid.
var ErrInvalidInput = errors.New("invalid message or key received")

// Direction selects whether key letters are added or subtracted.
type Direction int

const (
	// Encrypt adds the key letter to each message letter.
	Encrypt Direction = iota
	// Decrypt subtracts the key letter from each message letter.
	Decrypt
)

// EncryptText enciphers message with key.
func EncryptText(message, key string) (string, error) {
	return Transform(message, key, Encrypt)
}

// DecryptText deciphers ciphertext with key.
func DecryptText(ciphertext, key string) (string, error) {
	return Transform(ciphertext, key, Decrypt)
}

// Transform runs text through the cipher. Letters are folded to lowercase and
// shifted by the repeating key; punctuation, spaces and newlines are copied
// and do not consume a key letter.
func Transform(text, key string, dir Direction) (string, error) {
	if !IsValid(text, key) {
		return "", ErrInvalidInput
	}
	return shift(text, keyShifts(key, dir)), nil
}

// DecryptValid deciphers ciphertext without checking it. Callers must have
// passed ciphertext and key through IsValid.
func DecryptValid(ciphertext, key string) string {
	return shift(ciphertext, keyShifts(key, Decrypt))
}

func shift(text string, shifts []int) string {
	var b strings.Builder
	b.Grow(len(text))
	keyIndex := 0
	for _, r := range text {
		idx, err := alphabet.Index(r)
		if err != nil {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(alphabet.Letter(idx + shifts[keyIndex%len(shifts)]))
		keyIndex++
	}
	return b.String()
}

func keyShifts(key string, dir Direction) []int {
	shifts := make([]int, len(key))
	for i := 0; i < len(key); i++ {
		idx, _ := alphabet.Index(rune(key[i]))
		if dir == Decrypt {
			idx = -idx
		}
		shifts[i] = idx
	}
	return shifts
}
