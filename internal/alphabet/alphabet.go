// Package alphabet maps the 26 lowercase Latin letters to indices 0-25.
package alphabet

import "fmt"

// Size is the number of letters in the cipher alphabet.
const Size = 26

// Letters lists the alphabet in index order.
const Letters = "abcdefghijklmnopqrstuvwxyz"

// Punctuation lists the characters the cipher copies through unchanged.
const Punctuation = " .,'\"?!’\n"

// WordPunctuation lists the characters stripped from words before a
// dictionary lookup. It is wider than Punctuation.
const WordPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~’\n"

// Index returns the 0-25 index of a letter. Uppercase letters are folded.
func Index(r rune) (int, error) {
	switch {
	case r >= 'a' && r <= 'z':
		return int(r - 'a'), nil
	case r >= 'A' && r <= 'Z':
		return int(r - 'A'), nil
	default:
		return 0, fmt.Errorf("not a letter: %q", r)
	}
}

// Letter returns the lowercase letter for an index in [0,25].
func Letter(i int) rune {
	return rune(Letters[Mod(i)])
}

// Mod reduces n into [0,Size). Unlike %, the result is never negative.
func Mod(n int) int {
	m := n % Size
	if m < 0 {
		m += Size
	}
	return m
}

// IsLetter reports whether r is an ASCII letter.
func IsLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsPunctuation reports whether r is copied through by the cipher.
func IsPunctuation(r rune) bool {
	switch r {
	case ' ', '.', ',', '\'', '"', '?', '!', '’', '\n':
		return true
	default:
		return false
	}
}

// Fold lowercases an ASCII letter and leaves everything else alone.
func Fold(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
