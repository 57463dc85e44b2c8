package wordlist

// IsEnglishWord reports whether word consists of 1-20 lowercase ASCII letters,
// the only words the cipher can produce.
func IsEnglishWord(word string) bool {
	if word == "" || len(word) > 20 {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}
