// Package textfix repairs encoding artifacts in input text before it reaches the cipher.
package textfix

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// mojibakeMarkers are sequences that appear when UTF-8 text is decoded as Windows-1252.
var mojibakeMarkers = []string{"Ã", "Â", "â€"}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Fix returns text with mojibake undone, line endings folded to "\n",
// a leading byte order mark removed, curly quotes straightened and the
// result in NFC form.
func Fix(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = lineEndings.Replace(text)
	text = undoMojibake(text)
	out, _, err := transform.String(transform.Chain(norm.NFC, runes.Map(uncurl)), text)
	if err != nil {
		return text
	}
	return out
}

// undoMojibake re-encodes text as Windows-1252 and reads the bytes back as
// UTF-8. The input is kept unless the round trip yields valid UTF-8.
func undoMojibake(text string) string {
	if !hasMarker(text) {
		return text
	}
	raw, err := charmap.Windows1252.NewEncoder().String(text)
	if err != nil || !utf8.ValidString(raw) || raw == text {
		return text
	}
	return raw
}

func hasMarker(text string) bool {
	for _, m := range mojibakeMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func uncurl(r rune) rune {
	switch r {
	case '‘', '’', '‚', '′':
		return '\''
	case '“', '”', '„', '″':
		return '"'
	default:
		return r
	}
}
