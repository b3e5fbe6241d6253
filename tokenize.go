package geocoder

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

// Tokenize normalizes a raw query into comparable tokens: the text is
// transliterated to ASCII, lowercased, and split on every rune that is
// neither a letter nor a digit. The output is stable for identical input;
// beam ordering and result determinism depend on that.
func Tokenize(raw string) []string {
	folded := strings.ToLower(unidecode.Unidecode(raw))
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// normalizeName canonicalizes an entry or address name for indexing and
// comparison: the same pipeline as query tokenization, re-joined with
// single spaces.
func normalizeName(raw string) string {
	return strings.Join(Tokenize(raw), " ")
}
