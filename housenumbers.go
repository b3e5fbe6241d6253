package geocoder

import (
	"strings"
	"unicode"
)

// House-number heuristics: pure, deterministic predicates over normalized
// text. The grammar is intentionally thin — a short group of tokens led by
// a number, with optional letter suffixes ("5", "5a", "12 b", "221b").

const (
	maxHouseNumberTokens   = 4
	maxHouseNumberTokenLen = 8
	maxHouseNumberSuffix   = 3
)

// LooksLikeHouseNumber reports whether text plausibly denotes a house
// number. text is expected to be normalized tokens joined by spaces. In
// prefix mode the last token may still be incomplete and only its length
// is checked.
func LooksLikeHouseNumber(text string, isPrefix bool) bool {
	tokens := strings.Fields(text)
	if len(tokens) == 0 || len(tokens) > maxHouseNumberTokens {
		return false
	}
	for _, tok := range tokens {
		if len(tok) > maxHouseNumberTokenLen {
			return false
		}
	}
	if !startsWithDigit(tokens[0]) {
		return false
	}
	for i, tok := range tokens {
		if isPrefix && i == len(tokens)-1 {
			continue
		}
		if !isHouseNumberToken(tok) {
			return false
		}
	}
	return true
}

// isHouseNumberToken accepts digits, digits with a short letter suffix,
// or a short bare letter suffix ("5 a").
func isHouseNumberToken(tok string) bool {
	digits := 0
	for _, r := range tok {
		if !unicode.IsDigit(r) {
			break
		}
		digits++
	}
	rest := tok[digits:]
	for _, r := range rest {
		if unicode.IsDigit(r) {
			// A second digit run ("1a2") is not a house number shape.
			return false
		}
	}
	if digits == 0 {
		return len(rest) > 0 && len(rest) <= 2
	}
	return len(rest) <= maxHouseNumberSuffix
}

// HouseNumbersMatch reports whether a building's house number equals the
// queried one. Both sides are reduced to their digit and letter runs, with
// leading zeros stripped from digit runs, so "05 B" matches "5b". In
// prefix mode the query's runs may form a prefix of the candidate's, the
// last one partially.
func HouseNumbersMatch(candidate, query string, queryIsPrefix bool) bool {
	cg := houseNumberGroups(candidate)
	qg := houseNumberGroups(query)
	if len(cg) == 0 || len(qg) == 0 {
		return false
	}

	if queryIsPrefix {
		if len(qg) > len(cg) {
			return false
		}
		for i := range qg {
			if i == len(qg)-1 {
				if !strings.HasPrefix(cg[i], qg[i]) {
					return false
				}
				continue
			}
			if cg[i] != qg[i] {
				return false
			}
		}
		return true
	}

	if len(cg) != len(qg) {
		return false
	}
	for i := range cg {
		if cg[i] != qg[i] {
			return false
		}
	}
	return true
}

// houseNumberGroups splits s into maximal digit runs and letter runs,
// dropping everything else. Digit runs lose their leading zeros.
func houseNumberGroups(s string) []string {
	var groups []string
	var cur []rune
	curDigits := false

	flush := func() {
		if len(cur) == 0 {
			return
		}
		g := string(cur)
		if curDigits {
			g = strings.TrimLeft(g, "0")
			if g == "" {
				g = "0"
			}
		}
		groups = append(groups, g)
		cur = cur[:0]
	}

	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			if len(cur) > 0 && !curDigits {
				flush()
			}
			curDigits = true
			cur = append(cur, r)
		case unicode.IsLetter(r):
			if len(cur) > 0 && curDigits {
				flush()
			}
			curDigits = false
			cur = append(cur, r)
		default:
			flush()
		}
	}
	flush()
	return groups
}

func startsWithDigit(s string) bool {
	for _, r := range s {
		return unicode.IsDigit(r)
	}
	return false
}
