package geocoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeHouseNumber(t *testing.T) {
	tests := []struct {
		text     string
		isPrefix bool
		want     bool
	}{
		{"5", false, true},
		{"5a", false, true},
		{"221b", false, true},
		{"12 b", false, true},
		{"12 3", false, true},
		{"0", false, true},
		{"", false, false},
		{"main", false, false},
		{"a5", false, false},         // must start with a digit
		{"1a2", false, false},        // second digit run
		{"123456789", false, false},  // token too long
		{"1 2 3 4 5", false, false},  // too many tokens
		{"5 baker", false, false},    // word after the number
		{"5 bak", true, true},        // prefix mode skips the last token's shape
		{"house 5", true, false},     // prefix mode still requires a leading digit
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LooksLikeHouseNumber(tt.text, tt.isPrefix),
			"LooksLikeHouseNumber(%q, %v)", tt.text, tt.isPrefix)
	}
}

func TestHouseNumbersMatch(t *testing.T) {
	tests := []struct {
		candidate string
		query     string
		isPrefix  bool
		want      bool
	}{
		{"5", "5", false, true},
		{"05", "5", false, true},
		{"5a", "5 a", false, true},
		{"5 B", "5b", false, true},
		{"5", "6", false, false},
		{"5a", "5b", false, false},
		{"12", "12 3", false, false},
		{"", "5", false, false},
		{"5", "", false, false},
		{"12", "1", true, true},
		{"5b", "5", true, true},
		{"5", "5b", true, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HouseNumbersMatch(tt.candidate, tt.query, tt.isPrefix),
			"HouseNumbersMatch(%q, %q, %v)", tt.candidate, tt.query, tt.isPrefix)
	}
}

func TestHouseNumberGroups(t *testing.T) {
	assert.Equal(t, []string{"5"}, houseNumberGroups("5"))
	assert.Equal(t, []string{"5", "a"}, houseNumberGroups("5a"))
	assert.Equal(t, []string{"5", "a"}, houseNumberGroups("05 a"))
	assert.Equal(t, []string{"0"}, houseNumberGroups("000"))
	assert.Empty(t, houseNumberGroups(" -/ "))
}
