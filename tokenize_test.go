package geocoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Main St 5", []string{"main", "st", "5"}},
		{"  Main   St.  5, ", []string{"main", "st", "5"}},
		{"Zürich", []string{"zurich"}},
		{"Łódź", []string{"lodz"}},
		{"Sankt-Peterburg", []string{"sankt", "peterburg"}},
		{"221B Baker Street", []string{"221b", "baker", "street"}},
		{"", nil},
		{"  ,.;  ", nil},
	}

	for _, tt := range tests {
		got := Tokenize(tt.in)
		if tt.want == nil {
			assert.Empty(t, got, "Tokenize(%q)", tt.in)
			continue
		}
		assert.Equal(t, tt.want, got, "Tokenize(%q)", tt.in)
	}
}

func TestTokenizeIsDeterministic(t *testing.T) {
	const q = "Bülowstraße 12a, Berlin"
	first := Tokenize(q)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Tokenize(q))
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "main st", normalizeName(" Main  St. "))
	assert.Equal(t, "", normalizeName("---"))
}
