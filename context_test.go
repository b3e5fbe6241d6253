package geocoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkTokenMovesUsedCountOnlyAcrossBoundary(t *testing.T) {
	ctx := NewContext("one two three")
	require.Equal(t, 3, ctx.NumTokens())
	assert.Equal(t, 0, ctx.NumUsedTokens())

	ctx.MarkToken(1, TypeStreet)
	assert.Equal(t, 1, ctx.NumUsedTokens())
	assert.True(t, ctx.IsTokenUsed(1))

	// Reassigning between two levels must not move the counter.
	ctx.MarkToken(1, TypeLocality)
	assert.Equal(t, 1, ctx.NumUsedTokens())
	assert.Equal(t, TypeLocality, ctx.TokenType(1))

	ctx.MarkToken(1, TypeNone)
	assert.Equal(t, 0, ctx.NumUsedTokens())
	assert.False(t, ctx.IsTokenUsed(1))
}

func TestMarkTokenIsItsOwnInverse(t *testing.T) {
	ctx := NewContext("a b")
	before := ctx.NumUsedTokens()
	ctx.MarkToken(0, TypeCountry)
	ctx.MarkToken(0, TypeNone)
	assert.Equal(t, before, ctx.NumUsedTokens())
}

func TestMarkTokenRejectsOutOfRangeIDs(t *testing.T) {
	ctx := NewContext("a b")
	assert.Panics(t, func() { ctx.MarkToken(2, TypeStreet) })
	assert.Panics(t, func() { ctx.MarkToken(-1, TypeStreet) })
}

func TestAllTokensUsed(t *testing.T) {
	ctx := NewContext("a b")
	assert.False(t, ctx.AllTokensUsed())
	ctx.MarkToken(0, TypeStreet)
	ctx.MarkToken(1, TypeBuilding)
	assert.True(t, ctx.AllTokensUsed())
}

func TestFillResultsNormalizesAndSorts(t *testing.T) {
	ctx := NewContext("a b")
	ctx.AddResult(1, 4.0, TypeLocality, []int{0, 1}, []Type{TypeLocality, TypeLocality})
	ctx.AddResult(2, 2.0, TypeStreet, []int{0}, []Type{TypeStreet})

	results := ctx.FillResults()
	require.Len(t, results, 2)
	assert.Equal(t, uint64(1), results[0].ID)
	assert.Equal(t, 1.0, results[0].Certainty)
	assert.Equal(t, uint64(2), results[1].ID)
	assert.Equal(t, 0.5, results[1].Certainty)
}

func TestFillResultsDeduplicatesByObjectKeepingFirst(t *testing.T) {
	ctx := NewContext("a b")
	ctx.AddResult(1, 4.0, TypeLocality, []int{0, 1}, []Type{TypeLocality, TypeLocality})
	ctx.AddResult(1, 2.0, TypeLocality, []int{0}, []Type{TypeLocality})

	results := ctx.FillResults()
	require.Len(t, results, 1)
	assert.Equal(t, 1.0, results[0].Certainty)
}

func TestFillResultsEmptyBeam(t *testing.T) {
	ctx := NewContext("nothing matches")
	assert.Empty(t, ctx.FillResults())
}

func TestHouseNumberPlausibility(t *testing.T) {
	tests := []struct {
		name string
		key  BeamKey
		want bool
	}{
		{
			name: "full token coverage always passes",
			key:  BeamKey{ID: 1, Type: TypeStreet, TokenIDs: []int{0, 1, 2}, AllTypes: []Type{TypeStreet, TypeStreet, TypeBuilding}},
			want: true,
		},
		{
			name: "building with locality street and building passes",
			key:  BeamKey{ID: 1, Type: TypeBuilding, TokenIDs: []int{0, 1}, AllTypes: []Type{TypeLocality, TypeStreet, TypeBuilding}},
			want: true,
		},
		{
			name: "building with only country ancestor fails",
			key:  BeamKey{ID: 1, Type: TypeBuilding, TokenIDs: []int{0, 1}, AllTypes: []Type{TypeCountry, TypeStreet, TypeBuilding}},
			want: false,
		},
		{
			name: "locality covering the suspicious positions passes",
			key:  BeamKey{ID: 1, Type: TypeLocality, TokenIDs: []int{0, 2}, AllTypes: []Type{TypeLocality}},
			want: true,
		},
		{
			name: "locality missing the suspicious positions fails",
			key:  BeamKey{ID: 1, Type: TypeLocality, TokenIDs: []int{0, 1}, AllTypes: []Type{TypeLocality}},
			want: false,
		},
		{
			name: "street-only assignment fails",
			key:  BeamKey{ID: 1, Type: TypeStreet, TokenIDs: []int{0, 2}, AllTypes: []Type{TypeStreet}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext("a b c")
			ctx.MarkHouseNumberPositions([]int{2})
			assert.Equal(t, tt.want, ctx.isGoodForPotentialHouseNumber(&tt.key))
		})
	}
}

func TestFillResultsAppliesHouseNumberFilter(t *testing.T) {
	ctx := NewContext("a b c")
	ctx.MarkHouseNumberPositions([]int{2})

	// Street covering only [0,1] is implausible next to a suspected house
	// number; the building covering everything survives.
	ctx.AddResult(1, 2.0, TypeStreet, []int{0, 1}, []Type{TypeStreet, TypeStreet})
	ctx.AddResult(2, 2.1, TypeBuilding, []int{0, 1, 2}, []Type{TypeStreet, TypeStreet, TypeBuilding})

	results := ctx.FillResults()
	require.Len(t, results, 1)
	assert.Equal(t, uint64(2), results[0].ID)
	assert.Equal(t, 1.0, results[0].Certainty)
}

func TestAddResultCopiesCallerBuffers(t *testing.T) {
	ctx := NewContext("a b")
	tokenIDs := []int{0}
	allTypes := []Type{TypeStreet}
	ctx.AddResult(1, 1.0, TypeStreet, tokenIDs, allTypes)

	tokenIDs[0] = 1
	allTypes[0] = TypeBuilding

	entries := ctx.beam.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, []int{0}, entries[0].Key.TokenIDs)
	assert.Equal(t, []Type{TypeStreet}, entries[0].Key.AllTypes)
}
