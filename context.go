package geocoder

import "fmt"

// MaxResults bounds both the beam and the final result count of a query.
const MaxResults = 100

// Layer records one committed step of the search: the level that was
// matched and the documents that matched a token sub-range at that level.
// Layers stack up as matches succeed and unwind on backtrack, so the stack
// always reads as a top-down address path (gaps in level are allowed).
type Layer struct {
	Type    Type
	Entries []DocID
}

// Context holds all mutable state of one in-flight query: the tokens,
// their level assignment, the layer stack, the beam, and the house-number
// position hints. A Context belongs to exactly one query and is never
// shared between goroutines.
type Context struct {
	tokens        []string
	tokenTypes    []Type
	numUsedTokens int

	layers []Layer
	beam   *Beam

	// houseNumberPositions collects token ids that syntactically resembled
	// a house number beneath a street or locality layer. It is a hint, not
	// a commitment: backtracking never clears it.
	houseNumberPositions map[int]struct{}
}

// NewContext tokenizes a query and prepares empty per-query state.
func NewContext(query string) *Context {
	tokens := Tokenize(query)
	tokenTypes := make([]Type, len(tokens))
	for i := range tokenTypes {
		tokenTypes[i] = TypeNone
	}
	return &Context{
		tokens:               tokens,
		tokenTypes:           tokenTypes,
		beam:                 NewBeam(MaxResults),
		houseNumberPositions: make(map[int]struct{}),
	}
}

// NumTokens returns the query's token count.
func (c *Context) NumTokens() int { return len(c.tokens) }

// NumUsedTokens returns how many tokens currently carry an assignment.
func (c *Context) NumUsedTokens() int {
	if c.numUsedTokens > len(c.tokens) {
		panic(fmt.Sprintf("used-token counter %d exceeds token count %d", c.numUsedTokens, len(c.tokens)))
	}
	return c.numUsedTokens
}

// Token returns the token at id.
func (c *Context) Token(id int) string {
	c.checkTokenID(id)
	return c.tokens[id]
}

// TokenType returns the current assignment of the token at id, TypeNone
// when unassigned.
func (c *Context) TokenType(id int) Type {
	c.checkTokenID(id)
	return c.tokenTypes[id]
}

// IsTokenUsed reports whether the token at id carries an assignment.
func (c *Context) IsTokenUsed(id int) bool {
	return c.TokenType(id) != TypeNone
}

// AllTokensUsed reports whether every token carries an assignment.
func (c *Context) AllTokensUsed() bool {
	return c.numUsedTokens == len(c.tokens)
}

// MarkToken assigns a level to one token; TypeNone releases it. This is
// the single mutation point for the assignment: the used-token counter
// moves only when a token crosses the used/unused boundary, never when it
// is reassigned between two levels.
func (c *Context) MarkToken(id int, t Type) {
	c.checkTokenID(id)
	wasUsed := c.tokenTypes[id] != TypeNone
	c.tokenTypes[id] = t
	nowUsed := t != TypeNone

	switch {
	case wasUsed && !nowUsed:
		c.numUsedTokens--
	case !wasUsed && nowUsed:
		c.numUsedTokens++
	}
}

// AddResult feeds one candidate into the beam. The token id and type
// slices are copied; callers may keep reusing their buffers.
func (c *Context) AddResult(id uint64, certainty float64, t Type, tokenIDs []int, allTypes []Type) {
	key := BeamKey{
		ID:       id,
		Type:     t,
		TokenIDs: append([]int(nil), tokenIDs...),
		AllTypes: append([]Type(nil), allTypes...),
	}
	c.beam.Add(key, certainty)
}

// MarkHouseNumberPositions records token ids whose sub-range resembled a
// house number. Recording is one-way on purpose; see the field comment.
func (c *Context) MarkHouseNumberPositions(tokenIDs []int) {
	for _, id := range tokenIDs {
		c.checkTokenID(id)
		c.houseNumberPositions[id] = struct{}{}
	}
}

// FillResults drains the beam into final results: walk candidates best
// first, keep only the first candidate per object, drop candidates that
// fail the house-number plausibility check, then normalize certainties by
// the best survivor. The output is sorted descending, at most MaxResults
// long, and its first certainty is exactly 1.0 when non-empty.
func (c *Context) FillResults() []Result {
	entries := c.beam.Entries()
	results := make([]Result, 0, len(entries))

	seen := make(map[uint64]struct{}, len(entries))
	hasPotentialHouseNumber := len(c.houseNumberPositions) > 0
	for i := range entries {
		e := &entries[i]
		if _, dup := seen[e.Key.ID]; dup {
			continue
		}
		seen[e.Key.ID] = struct{}{}

		if hasPotentialHouseNumber && !c.isGoodForPotentialHouseNumber(&e.Key) {
			continue
		}
		results = append(results, Result{ID: e.Key.ID, Certainty: e.Certainty})
	}

	if len(results) > 0 {
		best := results[0].Certainty
		for i := range results {
			results[i].Certainty /= best
		}
	}
	return results
}

// isGoodForPotentialHouseNumber decides whether a candidate is plausible
// given that the query contained something house-number-shaped. A
// candidate passes when it consumed the whole query, when it is a building
// with a full locality+street+building address, or when it is a
// region-to-locality match whose coverage includes the suspected
// house-number tokens.
func (c *Context) isGoodForPotentialHouseNumber(key *BeamKey) bool {
	if len(key.TokenIDs) == len(c.tokens) {
		return true
	}
	if isBuildingWithAddress(key) {
		return true
	}
	if hasLocalityOrRegion(key) && c.coversHouseNumberPositions(key) {
		return true
	}
	return false
}

// isBuildingWithAddress reports whether the candidate is a building whose
// assignment shows a region-ish ancestor, a street and a building all at
// once. A bare country does not count as the region-ish part.
func isBuildingWithAddress(key *BeamKey) bool {
	if key.Type != TypeBuilding {
		return false
	}
	var gotLocality, gotStreet, gotBuilding bool
	for _, t := range key.AllTypes {
		switch t {
		case TypeRegion, TypeSubregion, TypeLocality:
			gotLocality = true
		case TypeStreet:
			gotStreet = true
		case TypeBuilding:
			gotBuilding = true
		}
	}
	return gotLocality && gotStreet && gotBuilding
}

func hasLocalityOrRegion(key *BeamKey) bool {
	for _, t := range key.AllTypes {
		if t == TypeRegion || t == TypeSubregion || t == TypeLocality {
			return true
		}
	}
	return false
}

// coversHouseNumberPositions reports whether the candidate's token
// coverage is a superset of the recorded house-number positions.
func (c *Context) coversHouseNumberPositions(key *BeamKey) bool {
	for pos := range c.houseNumberPositions {
		if !containsInt(key.TokenIDs, pos) {
			return false
		}
	}
	return true
}

func (c *Context) checkTokenID(id int) {
	if id < 0 || id >= len(c.tokens) {
		panic(fmt.Sprintf("token id %d out of range [0, %d)", id, len(c.tokens)))
	}
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
