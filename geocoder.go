// Package geocoder implements an offline address geocoder: free-text
// queries are resolved against an immutable hierarchy of geographic
// entities (country down to building) by a recursive, backtracking,
// type-ordered token-assignment search, and ranked by an additive
// certainty score through a bounded best-K beam.
package geocoder

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/TomiHiltunen/geohash-golang"
)

// geohashPrecision is the character length of result geohashes; 9 gives
// roughly street-level buckets.
const geohashPrecision = 9

// Option configures a Geocoder during construction.
type Option func(*settings)

type settings struct {
	workers int
}

// WithWorkers sets the worker count used for the one-time hierarchy parse
// and index build. It has no effect on query execution, which is always
// single-threaded per query. Defaults to the number of CPUs.
func WithWorkers(n int) Option {
	return func(s *settings) {
		s.workers = n
	}
}

// Geocoder resolves free-text queries against a loaded hierarchy. The
// hierarchy and index never change after construction, so a single
// Geocoder safely serves concurrent queries; every query owns its own
// Context and no shared state is mutated on the read path.
type Geocoder struct {
	hierarchy *Hierarchy
	index     *Index
}

// New builds a Geocoder over an already-loaded hierarchy.
func New(h *Hierarchy, opts ...Option) (*Geocoder, error) {
	s := settings{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&s)
	}
	idx, err := BuildIndex(h, s.workers)
	if err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}
	return &Geocoder{hierarchy: h, index: idx}, nil
}

// NewFromReader loads a JSON-lines hierarchy from r and builds a Geocoder.
func NewFromReader(r io.Reader, opts ...Option) (*Geocoder, error) {
	s := settings{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&s)
	}
	h, err := ReadHierarchy(r, s.workers)
	if err != nil {
		return nil, err
	}
	return New(h, opts...)
}

// NewFromFile loads a JSON-lines hierarchy file and builds a Geocoder.
func NewFromFile(path string, opts ...Option) (*Geocoder, error) {
	s := settings{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&s)
	}
	h, err := ReadHierarchyFile(path, s.workers)
	if err != nil {
		return nil, err
	}
	return New(h, opts...)
}

// Hierarchy returns the loaded hierarchy.
func (g *Geocoder) Hierarchy() *Hierarchy { return g.hierarchy }

// Index returns the token index built over the hierarchy.
func (g *Geocoder) Index() *Index { return g.index }

// ProcessQuery geocodes one free-text query. Results come back ordered by
// certainty with the best at 1.0, at most MaxResults long, one result per
// object. A query that resolves to nothing returns an empty slice; that is
// a normal outcome, not an error.
func (g *Geocoder) ProcessQuery(query string) []Result {
	start := time.Now()

	ctx := NewContext(query)
	g.walk(ctx, TypeCountry)
	results := ctx.FillResults()
	g.attachCenters(results)

	slog.Debug("geocoded query",
		"query", query,
		"results", len(results),
		"duration", time.Since(start),
	)
	return results
}

// walk tries to consume token sub-ranges as entities of level t, then
// recurses into the next level. For each start position the sub-range
// grows until it hits an already-used token. A successful match commits a
// layer and explores deeper levels under it; the call after the loop
// explores deeper levels with this one skipped entirely. Some of those
// trailing calls re-explore states already seen; that re-exploration is
// kept as is because it is part of the observable enumeration order.
func (g *Geocoder) walk(ctx *Context, t Type) {
	if ctx.NumTokens() == 0 {
		return
	}
	if ctx.AllTokensUsed() {
		return
	}
	if t == TypeNone {
		return
	}

	subquery := make([]string, 0, ctx.NumTokens())
	subqueryTokenIDs := make([]int, 0, ctx.NumTokens())
	for i := 0; i < ctx.NumTokens(); i++ {
		subquery = subquery[:0]
		subqueryTokenIDs = subqueryTokenIDs[:0]
		for j := i; j < ctx.NumTokens(); j++ {
			if ctx.IsTokenUsed(j) {
				break
			}
			subquery = append(subquery, ctx.Token(j))
			subqueryTokenIDs = append(subqueryTokenIDs, j)

			layer := Layer{Type: t}
			// Buildings are indexed separately, by house number under
			// their street or locality.
			if t == TypeBuilding {
				g.fillBuildingsLayer(ctx, subquery, subqueryTokenIDs, &layer)
			} else {
				g.fillRegularLayer(ctx, t, subquery, &layer)
			}
			if len(layer.Entries) == 0 {
				continue
			}

			g.commitLayer(ctx, t, i, j+1, layer)
		}
	}

	g.walk(ctx, nextType(t))
}

// commitLayer marks tokens [l, r) with t, rescores the whole current
// assignment, feeds the beam with every matched document, pushes the layer
// and recurses into the next level. Every mutation is undone on return so
// the caller can keep enumerating sub-ranges; only house-number position
// hints survive the unwind.
func (g *Geocoder) commitLayer(ctx *Context, t Type, l, r int, layer Layer) {
	markTokenRange(ctx, t, l, r)
	defer unmarkTokenRange(ctx, l, r)

	synonymToken := -1
	certainty := 0.0
	var tokenIDs []int
	var allTypes []Type
	for id := 0; id < ctx.NumTokens(); id++ {
		tt := ctx.TokenType(id)
		if t == TypeStreet && tt == TypeNone && synonymToken < 0 && IsStreetSynonym(ctx.Token(id)) {
			// Pull a stray "street"/"avenue" word into this street layer.
			// tt was read before the mark, so the token scores and lists
			// only in deeper levels, not in the one that claims it.
			ctx.MarkToken(id, TypeStreet)
			synonymToken = id
		}

		certainty += certaintyWeight(tt)
		if tt != TypeNone {
			tokenIDs = append(tokenIDs, id)
			allTypes = append(allTypes, tt)
		}
	}
	if synonymToken >= 0 {
		defer ctx.MarkToken(synonymToken, TypeNone)
	}

	for _, docID := range layer.Entries {
		ctx.AddResult(g.index.Doc(docID).ID, certainty, t, tokenIDs, allTypes)
	}

	ctx.layers = append(ctx.layers, layer)
	defer func() {
		ctx.layers = ctx.layers[:len(ctx.layers)-1]
	}()

	g.walk(ctx, nextType(t))
}

// fillBuildingsLayer matches a token sub-range against house numbers. A
// building can never be the first match, and the sub-range must look like
// a house number at all. The active layers are walked newest first; under
// every street or locality layer the sub-range positions are recorded as
// house-number hints, then the layer's related buildings are checked for a
// house number equal to the sub-range.
func (g *Geocoder) fillBuildingsLayer(ctx *Context, subquery []string, subqueryTokenIDs []int, layer *Layer) {
	if len(ctx.layers) == 0 {
		return
	}

	houseNumber := strings.Join(subquery, " ")
	if !LooksLikeHouseNumber(houseNumber, false) {
		return
	}

	dict := g.hierarchy.NameDictionary()
	for li := len(ctx.layers) - 1; li >= 0; li-- {
		prev := &ctx.layers[li]
		if prev.Type != TypeStreet && prev.Type != TypeLocality {
			continue
		}

		// A street or locality is already matched and this range resembles
		// a house number. It can still be something else (a postal code,
		// say), so record the positions as a hint rather than a commitment.
		ctx.MarkHouseNumberPositions(subqueryTokenIDs)

		for _, docID := range prev.Entries {
			g.index.ForEachRelatedBuilding(docID, func(buildingID DocID) {
				bld := g.index.Doc(buildingID)
				realHN := bld.NormalizedName(TypeBuilding, dict)
				if HouseNumbersMatch(realHN, houseNumber, false) {
					layer.Entries = append(layer.Entries, buildingID)
				}
			})
		}
	}
}

// fillRegularLayer collects documents of level t whose name matches the
// sub-range exactly, keeping only candidates consistent with the innermost
// active layer.
func (g *Geocoder) fillRegularLayer(ctx *Context, t Type, subquery []string, layer *Layer) {
	g.index.ForEachDocID(subquery, func(docID DocID) {
		d := g.index.Doc(docID)
		if d.Type != t {
			return
		}
		if len(ctx.layers) == 0 || g.hasParent(ctx.layers, d) {
			layer.Entries = append(layer.Entries, docID)
		}
	})
}

// hasParent reports whether any document of the innermost layer is a
// stored ancestor of e. The relation is inverted in the data: entries
// carry their ancestors' names, parents know nothing about children, so
// the check runs over the candidate's own address.
func (g *Geocoder) hasParent(layers []Layer, e *Entry) bool {
	if len(layers) == 0 {
		panic("hasParent called with no active layers")
	}
	layer := &layers[len(layers)-1]
	for _, docID := range layer.Entries {
		if g.hierarchy.IsParentTo(g.index.Doc(docID), e) {
			return true
		}
	}
	return false
}

// attachCenters enriches results with the matched entries' coordinates and
// a geohash of them, where the source data knew a position.
func (g *Geocoder) attachCenters(results []Result) {
	for i := range results {
		e := g.hierarchy.EntryByID(results[i].ID)
		if e == nil {
			continue
		}
		ll, ok := e.Center()
		if !ok {
			continue
		}
		lat := ll.Lat.Degrees()
		lng := ll.Lng.Degrees()
		results[i].HasCenter = true
		results[i].Lat = lat
		results[i].Lon = lng
		results[i].Geohash = geohash.EncodeWithPrecision(lat, lng, geohashPrecision)
	}
}

// markTokenRange assigns level t to every token in [l, r).
func markTokenRange(ctx *Context, t Type, l, r int) {
	if l > r || r > ctx.NumTokens() {
		panic(fmt.Sprintf("invalid token range [%d, %d)", l, r))
	}
	for i := l; i < r; i++ {
		ctx.MarkToken(i, t)
	}
}

// unmarkTokenRange releases every token in [l, r).
func unmarkTokenRange(ctx *Context, l, r int) {
	for i := l; i < r; i++ {
		ctx.MarkToken(i, TypeNone)
	}
}
