package geocoder

import "github.com/golang/geo/s2"

// Entry is one geographic entity in the hierarchy. Entries are immutable
// once loaded.
//
// The ancestor relation is stored inverted: every entry carries the
// normalized names of its whole address path, one slot per level, and
// parents know nothing about their children. For a building the slot at
// its own level holds its house number.
type Entry struct {
	// ID is the stable object identifier (OSM-style), unique per object.
	ID uint64
	// Type is the entry's own hierarchy level.
	Type Type

	// address holds one interned name-set position per hierarchy level.
	// The slot at the entry's own level holds the entry's own names.
	address [numTypes]NamePosition

	hasCenter bool
	center    s2.LatLng
}

// Names returns the entry's normalized names at level t.
func (e *Entry) Names(t Type, dict *NameDictionary) MultipleNames {
	if t < 0 || int(t) >= numTypes {
		return MultipleNames{}
	}
	return dict.Get(e.address[t])
}

// NormalizedName returns the canonical name at level t, or "" when the
// entry has no name at that level.
func (e *Entry) NormalizedName(t Type, dict *NameDictionary) string {
	return e.Names(t, dict).Main
}

// Center returns the entry's WGS84 center, if the source data carried
// valid coordinates.
func (e *Entry) Center() (s2.LatLng, bool) {
	return e.center, e.hasCenter
}

// Hierarchy is the immutable, loaded-once collection of entries. It is
// read-only after ReadHierarchy returns and is safely shared across
// concurrently executing queries.
type Hierarchy struct {
	entries []Entry
	byID    map[uint64]int
	dict    *NameDictionary
}

// Entries returns all entries in load order. Callers must not mutate the
// returned slice.
func (h *Hierarchy) Entries() []Entry { return h.entries }

// NameDictionary returns the dictionary that the entries' address slots
// point into.
func (h *Hierarchy) NameDictionary() *NameDictionary { return h.dict }

// EntryByID returns the entry for an object identifier, or nil when the
// hierarchy holds no such object.
func (h *Hierarchy) EntryByID(id uint64) *Entry {
	if i, ok := h.byID[id]; ok {
		return &h.entries[i]
	}
	return nil
}

// IsParentTo reports whether parent is a recognized ancestor of child:
// every level at which parent has a name must be present in child's
// address with the same canonical name. An entry therefore "is parent to"
// anything that copies its full address prefix, which is exactly how the
// source data expresses containment.
func (h *Hierarchy) IsParentTo(parent, child *Entry) bool {
	for t := 0; t < numTypes; t++ {
		p := parent.address[t]
		if p == NoNamePosition {
			continue
		}
		c := child.address[t]
		if c == NoNamePosition {
			return false
		}
		if h.dict.MainName(p) != h.dict.MainName(c) {
			return false
		}
	}
	return true
}
