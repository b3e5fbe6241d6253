package geocoder

import (
	"strings"
	"sync"
)

// MultipleNames is one entry's normalized names at a single hierarchy
// level: the canonical main name plus any alternates.
type MultipleNames struct {
	Main     string
	Variants []string
}

// Empty reports whether the set holds no names at all.
func (m MultipleNames) Empty() bool { return m.Main == "" }

// Contains reports whether name equals the main name or any variant.
func (m MultipleNames) Contains(name string) bool {
	if name == m.Main {
		return true
	}
	for _, v := range m.Variants {
		if name == v {
			return true
		}
	}
	return false
}

// ForEach calls fn for the main name and then each variant.
func (m MultipleNames) ForEach(fn func(name string)) {
	if m.Main == "" {
		return
	}
	fn(m.Main)
	for _, v := range m.Variants {
		fn(v)
	}
}

// key is the dedup key for interning: names joined by a separator that
// cannot occur in normalized names.
func (m MultipleNames) key() string {
	if len(m.Variants) == 0 {
		return m.Main
	}
	var sb strings.Builder
	sb.WriteString(m.Main)
	for _, v := range m.Variants {
		sb.WriteByte(0)
		sb.WriteString(v)
	}
	return sb.String()
}

// NamePosition locates a name set inside a NameDictionary. Position zero
// is reserved for the empty set, so the zero value of an address slot
// means "no name at this level".
type NamePosition uint32

// NoNamePosition is the reserved position of the empty name set.
const NoNamePosition NamePosition = 0

// NameDictionary interns normalized name sets so that the thousands of
// entries sharing an ancestor store one copy of its names. Writes happen
// only while the hierarchy loads; afterwards the dictionary is read-only
// and safely shared across queries.
type NameDictionary struct {
	mu    sync.RWMutex
	sets  []MultipleNames
	index map[string]NamePosition
}

// NewNameDictionary creates an empty dictionary with position zero
// holding the empty name set.
func NewNameDictionary() *NameDictionary {
	d := &NameDictionary{
		sets:  make([]MultipleNames, 1, 1024),
		index: make(map[string]NamePosition, 1024),
	}
	d.index[""] = NoNamePosition
	return d
}

// Add interns a name set and returns its position, reusing the existing
// position for an identical set.
func (d *NameDictionary) Add(names MultipleNames) NamePosition {
	key := names.key()

	d.mu.RLock()
	if pos, ok := d.index[key]; ok {
		d.mu.RUnlock()
		return pos
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if pos, ok := d.index[key]; ok {
		return pos
	}
	pos := NamePosition(len(d.sets))
	d.sets = append(d.sets, names)
	d.index[key] = pos
	return pos
}

// Get returns the name set at pos. Out-of-range positions yield the
// empty set.
func (d *NameDictionary) Get(pos NamePosition) MultipleNames {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if int(pos) < len(d.sets) {
		return d.sets[pos]
	}
	return MultipleNames{}
}

// MainName returns the canonical name at pos, or "" if the position is
// empty or out of range.
func (d *NameDictionary) MainName(pos NamePosition) string {
	return d.Get(pos).Main
}

// Len returns the number of interned sets, the empty set included.
func (d *NameDictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sets)
}
