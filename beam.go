package geocoder

import (
	"slices"
	"sort"
)

// BeamKey is the composite identity of one candidate match: the object,
// the level it matched at, the exact token coverage, and the level
// multiset of the whole assignment that produced it.
type BeamKey struct {
	ID       uint64
	Type     Type
	TokenIDs []int
	AllTypes []Type
}

func (k *BeamKey) equal(o *BeamKey) bool {
	return k.ID == o.ID && k.Type == o.Type &&
		slices.Equal(k.TokenIDs, o.TokenIDs) &&
		slices.Equal(k.AllTypes, o.AllTypes)
}

// BeamEntry is one ranked candidate inside a Beam.
type BeamEntry struct {
	Key       BeamKey
	Certainty float64

	// seq is the insertion sequence number; it breaks certainty ties so
	// that earlier-fed entries walk first.
	seq int
}

// Beam keeps the best K candidates seen so far. Feeding a key that is
// already present keeps the better certainty and the original insertion
// rank. At capacity the weakest entry is evicted, and only for a strictly
// better newcomer; among equally weak entries the newest goes first.
type Beam struct {
	capacity int
	nextSeq  int
	entries  []BeamEntry
}

// NewBeam creates a beam holding at most capacity entries.
func NewBeam(capacity int) *Beam {
	if capacity <= 0 {
		panic("beam capacity must be positive")
	}
	return &Beam{
		capacity: capacity,
		entries:  make([]BeamEntry, 0, capacity),
	}
}

// Add feeds one candidate. It never fails: a candidate weaker than a full
// beam's weakest entry is silently dropped.
func (b *Beam) Add(key BeamKey, certainty float64) {
	for i := range b.entries {
		if b.entries[i].Key.equal(&key) {
			if certainty > b.entries[i].Certainty {
				b.entries[i].Certainty = certainty
			}
			return
		}
	}

	if len(b.entries) < b.capacity {
		b.entries = append(b.entries, BeamEntry{Key: key, Certainty: certainty, seq: b.nextSeq})
		b.nextSeq++
		return
	}

	weakest := 0
	for i := 1; i < len(b.entries); i++ {
		w := &b.entries[weakest]
		e := &b.entries[i]
		if e.Certainty < w.Certainty || (e.Certainty == w.Certainty && e.seq > w.seq) {
			weakest = i
		}
	}
	if certainty > b.entries[weakest].Certainty {
		b.entries[weakest] = BeamEntry{Key: key, Certainty: certainty, seq: b.nextSeq}
		b.nextSeq++
	}
}

// Entries returns the beam's candidates ordered by certainty descending,
// insertion order breaking ties. The walk order is the contract that
// result deduplication builds on: the first entry per object wins.
func (b *Beam) Entries() []BeamEntry {
	sort.SliceStable(b.entries, func(i, j int) bool {
		if b.entries[i].Certainty != b.entries[j].Certainty {
			return b.entries[i].Certainty > b.entries[j].Certainty
		}
		return b.entries[i].seq < b.entries[j].seq
	})
	return b.entries
}

// Len returns the number of candidates currently held.
func (b *Beam) Len() int { return len(b.entries) }
