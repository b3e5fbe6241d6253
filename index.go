package geocoder

import (
	"strings"

	"golang.org/x/sync/errgroup"
)

// DocID identifies one hierarchy entry inside an Index. It is the entry's
// position in load order, so iteration over doc ids is deterministic.
type DocID int

// Index answers the two lookups the search needs: documents whose
// normalized name equals an exact token subsequence, and buildings related
// to a given street or locality document. Built once from a Hierarchy,
// read-only afterwards.
type Index struct {
	h *Hierarchy

	// docIDsByTokens maps a space-joined normalized name to the documents
	// carrying that name. Buildings are excluded: their names are house
	// numbers and are reached through relatedBuildings instead.
	docIDsByTokens map[string][]DocID

	// relatedBuildings lists, for a street or locality document, the
	// buildings whose stored address names it. Inverse of the entry's
	// ancestor slots.
	relatedBuildings map[DocID][]DocID
}

// BuildIndex indexes every entry of h. workers bounds the fan-out of the
// one-time building-relation pass; queries never mutate the index, so no
// locking happens on the read path.
func BuildIndex(h *Hierarchy, workers int) (*Index, error) {
	if workers < 1 {
		workers = 1
	}
	idx := &Index{
		h:                h,
		docIDsByTokens:   make(map[string][]DocID),
		relatedBuildings: make(map[DocID][]DocID),
	}

	entries := h.Entries()
	dict := h.NameDictionary()
	for i := range entries {
		e := &entries[i]
		if e.Type == TypeBuilding {
			continue
		}
		e.Names(e.Type, dict).ForEach(func(name string) {
			idx.docIDsByTokens[name] = append(idx.docIDsByTokens[name], DocID(i))
		})
	}

	if err := idx.relateBuildings(workers); err != nil {
		return nil, err
	}
	return idx, nil
}

// relateBuildings resolves every building's street and locality address
// slots back to concrete documents. The resolution fans out over workers;
// the merge runs in document order so the relation lists are deterministic.
func (idx *Index) relateBuildings(workers int) error {
	entries := idx.h.Entries()
	dict := idx.h.NameDictionary()

	parents := make([][]DocID, len(entries))
	var g errgroup.Group
	g.SetLimit(workers)
	for i := range entries {
		if entries[i].Type != TypeBuilding {
			continue
		}
		i := i
		g.Go(func() error {
			bld := &entries[i]
			var found []DocID
			for _, t := range [...]Type{TypeStreet, TypeLocality} {
				name := bld.NormalizedName(t, dict)
				if name == "" {
					continue
				}
				for _, docID := range idx.docIDsByTokens[name] {
					d := idx.Doc(docID)
					if d.Type != t {
						continue
					}
					if idx.h.IsParentTo(d, bld) && !containsDocID(found, docID) {
						found = append(found, docID)
					}
				}
			}
			parents[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range entries {
		for _, p := range parents[i] {
			idx.relatedBuildings[p] = append(idx.relatedBuildings[p], DocID(i))
		}
	}
	return nil
}

// Doc returns the entry behind a DocID. Out-of-range ids are programmer
// errors and panic via the slice bounds check.
func (idx *Index) Doc(id DocID) *Entry {
	return &idx.h.Entries()[id]
}

// ForEachDocID calls fn for every document whose normalized name matches
// the exact token subsequence, in document order.
func (idx *Index) ForEachDocID(tokens []string, fn func(DocID)) {
	for _, id := range idx.docIDsByTokens[strings.Join(tokens, " ")] {
		fn(id)
	}
}

// ForEachRelatedBuilding calls fn for every building related to the given
// street or locality document, in document order.
func (idx *Index) ForEachRelatedBuilding(id DocID, fn func(DocID)) {
	for _, b := range idx.relatedBuildings[id] {
		fn(b)
	}
}

func containsDocID(ids []DocID, id DocID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
