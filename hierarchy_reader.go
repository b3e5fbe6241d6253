package geocoder

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/golang/geo/s2"
	"golang.org/x/sync/errgroup"
)

// entryJSON mirrors one line of a hierarchy file.
//
// Format: JSON lines, one entity per line. "address" maps level names
// ("country" ... "building") to the raw name of the ancestor at that
// level; the entity's own level may be omitted there, its "name" is
// authoritative. Coordinates are optional.
type entryJSON struct {
	ID       uint64            `json:"id"`
	Type     string            `json:"type"`
	Name     string            `json:"name"`
	AltNames []string          `json:"alt_names,omitempty"`
	Address  map[string]string `json:"address,omitempty"`
	Lat      *float64          `json:"lat,omitempty"`
	Lon      *float64          `json:"lon,omitempty"`
}

// maxLineSize bounds a single hierarchy line. Real-world entries with all
// alternate names stay well under this.
const maxLineSize = 1 << 20

// ReadHierarchyFile loads a JSON-lines hierarchy from disk. workers bounds
// the parse fan-out; values below 1 mean single-threaded.
func ReadHierarchyFile(path string, workers int) (*Hierarchy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening hierarchy file: %w", err)
	}
	defer f.Close()
	return ReadHierarchy(f, workers)
}

// ReadHierarchy loads a JSON-lines hierarchy from r. Parsing fans out over
// workers goroutines; assembly stays in input order, so identical input
// always produces an identical hierarchy. Any malformed line fails the
// whole load: a hierarchy is either fully valid or not usable at all.
func ReadHierarchy(r io.Reader, workers int) (*Hierarchy, error) {
	start := time.Now()
	if workers < 1 {
		workers = 1
	}

	var lines []string
	var lineNos []int
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		lines = append(lines, line)
		lineNos = append(lineNos, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading hierarchy: %w", err)
	}

	parsed := make([]entryJSON, len(lines))
	var g errgroup.Group
	chunk := (len(lines) + workers - 1) / workers
	for lo := 0; lo < len(lines); lo += chunk {
		lo := lo
		hi := min(lo+chunk, len(lines))
		g.Go(func() error {
			for k := lo; k < hi; k++ {
				if err := json.Unmarshal([]byte(lines[k]), &parsed[k]); err != nil {
					return fmt.Errorf("hierarchy line %d: %w", lineNos[k], err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	h := &Hierarchy{
		entries: make([]Entry, 0, len(parsed)),
		byID:    make(map[uint64]int, len(parsed)),
		dict:    NewNameDictionary(),
	}
	for k := range parsed {
		entry, err := buildEntry(h.dict, &parsed[k])
		if err != nil {
			return nil, fmt.Errorf("hierarchy line %d: %w", lineNos[k], err)
		}
		if _, dup := h.byID[entry.ID]; dup {
			return nil, fmt.Errorf("hierarchy line %d: duplicate object id %d", lineNos[k], entry.ID)
		}
		h.byID[entry.ID] = len(h.entries)
		h.entries = append(h.entries, entry)
	}

	slog.Debug("hierarchy loaded",
		"entries", len(h.entries),
		"names", h.dict.Len(),
		"duration", time.Since(start),
	)
	return h, nil
}

// buildEntry normalizes one parsed line into an Entry, interning its name
// sets into dict.
func buildEntry(dict *NameDictionary, je *entryJSON) (Entry, error) {
	t, err := ParseType(je.Type)
	if err != nil {
		return Entry{}, err
	}

	main := normalizeName(je.Name)
	if main == "" {
		return Entry{}, fmt.Errorf("entry %d has no usable name", je.ID)
	}
	var variants []string
	for _, alt := range je.AltNames {
		v := normalizeName(alt)
		if v == "" || v == main || containsString(variants, v) {
			continue
		}
		variants = append(variants, v)
	}

	entry := Entry{ID: je.ID, Type: t}
	entry.address[t] = dict.Add(MultipleNames{Main: main, Variants: variants})

	for level, raw := range je.Address {
		lt, err := ParseType(level)
		if err != nil {
			return Entry{}, err
		}
		if lt == t {
			// The entity's own slot is already filled from "name".
			continue
		}
		if lt > t {
			return Entry{}, fmt.Errorf("entry %d: address level %q is more specific than the entry's own type %q", je.ID, level, je.Type)
		}
		name := normalizeName(raw)
		if name == "" {
			continue
		}
		entry.address[lt] = dict.Add(MultipleNames{Main: name})
	}

	if je.Lat != nil && je.Lon != nil {
		ll := s2.LatLngFromDegrees(*je.Lat, *je.Lon)
		if ll.IsValid() {
			entry.center = ll
			entry.hasCenter = true
		} else {
			slog.Debug("dropping invalid coordinates", "id", je.ID, "lat", *je.Lat, "lon", *je.Lon)
		}
	}
	return entry, nil
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
