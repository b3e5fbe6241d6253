package geocoder

import "fmt"

// Type is the level of a geographic entity in the address hierarchy.
// The order is significant: the search walks levels from Country down to
// Building, and the certainty weight of a token decreases along the same
// order.
type Type int

const (
	TypeCountry Type = iota
	TypeRegion
	TypeSubregion
	TypeLocality
	TypeSuburb
	TypeSublocality
	TypeStreet
	TypeBuilding

	// TypeNone marks an unassigned token. It doubles as the terminal
	// sentinel of the level walk.
	TypeNone
)

// numTypes is the number of real hierarchy levels, excluding TypeNone.
const numTypes = int(TypeNone)

func (t Type) String() string {
	switch t {
	case TypeCountry:
		return "country"
	case TypeRegion:
		return "region"
	case TypeSubregion:
		return "subregion"
	case TypeLocality:
		return "locality"
	case TypeSuburb:
		return "suburb"
	case TypeSublocality:
		return "sublocality"
	case TypeStreet:
		return "street"
	case TypeBuilding:
		return "building"
	case TypeNone:
		return "none"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType maps the level names used in hierarchy files to a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "country":
		return TypeCountry, nil
	case "region":
		return TypeRegion, nil
	case "subregion":
		return TypeSubregion, nil
	case "locality":
		return TypeLocality, nil
	case "suburb":
		return TypeSuburb, nil
	case "sublocality":
		return TypeSublocality, nil
	case "street":
		return TypeStreet, nil
	case "building":
		return TypeBuilding, nil
	}
	return TypeNone, fmt.Errorf("unknown hierarchy type %q", s)
}

// nextType returns the level after t. TypeNone has no successor; asking
// for one is a programmer error.
func nextType(t Type) Type {
	if t == TypeNone {
		panic("nextType called on TypeNone")
	}
	return t + 1
}

// certaintyWeight is the additive score contribution of one query token
// assigned to level t. Broader levels weigh more, so a match that pins
// down the country is worth more than one that only pins down a building.
func certaintyWeight(t Type) float64 {
	switch t {
	case TypeCountry:
		return 10.0
	case TypeRegion:
		return 5.0
	case TypeSubregion:
		return 4.0
	case TypeLocality:
		return 3.0
	case TypeSuburb:
		return 3.0
	case TypeSublocality:
		return 2.0
	case TypeStreet:
		return 1.0
	case TypeBuilding:
		return 0.1
	case TypeNone:
		return 0.0
	}
	panic(fmt.Sprintf("certaintyWeight: unhandled type %d", int(t)))
}
