package geocoder

// Result is one geocoding answer: the matched object and its certainty
// relative to the best match of the same query (the top result is always
// 1.0). When the hierarchy knows the object's position, the result also
// carries WGS84 coordinates and a geohash of them.
type Result struct {
	ID        uint64  `json:"id"`
	Certainty float64 `json:"certainty"`

	HasCenter bool    `json:"has_center"`
	Lat       float64 `json:"lat,omitempty"`
	Lon       float64 `json:"lon,omitempty"`
	Geohash   string  `json:"geohash,omitempty"`
}
