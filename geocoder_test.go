package geocoder

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	check "gopkg.in/check.v1"
)

// Hook up gocheck into the "go test" runner.
func Test(t *testing.T) { check.TestingT(t) }

type GeocoderSuite struct{}

var _ = check.Suite(&GeocoderSuite{})

func (s *GeocoderSuite) mustGeocoder(c *check.C, jsonl string) *Geocoder {
	g, err := NewFromReader(strings.NewReader(jsonl), WithWorkers(2))
	c.Assert(err, check.IsNil)
	c.Assert(g, check.NotNil)
	return g
}

const mainStHierarchy = `
{"id":1,"type":"country","name":"X"}
{"id":2,"type":"street","name":"Main St","address":{"country":"X"},"lat":40.1,"lon":-75.2}
{"id":3,"type":"building","name":"5","address":{"country":"X","street":"Main St"},"lat":40.1001,"lon":-75.2001}
`

func (s *GeocoderSuite) TestFullAddressResolvesToBuilding(c *check.C) {
	g := s.mustGeocoder(c, mainStHierarchy)

	results := g.ProcessQuery("X Main St 5")
	c.Assert(results, check.HasLen, 1)
	c.Assert(results[0].ID, check.Equals, uint64(3))
	c.Assert(results[0].Certainty, check.Equals, 1.0)
	c.Assert(results[0].HasCenter, check.Equals, true)
	c.Assert(results[0].Geohash, check.Not(check.Equals), "")
}

func (s *GeocoderSuite) TestStreetQueryResolvesToStreet(c *check.C) {
	g := s.mustGeocoder(c, mainStHierarchy)

	results := g.ProcessQuery("Main St")
	c.Assert(results, check.HasLen, 1)
	c.Assert(results[0].ID, check.Equals, uint64(2))
	c.Assert(results[0].Certainty, check.Equals, 1.0)
}

func (s *GeocoderSuite) TestUnknownNameYieldsNoResults(c *check.C) {
	g := s.mustGeocoder(c, mainStHierarchy)

	c.Assert(g.ProcessQuery("Atlantis Quay"), check.HasLen, 0)
	c.Assert(g.ProcessQuery(""), check.HasLen, 0)
	c.Assert(g.ProcessQuery("   "), check.HasLen, 0)
}

func (s *GeocoderSuite) TestSameNameUnderDifferentCountries(c *check.C) {
	g := s.mustGeocoder(c, `
{"id":10,"type":"country","name":"Alphaland"}
{"id":11,"type":"street","name":"Main St","address":{"country":"Alphaland"}}
{"id":20,"type":"country","name":"Betaland"}
{"id":21,"type":"street","name":"Main St","address":{"country":"Betaland"}}
`)

	results := g.ProcessQuery("Main St")
	c.Assert(results, check.HasLen, 2)
	ids := map[uint64]bool{results[0].ID: true, results[1].ID: true}
	c.Assert(ids[11], check.Equals, true)
	c.Assert(ids[21], check.Equals, true)
	c.Assert(results[0].Certainty, check.Equals, 1.0)
	c.Assert(results[1].Certainty, check.Equals, 1.0)
}

func (s *GeocoderSuite) TestCountryScopesStreetMatch(c *check.C) {
	g := s.mustGeocoder(c, `
{"id":10,"type":"country","name":"Alphaland"}
{"id":11,"type":"street","name":"Main St","address":{"country":"Alphaland"}}
{"id":20,"type":"country","name":"Betaland"}
{"id":21,"type":"street","name":"Main St","address":{"country":"Betaland"}}
`)

	results := g.ProcessQuery("Betaland Main St")
	c.Assert(len(results) >= 1, check.Equals, true)
	c.Assert(results[0].ID, check.Equals, uint64(21))
	c.Assert(results[0].Certainty, check.Equals, 1.0)
}

func (s *GeocoderSuite) TestStreetSynonymIsConsumed(c *check.C) {
	g := s.mustGeocoder(c, `
{"id":1,"type":"street","name":"Baker"}
{"id":2,"type":"building","name":"5","address":{"street":"Baker"}}
`)

	// Without pulling "street" into the street layer, no candidate covers
	// the house-number token range and the query would come back empty.
	results := g.ProcessQuery("Baker Street 5")
	c.Assert(results, check.HasLen, 1)
	c.Assert(results[0].ID, check.Equals, uint64(2))
	c.Assert(results[0].Certainty, check.Equals, 1.0)
}

func (s *GeocoderSuite) TestBuildingUnderLocality(c *check.C) {
	g := s.mustGeocoder(c, `
{"id":1,"type":"locality","name":"Springfield"}
{"id":2,"type":"building","name":"5","address":{"locality":"Springfield"}}
`)

	results := g.ProcessQuery("Springfield 5")
	c.Assert(results, check.HasLen, 1)
	c.Assert(results[0].ID, check.Equals, uint64(2))
}

func (s *GeocoderSuite) TestHouseNumberFilterDropsPartialMatches(c *check.C) {
	g := s.mustGeocoder(c, mainStHierarchy)

	// "7" looks like a house number but no building carries it: the street
	// itself no longer covers the suspicious token, so nothing survives.
	results := g.ProcessQuery("Main St 7")
	c.Assert(results, check.HasLen, 0)
}

func (s *GeocoderSuite) TestAlternateNamesMatch(c *check.C) {
	g := s.mustGeocoder(c, `
{"id":1,"type":"locality","name":"Saint Petersburg","alt_names":["Sankt-Peterburg","Leningrad"]}
`)

	results := g.ProcessQuery("Leningrad")
	c.Assert(results, check.HasLen, 1)
	c.Assert(results[0].ID, check.Equals, uint64(1))
}

func (s *GeocoderSuite) TestDeterministicAcrossRuns(c *check.C) {
	g := s.mustGeocoder(c, mainStHierarchy+`
{"id":4,"type":"locality","name":"Main","address":{"country":"X"}}
`)

	first := g.ProcessQuery("X Main St 5")
	for i := 0; i < 5; i++ {
		c.Assert(reflect.DeepEqual(g.ProcessQuery("X Main St 5"), first), check.Equals, true)
	}
}

func (s *GeocoderSuite) TestResultCountIsBounded(c *check.C) {
	var sb strings.Builder
	for i := 0; i < MaxResults+20; i++ {
		fmt.Fprintf(&sb, "{\"id\":%d,\"type\":\"country\",\"name\":\"Country%d\"}\n", 1000+i, i)
		fmt.Fprintf(&sb, "{\"id\":%d,\"type\":\"street\",\"name\":\"Long Road\",\"address\":{\"country\":\"Country%d\"}}\n", 2000+i, i)
	}
	g := s.mustGeocoder(c, sb.String())

	results := g.ProcessQuery("Long Road")
	c.Assert(len(results) <= MaxResults, check.Equals, true)
	c.Assert(len(results) > 0, check.Equals, true)
	c.Assert(results[0].Certainty, check.Equals, 1.0)

	seen := make(map[uint64]bool)
	for i, r := range results {
		c.Assert(seen[r.ID], check.Equals, false)
		seen[r.ID] = true
		if i > 0 {
			c.Assert(results[i-1].Certainty >= r.Certainty, check.Equals, true)
		}
		c.Assert(r.Certainty > 0.0, check.Equals, true)
		c.Assert(r.Certainty <= 1.0, check.Equals, true)
	}
}

func (s *GeocoderSuite) TestConcurrentQueries(c *check.C) {
	g := s.mustGeocoder(c, mainStHierarchy)

	want := g.ProcessQuery("X Main St 5")
	done := make(chan []Result, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- g.ProcessQuery("X Main St 5")
		}()
	}
	for i := 0; i < 8; i++ {
		c.Assert(reflect.DeepEqual(<-done, want), check.Equals, true)
	}
}
