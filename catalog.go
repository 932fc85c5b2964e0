package departures

import (
	"sort"

	"tidbyt.dev/departures/model"
	"tidbyt.dev/departures/stations"
)

// Looks up stations by name and code.
type StationDirectory interface {
	Code(name string) (string, bool)
	Name(code string) (string, bool)
	Valid(code string) bool
}

// A snapshot of one station's departure board.
type Station struct {
	Code       string
	Name       string
	Departures *Catalog
}

// Catalog holds the departures of one board in document order.
type Catalog struct {
	departures []*model.Departure
}

func NewCatalog(departures []*model.Departure) *Catalog {
	c := &Catalog{}
	for _, d := range departures {
		c.Add(d)
	}
	return c
}

func (c *Catalog) Add(d *model.Departure) {
	c.departures = append(c.departures, d)
}

func (c *Catalog) Len() int {
	return len(c.departures)
}

func (c *Catalog) All() []*model.Departure {
	return append([]*model.Departure{}, c.departures...)
}

// Numbers departures heading to the destination 1, 2, 3... in
// document order, and resets all others to 0. Returns the number of
// departures ranked.
func (c *Catalog) Rank(destinationCode string) int {
	n := 0
	for _, d := range c.departures {
		if d.DestinationCode == destinationCode {
			n++
			d.Rank = n
		} else {
			d.Rank = 0
		}
	}
	return n
}

// Departures with a rank, in rank order.
func (c *Catalog) Ranked() []*model.Departure {
	ranked := []*model.Departure{}
	for _, d := range c.departures {
		if d.Rank > 0 {
			ranked = append(ranked, d)
		}
	}
	return ranked
}

// Distinct destination codes, sorted.
func (c *Catalog) Destinations() []string {
	seen := map[string]bool{}
	codes := []string{}
	for _, d := range c.departures {
		if !seen[d.DestinationCode] {
			seen[d.DestinationCode] = true
			codes = append(codes, d.DestinationCode)
		}
	}
	sort.Strings(codes)
	return codes
}

// All departures of the given train.
func (c *Catalog) ByTrain(train string) []*model.Departure {
	matches := []*model.Departure{}
	for _, d := range c.departures {
		if d.Train == train {
			matches = append(matches, d)
		}
	}
	return matches
}

// Picks the destination for a query. A known destination code is
// used as is. Otherwise, if every departure heads to the same place,
// that is the destination. If they head to several, a
// DisambiguationError listing them is returned.
func ChooseDestination(c *Catalog, directory StationDirectory, to string) (string, error) {
	if to != "" && directory.Valid(to) {
		return to, nil
	}

	codes := c.Destinations()
	switch len(codes) {
	case 0:
		return "", ErrNoUpcomingTrains
	case 1:
		return codes[0], nil
	}

	candidates := make([]stations.Station, len(codes))
	for i, code := range codes {
		name, _ := directory.Name(code)
		candidates[i] = stations.Station{Name: name, Code: code}
	}

	return "", &DisambiguationError{Candidates: candidates}
}
