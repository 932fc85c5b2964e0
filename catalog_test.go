package departures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidbyt.dev/departures/model"
	"tidbyt.dev/departures/stations"
)

func catalogFixture(codes ...string) *Catalog {
	c := NewCatalog(nil)
	for i, code := range codes {
		c.Add(&model.Departure{
			Train:           string(rune('A' + i)),
			DestinationCode: code,
		})
	}
	return c
}

func ranks(c *Catalog) []int {
	r := []int{}
	for _, d := range c.All() {
		r = append(r, d.Rank)
	}
	return r
}

func TestCatalogRank(t *testing.T) {
	c := catalogFixture("NY", "HOB", "NY", "TR", "NY")

	assert.Equal(t, 3, c.Rank("NY"))
	assert.Equal(t, []int{1, 0, 2, 0, 3}, ranks(c))

	ranked := c.Ranked()
	require.Equal(t, 3, len(ranked))
	assert.Equal(t, "A", ranked[0].Train)
	assert.Equal(t, "C", ranked[1].Train)
	assert.Equal(t, "E", ranked[2].Train)

	// Re-ranking resets departures that no longer match.
	assert.Equal(t, 1, c.Rank("HOB"))
	assert.Equal(t, []int{0, 1, 0, 0, 0}, ranks(c))

	assert.Equal(t, 0, c.Rank("XX"))
	assert.Equal(t, []int{0, 0, 0, 0, 0}, ranks(c))
	assert.Equal(t, 0, len(c.Ranked()))
}

func TestCatalogDestinations(t *testing.T) {
	assert.Equal(t, []string{}, catalogFixture().Destinations())
	assert.Equal(t, []string{"NY"}, catalogFixture("NY", "NY").Destinations())
	assert.Equal(
		t,
		[]string{"HOB", "NY", "TR"},
		catalogFixture("TR", "NY", "HOB", "NY").Destinations(),
	)
}

func TestCatalogByTrain(t *testing.T) {
	c := NewCatalog([]*model.Departure{
		{Train: "3801", DestinationCode: "NY"},
		{Train: "6601", DestinationCode: "HOB"},
		{Train: "3801", DestinationCode: "NY", Status: "in 5 Min"},
	})

	assert.Equal(t, 2, len(c.ByTrain("3801")))
	assert.Equal(t, 1, len(c.ByTrain("6601")))
	assert.Equal(t, 0, len(c.ByTrain("1234")))
	assert.Equal(t, 3, c.Len())
}

func TestChooseDestination(t *testing.T) {
	directory, err := stations.New([]stations.Station{
		{Name: "New York Penn Station", Code: "NY"},
		{Name: "Hoboken", Code: "HOB"},
		{Name: "Trenton", Code: "TR"},
	})
	require.NoError(t, err)

	// Known destination is used even when nothing heads there.
	dest, err := ChooseDestination(catalogFixture("NY", "HOB"), directory, "TR")
	require.NoError(t, err)
	assert.Equal(t, "TR", dest)

	// Single destination is inferred.
	dest, err = ChooseDestination(catalogFixture("NY", "NY"), directory, "")
	require.NoError(t, err)
	assert.Equal(t, "NY", dest)

	// Unknown destination is treated as none given.
	dest, err = ChooseDestination(catalogFixture("NY"), directory, "XX")
	require.NoError(t, err)
	assert.Equal(t, "NY", dest)

	// Empty board.
	_, err = ChooseDestination(catalogFixture(), directory, "")
	assert.ErrorIs(t, err, ErrNoUpcomingTrains)

	// Several destinations.
	_, err = ChooseDestination(catalogFixture("NY", "HOB", "NY"), directory, "")
	var disambiguation *DisambiguationError
	require.ErrorAs(t, err, &disambiguation)
	assert.Equal(t, []stations.Station{
		{Name: "Hoboken", Code: "HOB"},
		{Name: "New York Penn Station", Code: "NY"},
	}, disambiguation.Candidates)
	assert.Equal(t, "multiple destinations found: HOB, NY", err.Error())
}
