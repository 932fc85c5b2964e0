package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteReversed(t *testing.T) {
	route := Route{
		{Name: "Trenton", Code: "TR"},
		{Name: "Metropark", Code: "MP"},
		{Name: "Newark Penn Station", Code: "NP"},
	}

	reversed := route.Reversed()
	assert.Equal(t, Route{
		{Name: "Newark Penn Station", Code: "NP"},
		{Name: "Metropark", Code: "MP"},
		{Name: "Trenton", Code: "TR"},
	}, reversed)

	// Receiver untouched.
	assert.Equal(t, "TR", route[0].Code)

	assert.Equal(t, route, reversed.Reversed())

	assert.Equal(t, Route{}, Route{}.Reversed())
	assert.Equal(t, Route{{Code: "TR"}}, Route{{Code: "TR"}}.Reversed())
}

func TestRouteIndex(t *testing.T) {
	route := Route{{Code: "TR"}, {Code: "MP"}, {Code: "NP"}, {Code: "MP"}}

	assert.Equal(t, 0, route.Index("TR"))
	assert.Equal(t, 1, route.Index("MP"))
	assert.Equal(t, 2, route.Index("NP"))
	assert.Equal(t, -1, route.Index("NY"))
	assert.Equal(t, -1, Route(nil).Index("NY"))
}
