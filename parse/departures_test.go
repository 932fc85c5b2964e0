package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"tidbyt.dev/departures/model"
)

type lookup map[string]string

func (l lookup) Code(name string) (string, bool) {
	code, found := l[name]
	return code, found
}

var testStations = lookup{
	"New York Penn Station": "NY",
	"Hoboken":               "HOB",
	"Hoboken (SEC)":         "HOB",
	"Newark Penn Station":   "NP",
	"Metropark":             "MP",
	"Trenton":               "TR",
}

func parserFixture(t *testing.T) *Parser {
	return NewParser(testStations, zaptest.NewLogger(t).Sugar())
}

const board = `<html><body>
<table>
<tr class="header"><td>DEP</td><td>TO</td><td>TRK</td><td>LINE</td><td>TRAIN</td><td>STATUS</td></tr>
<tr><td colspan="6">Select a train</td></tr>
<tr style="color:white">
  <td>7:02</td>
  <td>New York Penn Station</td>
  <td>1</td>
  <td>NEC</td>
  <td>3801</td>
  <td>in 3 Min</td>
</tr>
<tr>
  <td>7:10</td>
  <td>Hoboken&nbsp;-<img src="sec.gif"></td>
  <td>Single</td>
  <td>M&amp;E</td>
  <td>6601</td>
  <td></td>
</tr>
<tr><td>7:30</td><td>Trenton</td><td>3</td><td>NEC</td><td>3805</td></tr>
</table>
</body></html>`

func TestDepartures(t *testing.T) {
	departures, err := parserFixture(t).Departures([]byte(board))
	require.NoError(t, err)

	assert.Equal(t, []*model.Departure{
		{
			Time:            "7:02",
			Destination:     "New York Penn Station",
			DestinationCode: "NY",
			Line:            "NEC",
			Train:           "3801",
			Track:           "1",
			Status:          "in 3 Min",
		},
		{
			Time:            "7:10",
			Destination:     "Hoboken (SEC)",
			DestinationCode: "HOB",
			Line:            "M&amp;E",
			Train:           "6601",
			Track:           "1",
		},
		{
			Time:            "7:30",
			Destination:     "Trenton",
			DestinationCode: "TR",
			Line:            "NEC",
			Train:           "3805",
			Track:           "3",
		},
	}, departures)
}

func TestDeparturesIdempotent(t *testing.T) {
	p := parserFixture(t)

	first, err := p.Departures([]byte(board))
	require.NoError(t, err)
	second, err := p.Departures([]byte(board))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDeparturesEmpty(t *testing.T) {
	p := parserFixture(t)

	departures, err := p.Departures([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, []*model.Departure{}, departures)

	departures, err = p.Departures([]byte("<html><p>No departures</p></html>"))
	require.NoError(t, err)
	assert.Equal(t, []*model.Departure{}, departures)
}

func TestDeparturesUnknownDestination(t *testing.T) {
	doc := "<tr><td>7:02</td><td>Atlantis</td><td>1</td><td>NEC</td><td>1</td></tr>"

	_, err := parserFixture(t).Departures([]byte(doc))
	assert.ErrorIs(t, err, ErrUnknownStation)
	assert.Contains(t, err.Error(), "Atlantis")
}

func TestDeparturesMalformed(t *testing.T) {
	p := parserFixture(t)

	// Unclosed row.
	_, err := p.Departures([]byte("<tr><td>7:02</td>"))
	assert.ErrorIs(t, err, ErrMalformed)

	// Missing train cell.
	_, err = p.Departures([]byte("<tr><td>7:02</td><td>Trenton</td><td>1</td><td>NEC</td></tr>"))
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Contains(t, err.Error(), "train")

	// Unclosed cell.
	_, err = p.Departures([]byte("<tr><td>7:02</td><td>Trenton</tr>"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDepartureFields(t *testing.T) {
	for _, tc := range []struct {
		name     string
		row      string
		expected []Field
	}{
		{
			"header",
			"<td>DEP</td><td>TO</td><td>TRK</td><td>LINE</td><td>TRAIN</td><td>STATUS</td>",
			nil,
		},
		{
			"header with suffix",
			"<td> DEPARTS </td><td>TO</td>",
			nil,
		},
		{
			"divider",
			`<td colspan="6">Select a train</td>`,
			nil,
		},
		{
			"no status",
			"<td>7:30</td><td>Trenton</td><td>3</td><td>NEC</td><td>3805</td>",
			[]Field{
				{FieldTime, "7:30"},
				{FieldDestination, "Trenton"},
				{FieldTrack, "3"},
				{FieldLine, "NEC"},
				{FieldTrain, "3805"},
			},
		},
		{
			"status",
			"<td>7:30</td><td>Trenton</td><td>3</td><td>NEC</td><td>3805</td><td>Cancelled</td><td>ignored</td>",
			[]Field{
				{FieldTime, "7:30"},
				{FieldDestination, "Trenton"},
				{FieldTrack, "3"},
				{FieldLine, "NEC"},
				{FieldTrain, "3805"},
				{FieldStatus, "Cancelled"},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			fields, err := DepartureFields(tc.row)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, fields)
		})
	}
}

func TestDepartureSkippedRows(t *testing.T) {
	p := parserFixture(t)

	d, err := p.Departure("<td>DEP</td><td>TO</td>")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = p.Departure(`<td colspan="5">Atlantis</td>`)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestNormalizeDestination(t *testing.T) {
	assert.Equal(t, "Hoboken (SEC)", normalizeDestination("Hoboken&nbsp;-"))
	assert.Equal(t, "New York (SEC)", normalizeDestination("New York&nbsp;-&nbsp;SEC"))
	assert.Equal(t, "Trenton", normalizeDestination("Trenton"))
	assert.Equal(t, "Bay Head", normalizeDestination("Bay Head"))
}

func TestNormalizeTrack(t *testing.T) {
	assert.Equal(t, "1", normalizeTrack("Single"))
	assert.Equal(t, "1", normalizeTrack("1"))
	assert.Equal(t, "13", normalizeTrack("13"))
	assert.Equal(t, "", normalizeTrack(""))
	assert.Equal(t, "single", normalizeTrack("single"))
}
