package parse

import (
	"strings"

	"github.com/pkg/errors"

	"tidbyt.dev/departures/model"
)

const (
	// Rows whose first cell starts with this are table headers.
	headerMarker = "DEP"

	// Section dividers span several columns.
	colspanMarker = "<td colspan="

	// Trailing marker on destinations reached via the secondary
	// platform. The cell scanner cuts the markup that follows it.
	secondaryMarker = "&nbsp;-"
	secondaryLabel  = " (SEC)"

	singleTrack = "Single"
)

// Names of departure board columns, in document order.
const (
	FieldTime        = "time"
	FieldDestination = "destination"
	FieldTrack       = "track"
	FieldLine        = "line"
	FieldTrain       = "train"
	FieldStatus      = "status"
)

var departureColumns = []struct {
	name     string
	optional bool
}{
	{FieldTime, false},
	{FieldDestination, false},
	{FieldTrack, false},
	{FieldLine, false},
	{FieldTrain, false},
	{FieldStatus, true},
}

// A labelled table cell.
type Field struct {
	Name  string
	Value string
}

// Decodes every row of a station's departure board, in document
// order. Header and divider rows are skipped.
func (p *Parser) Departures(doc []byte) ([]*model.Departure, error) {
	rows := NewRowScanner(string(doc))
	departures := []*model.Departure{}

	for i := 1; ; i++ {
		row, err := rows.NextRaw()
		if errors.Is(err, ErrNotFound) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "scanning row %d", i)
		}

		p.Logger.Debugw("tr", "row", i, "text", row)

		departure, err := p.Departure(row)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding row %d", i)
		}
		if departure == nil {
			continue
		}

		departures = append(departures, departure)
	}

	return departures, nil
}

// Decodes a single departure board row. The row is the text between
// <tr> and </tr>. Returns nil without error for rows that don't hold
// a departure.
func (p *Parser) Departure(row string) (*model.Departure, error) {
	fields, err := DepartureFields(row)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, nil
	}

	departure := &model.Departure{}
	for _, f := range fields {
		switch f.Name {
		case FieldTime:
			departure.Time = f.Value
		case FieldDestination:
			departure.Destination = normalizeDestination(f.Value)
		case FieldTrack:
			departure.Track = normalizeTrack(f.Value)
		case FieldLine:
			departure.Line = f.Value
		case FieldTrain:
			departure.Train = f.Value
		case FieldStatus:
			departure.Status = f.Value
		}
	}

	code, found := p.Stations.Code(departure.Destination)
	if !found {
		return nil, errors.Wrapf(ErrUnknownStation, "destination %q", departure.Destination)
	}
	departure.DestinationCode = code

	return departure, nil
}

// Splits a departure board row into labelled cells. Header rows and
// rows with spanning cells yield nil. The status column is the only
// one allowed to be absent.
func DepartureFields(row string) ([]Field, error) {
	if strings.Contains(row, colspanMarker) {
		return nil, nil
	}

	cells := NewCellScanner(row)
	fields := make([]Field, 0, len(departureColumns))

	for _, col := range departureColumns {
		value, err := cells.Next()
		if errors.Is(err, ErrNotFound) {
			if col.optional {
				break
			}
			return nil, errors.Wrapf(ErrMalformed, "row has no %s cell", col.name)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s cell", col.name)
		}

		if col.name == FieldTime && strings.HasPrefix(value, headerMarker) {
			return nil, nil
		}

		fields = append(fields, Field{Name: col.name, Value: value})
	}

	return fields, nil
}

func normalizeDestination(destination string) string {
	if i := strings.Index(destination, secondaryMarker); i >= 0 {
		return destination[:i] + secondaryLabel
	}
	return destination
}

func normalizeTrack(track string) string {
	if track == singleTrack {
		return "1"
	}
	return track
}
