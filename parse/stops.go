package parse

import (
	"strings"

	"github.com/pkg/errors"

	"tidbyt.dev/departures/model"
)

// Separates station name from status in train stop documents.
const stopStatusMarker = "&nbsp;&nbsp;"

// Decodes a train's stop list into a route, earliest stop first.
//
// Rows without a paragraph are ignored. Stops naming a station
// missing from the directory are skipped, leaving the rest of the
// route intact.
func (p *Parser) Route(doc []byte) (model.Route, error) {
	rows := NewRowScanner(string(doc))
	route := model.Route{}

	for i := 1; ; i++ {
		row, err := rows.NextRaw()
		if errors.Is(err, ErrNotFound) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "scanning row %d", i)
		}

		name, status, found, err := StopFields(row)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding row %d", i)
		}
		if !found {
			continue
		}

		code, known := p.Stations.Code(name)
		if !known {
			p.Logger.Debugw("skipping stop at unknown station", "row", i, "name", name)
			continue
		}

		p.Logger.Debugw("stop", "name", name, "code", code, "status", status)

		route = append(route, model.Stop{
			Name:   name,
			Code:   code,
			Status: status,
		})
	}

	return route, nil
}

// Extracts station name and status from a stop list row. found is
// false if the row holds no paragraph.
func StopFields(row string) (name string, status string, found bool, err error) {
	text, err := NewParagraphScanner(row).NextRaw()
	if errors.Is(err, ErrNotFound) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}

	name, status, _ = strings.Cut(text, stopStatusMarker)

	return strings.TrimSpace(name), strings.TrimSpace(status), true, nil
}
