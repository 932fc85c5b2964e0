package departures

import (
	"errors"
	"fmt"
	"strings"

	"tidbyt.dev/departures/parse"
	"tidbyt.dev/departures/stations"
)

var (
	// A station name or code isn't in the station directory.
	ErrLookupFailure = parse.ErrUnknownStation

	// A train's published route doesn't pass through the station
	// it was listed as departing from.
	ErrRouteInconsistency = errors.New("origin station missing from train route")

	// Nothing departs towards the selected destination.
	ErrNoUpcomingTrains = errors.New("no upcoming trains")
)

// Returned when no destination was given (or an unknown one) and
// the origin has departures towards several. The caller should ask
// the user to pick one of Candidates.
type DisambiguationError struct {
	Candidates []stations.Station
}

func (e *DisambiguationError) Error() string {
	codes := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		codes[i] = c.Code
	}
	return fmt.Sprintf("multiple destinations found: %s", strings.Join(codes, ", "))
}
