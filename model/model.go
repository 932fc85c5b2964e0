package model

// Holds all external facing types.

// A train leaving a station, as published on the station's departure
// board.
type Departure struct {
	Time            string `json:"time"`
	Destination     string `json:"destination"`
	DestinationCode string `json:"destination_code"`
	Line            string `json:"line"`
	Train           string `json:"train"`
	Track           string `json:"track"`
	Status          string `json:"status,omitempty"`

	// 1-based position among departures heading to the currently
	// selected destination. 0 when not heading there.
	Rank int `json:"rank,omitempty"`
}

// One station on a train's published route.
type Stop struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Status string `json:"status,omitempty"`
}

// Stops of a single train, in the order the upstream document lists
// them (earliest first).
type Route []Stop

// Returns a copy of the route in the opposite order. The receiver is
// left untouched.
func (r Route) Reversed() Route {
	reversed := make(Route, len(r))
	for i, stop := range r {
		reversed[len(r)-1-i] = stop
	}
	return reversed
}

// Position of the first stop with the given station code, or -1.
func (r Route) Index(code string) int {
	for i, stop := range r {
		if stop.Code == code {
			return i
		}
	}
	return -1
}
