package departures

import (
	"fmt"
	"strings"

	"tidbyt.dev/departures/model"
)

// Appended to every report.
const Credits = "\n" +
	"**********************************\n" +
	"Data provided by NJ TRANSIT, which\n" +
	"is the sole owner of the Data.\n" +
	"**********************************\n"

// Status a previous stop's board shows for a train.
type StopStatus struct {
	Name   string
	Code   string
	Status string
}

type TrainReport struct {
	Departure model.Departure

	// The train's stop list was empty.
	NoRoute bool

	// Most recent stop first.
	Statuses []StopStatus
}

// Report on the next trains between two stations.
type Report struct {
	From     string
	FromName string
	To       string
	ToName   string
	Trains   []TrainReport
}

// Text renders the report for display or mailing, credits included.
func (r *Report) Text() string {
	b := &strings.Builder{}

	fmt.Fprintf(b, "\nTrains from %s to %s:\n\n", r.FromName, r.ToName)

	for _, train := range r.Trains {
		d := train.Departure

		fmt.Fprintf(b, "%s #%s, Track %s", d.Time, d.Train, d.Track)
		if d.Status != "" {
			fmt.Fprintf(b, " %s", d.Status)
		}
		b.WriteString(".")

		switch {
		case train.NoRoute:
			fmt.Fprintf(b, " No route found for train %s from %s to %s.\n", d.Train, r.From, r.To)
		case len(train.Statuses) == 0:
			b.WriteString(" No previous stops status.\n")
		default:
			b.WriteString(" Previous stops status:\n\n")
			for _, s := range train.Statuses {
				fmt.Fprintf(b, "    %s(%s): %s\n", s.Name, s.Code, s.Status)
			}
		}

		b.WriteString("\n")
	}

	b.WriteString(Credits)

	return b.String()
}
