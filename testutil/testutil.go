package testutil

// Helpers and configuration for tests.

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"tidbyt.dev/departures/config"
	"tidbyt.dev/departures/downloader"
	"tidbyt.dev/departures/stations"
)

const (
	StationURL = "http://test/station/%s"
	TrainURL   = "http://test/train/%s/%s"
)

// Stations known to tests. Codes deliberately differ from the
// production table.
var TestStations = []stations.Station{
	{Name: "New York Penn Station", Code: "NY"},
	{Name: "Hoboken", Code: "HOB"},
	{Name: "Hoboken (SEC)", Code: "HOB"},
	{Name: "Secaucus Upper Lvl", Code: "SE"},
	{Name: "Newark Penn Station", Code: "NP"},
	{Name: "Newark Airport", Code: "NA"},
	{Name: "Elizabeth", Code: "EZ"},
	{Name: "Metropark", Code: "MP"},
	{Name: "New Brunswick", Code: "NB"},
	{Name: "Princeton Junction", Code: "PJ"},
	{Name: "Trenton", Code: "TR"},
}

func Directory(t testing.TB) *stations.Directory {
	d, err := stations.New(TestStations)
	require.NoError(t, err)
	return d
}

// Config pointing at the fake URLs above.
func Config() *config.Config {
	cfg := config.Default()
	cfg.Source = config.SourceConfig{
		StationURL: StationURL,
		TrainURL:   TrainURL,
	}
	return cfg
}

// A departure board row.
type Row struct {
	Time        string
	Destination string
	Track       string
	Line        string
	Train       string
	Status      string

	// Leave out the status cell entirely.
	NoStatus bool
}

// Builds a departure board document, with a header and a divider
// row preceding the departures.
func Board(rows ...Row) []byte {
	b := &strings.Builder{}
	b.WriteString("<html><body><table>\n")
	b.WriteString(`<tr class="header"><td>DEP</td><td>TO</td><td>TRK</td><td>LINE</td><td>TRAIN</td><td>STATUS</td></tr>` + "\n")
	b.WriteString(`<tr><td colspan="6">Select a train to view station stops</td></tr>` + "\n")
	for _, r := range rows {
		fmt.Fprintf(b, `<tr style="background-color:black">`)
		fmt.Fprintf(b, `<td align="center">%s</td>`, r.Time)
		fmt.Fprintf(b, "<td>\n  %s\n</td>", r.Destination)
		fmt.Fprintf(b, `<td align="center">%s</td>`, r.Track)
		fmt.Fprintf(b, `<td>%s</td>`, r.Line)
		fmt.Fprintf(b, `<td class="train">%s</td>`, r.Train)
		if !r.NoStatus {
			fmt.Fprintf(b, `<td>%s</td>`, r.Status)
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	return []byte(b.String())
}

// A train stop list entry.
type StopRow struct {
	Name   string
	Status string
}

// Builds a train stop list document.
func TrainStops(stops ...StopRow) []byte {
	b := &strings.Builder{}
	b.WriteString("<html><body><table>\n")
	b.WriteString(`<tr><td><b>Stops for train</b></td></tr>` + "\n")
	for _, s := range stops {
		if s.Status == "" {
			fmt.Fprintf(b, `<tr><td><p class="stop">%s</p></td></tr>`+"\n", s.Name)
		} else {
			fmt.Fprintf(b, `<tr><td><p class="stop">%s&nbsp;&nbsp;%s</p></td></tr>`+"\n", s.Name, s.Status)
		}
	}
	b.WriteString("</table></body></html>\n")
	return []byte(b.String())
}

// Serves canned documents by URL and records every request.
type FakeDownloader struct {
	Docs     map[string][]byte
	Requests []string

	mutex sync.Mutex
}

func NewFakeDownloader() *FakeDownloader {
	return &FakeDownloader{
		Docs: map[string][]byte{},
	}
}

func (f *FakeDownloader) AddBoard(code string, rows ...Row) {
	f.Docs[fmt.Sprintf(StationURL, code)] = Board(rows...)
}

func (f *FakeDownloader) AddTrain(code string, train string, stops ...StopRow) {
	f.Docs[fmt.Sprintf(TrainURL, code, train)] = TrainStops(stops...)
}

func (f *FakeDownloader) Get(
	ctx context.Context,
	url string,
	headers map[string]string,
	options downloader.GetOptions,
) ([]byte, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.Requests = append(f.Requests, url)

	doc, found := f.Docs[url]
	if !found {
		return nil, fmt.Errorf("status 404")
	}
	return doc, nil
}

// Number of requests made for the URL.
func (f *FakeDownloader) Count(url string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	n := 0
	for _, r := range f.Requests {
		if r == url {
			n++
		}
	}
	return n
}
