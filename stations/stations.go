package stations

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/spkg/bom"
)

//go:embed stations.csv
var stationsCSV []byte

// A named station.
type Station struct {
	Name string `csv:"station_name" json:"name"`
	Code string `csv:"station_code" json:"code"`
}

// Directory maps station names to station codes and back.
//
// Several names may share a code (e.g. platform specific labels on
// departure boards). The first name listed for a code is its
// display name.
type Directory struct {
	records  []Station
	stations []Station
	byName   map[string]string
	byCode   map[string]string
}

// Returns the directory of all stations served.
func Default() (*Directory, error) {
	return Load(bytes.NewReader(stationsCSV))
}

// Reads a directory from CSV with station_name and station_code
// columns.
func Load(r io.Reader) (*Directory, error) {
	records := []Station{}
	reader := gocsv.LazyCSVReader(bom.NewReader(r))
	if err := gocsv.UnmarshalCSV(reader, &records); err != nil {
		return nil, fmt.Errorf("unmarshaling stations csv: %w", err)
	}

	return New(records)
}

func New(records []Station) (*Directory, error) {
	d := &Directory{
		byName: map[string]string{},
		byCode: map[string]string{},
	}

	for i, st := range records {
		if st.Name == "" || st.Code == "" {
			return nil, fmt.Errorf("station %d: empty name or code", i+1)
		}
		if code, found := d.byName[st.Name]; found {
			return nil, fmt.Errorf("station %q listed twice (%s, %s)", st.Name, code, st.Code)
		}
		d.byName[st.Name] = st.Code
		d.records = append(d.records, st)

		if _, found := d.byCode[st.Code]; !found {
			d.byCode[st.Code] = st.Name
			d.stations = append(d.stations, st)
		}
	}

	sort.Slice(d.stations, func(i, j int) bool {
		return d.stations[i].Name < d.stations[j].Name
	})

	return d, nil
}

// Code of the station with exactly this name.
func (d *Directory) Code(name string) (string, bool) {
	code, found := d.byName[name]
	return code, found
}

// Display name of the station with this code.
func (d *Directory) Name(code string) (string, bool) {
	name, found := d.byCode[code]
	return name, found
}

func (d *Directory) Valid(code string) bool {
	_, found := d.byCode[code]
	return found
}

// All stations, one per code, ordered by name.
func (d *Directory) List() []Station {
	stations := make([]Station, len(d.stations))
	copy(stations, d.stations)
	return stations
}

// Every name, aliases included, in the order they were loaded.
func (d *Directory) All() []Station {
	records := make([]Station, len(d.records))
	copy(records, d.records)
	return records
}
