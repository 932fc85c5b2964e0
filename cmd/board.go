package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board <station>",
	Short: "Lists every departure on a station's board",
	Args:  cobra.ExactArgs(1),
	RunE:  board,
}

func board(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	station, err := e.Resolver.LoadStation(cmd.Context(), strings.ToUpper(args[0]))
	if err != nil {
		return err
	}

	fmt.Printf("=== %s(%s) === [%d]\n", station.Name, station.Code, station.Departures.Len())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEP\tTRAIN\tSC\tTO\tTRK\tLINE\tSTATUS")
	for _, d := range station.Departures.All() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.Time, d.Train, d.DestinationCode, d.Destination, d.Track, d.Line, d.Status)
	}

	return w.Flush()
}
