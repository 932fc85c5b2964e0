package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tidbyt.dev/departures/stations"
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "Lists station names, aliases included, and their codes",
	Args:  cobra.NoArgs,
	RunE:  listStations,
}

func listStations(cmd *cobra.Command, args []string) error {
	directory, err := stations.Default()
	if err != nil {
		return err
	}

	for _, st := range directory.All() {
		fmt.Printf("%-40s    %2s\n", st.Name, st.Code)
	}

	return nil
}
