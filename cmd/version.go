package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tidbyt.dev/departures"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("departures")
		fmt.Printf("version %s\n", departures.Version)
	},
}
