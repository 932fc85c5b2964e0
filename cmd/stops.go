package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var stopsCmd = &cobra.Command{
	Use:   "stops <station> <train>",
	Short: "Lists the stops of a train departing from a station",
	Args:  cobra.ExactArgs(2),
	RunE:  stops,
}

func stops(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	route, err := e.Resolver.LoadRoute(cmd.Context(), strings.ToUpper(args[0]), args[1])
	if err != nil {
		return err
	}

	if len(route) == 0 {
		fmt.Printf("No stops found for train %s\n", args[1])
		return nil
	}

	for _, stop := range route {
		if stop.Status == "" {
			fmt.Printf("%s(%s)\n", stop.Name, stop.Code)
		} else {
			fmt.Printf("%s(%s): %s\n", stop.Name, stop.Code, stop.Status)
		}
	}

	return nil
}
