package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tidbyt.dev/departures/notify"
)

var nextCmd = &cobra.Command{
	Use:   "next <from>",
	Short: "Shows the next trains and their status at previous stops",
	Args:  cobra.ExactArgs(1),
	RunE:  next,
}

var (
	to   string
	mail bool
)

func init() {
	nextCmd.Flags().StringVarP(&to, "to", "t", "", "Destination station code")
	nextCmd.Flags().BoolVarP(&mail, "mail", "m", false, "Also send the report by email")
}

func next(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	from := strings.ToUpper(args[0])

	report, err := e.Resolver.Upcoming(cmd.Context(), from, strings.ToUpper(to))
	if err != nil {
		return err
	}

	text := report.Text()
	fmt.Print(text)

	if !mail {
		return nil
	}

	msg, err := notify.NewMessage(e.Config.Mail, text)
	if err != nil {
		return err
	}

	return notify.NewSMTPMailer(e.Config.Mail, e.Logger).Send(cmd.Context(), msg)
}
