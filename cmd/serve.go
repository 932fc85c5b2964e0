package main

import (
	"github.com/spf13/cobra"

	"tidbyt.dev/departures/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves departure reports over HTTP",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

var addr string

func init() {
	serveCmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (defaults to server.addr from config)")
}

func serve(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.Close()

	if addr == "" {
		addr = e.Config.Server.Addr
	}

	s := server.New(e.Resolver, e.Stations, e.Logger)

	go func() {
		<-cmd.Context().Done()
		e.Logger.Infow("shutting down")
		if err := s.Shutdown(); err != nil {
			e.Logger.Warnw("shutdown", "error", err)
		}
	}()

	return s.Listen(addr)
}
