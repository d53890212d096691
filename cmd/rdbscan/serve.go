package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rdbwalk/rdbwalk/inspectapi"
	"github.com/rdbwalk/rdbwalk/migrate"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <bolt-db-path>",
	Short: "Serve a migrated snapshot's contents over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	loader, err := migrate.Open(args[0], log)
	if err != nil {
		return err
	}
	defer loader.Close()

	log.WithField("cmd", "serve").WithField("addr", serveAddr).Info("starting inspectapi server")
	server := inspectapi.NewServer(serveAddr, loader, log)
	return errors.Wrap(server.Start(), "inspectapi server stopped")
}
