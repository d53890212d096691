package main

import (
	"net"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rdbwalk/rdbwalk/rdb"
	"github.com/rdbwalk/rdbwalk/replicate"
)

var replicateCmd = &cobra.Command{
	Use:   "replicate <rdb-file> <host:port>",
	Short: "Forward a snapshot's contents as live RESP commands",
	Args:  cobra.ExactArgs(2),
	RunE:  runReplicate,
}

func init() {
	rootCmd.AddCommand(replicateCmd)
}

func runReplicate(cmd *cobra.Command, args []string) error {
	rdbPath, addr := args[0], args[1]

	f, err := os.Open(rdbPath)
	if err != nil {
		return errors.Wrapf(err, "opening %q", rdbPath)
	}
	defer f.Close()

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "dialing %q", addr)
	}
	defer conn.Close()

	forwarder := replicate.NewForwarder(conn, log)
	stats, err := forwarder.Run(rdb.NewParser(f))
	if err != nil {
		return errors.Wrap(err, "replication failed")
	}

	log.WithField("cmd", "replicate").WithField("commands", stats.Commands).WithField("databases", stats.Databases).Info("replication complete")
	color.Green("forwarded %d command(s) across %d database(s) to %s", stats.Commands, stats.Databases, addr)
	return nil
}
