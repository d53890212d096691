package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rdbwalk/rdbwalk/migrate"
	"github.com/rdbwalk/rdbwalk/rdb"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <rdb-file> <bolt-db-path>",
	Short: "Replay a snapshot into a local bbolt index",
	Args:  cobra.ExactArgs(2),
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	rdbPath, boltPath := args[0], args[1]

	f, err := os.Open(rdbPath)
	if err != nil {
		return errors.Wrapf(err, "opening %q", rdbPath)
	}
	defer f.Close()

	loader, err := migrate.Open(boltPath, log)
	if err != nil {
		return err
	}
	defer loader.Close()

	stats, err := loader.Run(rdb.NewParser(f))
	if err != nil {
		return errors.Wrap(err, "migration failed")
	}

	log.WithField("cmd", "migrate").WithField("keys", stats.Keys).WithField("databases", stats.Databases).Info("migration complete")
	color.Green("migrated %d keys across %d database(s) into %s", stats.Keys, stats.Databases, boltPath)
	return nil
}
