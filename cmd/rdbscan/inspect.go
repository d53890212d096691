package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/rdbwalk/rdbwalk/protocol"
	"github.com/rdbwalk/rdbwalk/rdb"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <rdb-file>",
	Short: "Walk a snapshot and print a colorized summary of its entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return errors.Wrapf(err, "opening %q", args[0])
	}
	defer f.Close()

	p := rdb.NewParser(f)
	defer p.Close()

	var keys, databases int
	for {
		entry, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "decoding snapshot")
		}

		switch entry.Kind {
		case rdb.EntryDbSelect:
			databases++
			fmt.Println(color.CyanString("SELECT %d", entry.DbIndex))
		case rdb.EntryKeyValue:
			keys++
			fmt.Printf("  %s %s %s\n",
				color.GreenString("%s", entry.Key),
				color.YellowString("%s", protocol.NameOf(entry.Value.Type)),
				summarize(entry.Value))
		case rdb.EntryEof:
			fmt.Println(color.CyanString("EOF"))
		}
	}

	log.WithField("cmd", "inspect").WithField("databases", databases).WithField("keys", keys).Info("inspect complete")
	return nil
}

func summarize(v rdb.Value) string {
	switch v.Kind {
	case rdb.ValueSingle:
		return string(v.Single)
	case rdb.ValueList, rdb.ValuePairs:
		return fmt.Sprintf("(%d items)", len(v.Items))
	case rdb.ValueView:
		count := 0
		for {
			_, ok, err := v.Embedded.Next()
			if err != nil || !ok {
				break
			}
			count++
		}
		return fmt.Sprintf("(%d items, embedded)", count)
	default:
		return ""
	}
}
