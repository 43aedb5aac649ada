// Command ledgercored runs the event-sourced core banking ledger: it wires
// the postgres event store, the amqp event bus, the external providers and
// the services, and exposes prometheus metrics.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:          "ledgercored",
		Short:        "event-sourced core banking ledger",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")

	root.AddCommand(newMigrateCommand(), newServeCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
