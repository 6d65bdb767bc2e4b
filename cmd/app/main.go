package main

import (
	"context"

	"pickupoint/cmd"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs once the config is loaded.
type app struct {
	cfg cmd.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "pickupoint",
		Short:         "Parcel lifecycle and courier dispatch engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := cmd.LoadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	root.AddCommand(serveCommand(a))
	root.AddCommand(workerCommand(a))
	root.AddCommand(migrateCommand(a))
	return root
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("pickupoint: %v", err)
	}
}
