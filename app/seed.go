package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fabricstock/fabricstock/internal/daemon"
	"github.com/fabricstock/fabricstock/internal/db"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(seedAdminCmd)
}

var seedAdminCmd = &cobra.Command{
	Use:     "seed-admin",
	Short:   "Create the configured Admin account if no Admin exists",
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		gdb, err := db.Open(&cfg)
		if err != nil {
			return err
		}

		created, err := daemon.SeedAdmin(&cfg, gdb)
		if err != nil {
			return err
		}

		if created {
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created admin account %s\n", cfg.Admin.MobileNumber)
		} else {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "an admin account already exists")
		}

		return err
	},
}
