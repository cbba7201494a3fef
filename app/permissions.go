package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fabricstock/fabricstock/internal/auth"
)

func init() { //nolint: gochecknoinits
	permissionsCmd.Flags().StringVar(&permissionsRole, "role", "", "only list the defaults of this role")

	rootCmd.AddCommand(permissionsCmd)
}

var (
	permissionsRole string

	permissionsCmd = &cobra.Command{
		Use:   "permissions",
		Short: "List the capability catalog or the defaults of a role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printPermissions(cmd.OutOrStdout(), permissionsRole)
		},
	}
)

func printPermissions(w io.Writer, role string) error {
	if role != "" {
		r, err := auth.ParseRole(role)
		if err != nil {
			return err
		}

		for _, c := range auth.DefaultCapabilities(r) {
			if _, err = fmt.Fprintln(w, c); err != nil {
				return err
			}
		}

		return nil
	}

	for _, g := range auth.Groups() {
		if _, err := fmt.Fprintf(w, "%s\n", g); err != nil {
			return err
		}

		for _, c := range auth.Group(g) {
			if _, err := fmt.Fprintf(w, "  %s\n", c); err != nil {
				return err
			}
		}
	}

	return nil
}
