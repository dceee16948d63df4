package main

import (
	"fmt"
	"matchos/internal/privacy"

	"github.com/spf13/cobra"
)

func newAliasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alias <id>...",
		Short: "Print the public alias of user ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, privacy.Alias(id))
			}
			return nil
		},
	}
}
