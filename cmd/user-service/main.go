package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "matchos-user",
		Short: "MatchOS user service",
		Long: `MatchOS user service - accounts, wallets and privacy-filtered profiles.

Commands:
  matchos-user serve           Run the HTTP service
  matchos-user alias <id>...   Print the public alias of one or more user ids`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAliasCmd())

	return rootCmd.ExecuteContext(context.Background())
}
