package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/whisper/internal/cli"
	"github.com/example/whisper/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "whisper",
		Short:   "whisper - private messaging between users",
		Version: version.String(),
		Long: `whisper stores private messages between users and serves them over a
REST API. The dm commands act on behalf of the user given with --as.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.Bootstrap(cmd)
		},
	}
	cli.AddGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.UserCmd())
	rootCmd.AddCommand(cli.DMCmd())
	rootCmd.AddCommand(cli.TokenCmd())
	rootCmd.AddCommand(cli.LogCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
