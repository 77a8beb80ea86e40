// Package cli provides CLI commands for the whisper application.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/whisper/internal/config"
	"github.com/example/whisper/internal/ctxutil"
	"github.com/example/whisper/internal/logger"
	"github.com/example/whisper/internal/wire"
)

// globalActorID stores the acting user for the current CLI invocation.
// Set once at startup by Bootstrap from the --as flag.
var globalActorID string

// Bootstrap loads configuration, initializes logging and records the acting
// user. Called once from the root command's PersistentPreRunE.
func Bootstrap(cmd *cobra.Command) error {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return err
	}

	// Logs go to stderr so command output stays scriptable
	logger.InitWithWriter(cfg.Env, os.Stderr)
	wire.Configure(cfg)

	globalActorID, _ = cmd.Flags().GetString("as")
	return nil
}

// GetActorID returns the acting user given with --as.
func GetActorID() string {
	return globalActorID
}

// RequireActor returns the acting user or an error when --as was not given.
func RequireActor() (string, error) {
	if globalActorID == "" {
		return "", fmt.Errorf("this command acts on behalf of a user: pass --as <userId>")
	}
	return globalActorID, nil
}

// NewContext creates a context.Background() with the acting user embedded.
// CLI commands should use this instead of context.Background() directly.
func NewContext() context.Context {
	ctx := context.Background()
	if globalActorID != "" {
		return ctxutil.WithActorID(ctx, globalActorID)
	}
	return ctx
}

// AddGlobalFlags registers the flags Bootstrap reads.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().String("dir", "", "Directory holding .whisper/config.json (default: current directory)")
	root.PersistentFlags().String("as", "", "Act as this user id")
}
