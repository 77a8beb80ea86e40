package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/whisper/internal/config"
	"github.com/example/whisper/internal/db"
	"github.com/example/whisper/internal/wire"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and database",
		Long: `Write .whisper/config.json in the target directory and create the
database schema. Existing configuration is kept unless --force is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get working directory: %w", err)
				}
				dir = wd
			}
			force, _ := cmd.Flags().GetBool("force")
			seed, _ := cmd.Flags().GetBool("seed")
			secret, _ := cmd.Flags().GetString("jwt-secret")

			cfg := wire.Config()
			if secret != "" {
				cfg.JWTSecret = secret
			}

			path := config.ConfigPath(dir)
			if _, err := os.Stat(path); err == nil && !force {
				fmt.Printf("Config already exists at %s (use --force to overwrite)\n", path)
			} else {
				if err := config.SaveConfig(dir, cfg); err != nil {
					return err
				}
				fmt.Printf("✓ Wrote %s\n", path)
			}

			// Opening the database creates and migrates the schema
			database := wire.Database()
			fmt.Printf("✓ Database ready at %s\n", cfg.DatabasePath)

			if seed {
				n, err := db.SeedDemoUsers(database)
				if err != nil {
					return fmt.Errorf("failed to seed demo users: %w", err)
				}
				fmt.Printf("✓ Seeded %d demo users\n", n)
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  whisper user add <nickname>")
			fmt.Println("  whisper token issue <userId>")
			fmt.Println("  whisper serve")

			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	cmd.Flags().Bool("seed", false, "Create demo users")
	cmd.Flags().String("jwt-secret", "", "Secret used to sign API tokens")

	return cmd
}
