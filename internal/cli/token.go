package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/whisper/internal/wire"
)

// TokenCmd returns the token command
func TokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API tokens",
	}

	issueCmd := &cobra.Command{
		Use:   "issue <userId>",
		Short: "Issue a bearer token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()
			if err := cfg.ValidateForServe(); err != nil {
				return err
			}

			// Refuse tokens for users that do not exist
			user, err := wire.UserService().GetUser(NewContext(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}

			token, err := wire.TokenIssuer().Issue(user.ID)
			if err != nil {
				return err
			}

			fmt.Println(token)
			return nil
		},
	}

	tokenCmd.AddCommand(issueCmd)
	return tokenCmd
}
