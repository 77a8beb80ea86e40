package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/whisper/internal/ports/primary"
	"github.com/example/whisper/internal/wire"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add <nickname>",
	Short: "Register a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		surname, _ := cmd.Flags().GetString("surname")
		avatar, _ := cmd.Flags().GetString("avatar")
		bio, _ := cmd.Flags().GetString("bio")

		return wire.UserAdapter().Add(NewContext(), primary.CreateUserRequest{
			Nickname:  args[0],
			Name:      name,
			Surname:   surname,
			AvatarURL: avatar,
			Bio:       bio,
		})
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return wire.UserAdapter().List(NewContext(), limit)
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show <userId|@nickname>",
	Short: "Show a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.UserAdapter().Show(NewContext(), args[0])
	},
}

// UserCmd returns the user command with all subcommands attached.
func UserCmd() *cobra.Command {
	userAddCmd.Flags().String("name", "", "First name")
	userAddCmd.Flags().String("surname", "", "Last name")
	userAddCmd.Flags().String("avatar", "", "Avatar URL")
	userAddCmd.Flags().String("bio", "", "Short bio")

	userListCmd.Flags().IntP("limit", "n", 100, "Maximum users to show")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userShowCmd)

	return userCmd
}
