package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/whisper/internal/wire"
)

var dmCmd = &cobra.Command{
	Use:   "dm",
	Short: "Send and read private messages",
	Long:  "Send and read private messages on behalf of the user given with --as",
}

var dmSendCmd = &cobra.Command{
	Use:   "send <receiverId> <text...>",
	Short: "Send a message",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := RequireActor()
		if err != nil {
			return err
		}
		return wire.MessageAdapter().Send(NewContext(), actor, args[0], strings.Join(args[1:], " "))
	},
}

var dmThreadCmd = &cobra.Command{
	Use:   "thread <userId>",
	Short: "Show the conversation with a user",
	Long:  "Show one page of the conversation with a user, oldest first. Their messages to you are marked read.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := RequireActor()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		return wire.MessageAdapter().Thread(NewContext(), actor, args[0], limit, offset)
	},
}

var dmInboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "List conversations, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := RequireActor()
		if err != nil {
			return err
		}
		return wire.MessageAdapter().Inbox(NewContext(), actor)
	},
}

var dmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every message sent or received, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := RequireActor()
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		return wire.MessageAdapter().List(NewContext(), actor, limit)
	},
}

var dmShowCmd = &cobra.Command{
	Use:   "show <messageId>",
	Short: "Show a message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := RequireActor()
		if err != nil {
			return err
		}
		return wire.MessageAdapter().Show(NewContext(), args[0], actor)
	},
}

var dmReadCmd = &cobra.Command{
	Use:   "read <messageId>",
	Short: "Mark a message as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := RequireActor()
		if err != nil {
			return err
		}
		return wire.MessageAdapter().MarkRead(NewContext(), args[0], actor)
	},
}

var dmUnreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Count unread messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := RequireActor()
		if err != nil {
			return err
		}
		return wire.MessageAdapter().Unread(NewContext(), actor)
	},
}

var dmDeleteCmd = &cobra.Command{
	Use:   "delete <messageId>",
	Short: "Delete a message you sent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := RequireActor()
		if err != nil {
			return err
		}
		return wire.MessageAdapter().Delete(NewContext(), args[0], actor)
	},
}

// DMCmd returns the dm command with all subcommands attached.
func DMCmd() *cobra.Command {
	dmThreadCmd.Flags().IntP("limit", "n", 0, "Page size (0 = default)")
	dmThreadCmd.Flags().Int("offset", 0, "Messages to skip")

	dmListCmd.Flags().IntP("limit", "n", 50, "Maximum messages to show (0 = all)")

	dmCmd.AddCommand(dmSendCmd)
	dmCmd.AddCommand(dmThreadCmd)
	dmCmd.AddCommand(dmInboxCmd)
	dmCmd.AddCommand(dmListCmd)
	dmCmd.AddCommand(dmShowCmd)
	dmCmd.AddCommand(dmReadCmd)
	dmCmd.AddCommand(dmUnreadCmd)
	dmCmd.AddCommand(dmDeleteCmd)

	return dmCmd
}
