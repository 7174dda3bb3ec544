package cli

import (
	"github.com/spf13/cobra"

	"github.com/frankint/battleship-cli/internal/model"
)

func newFriendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "Manage your friend list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your friends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := requireSession(ctx); err != nil {
				return err
			}
			friends, err := eng.API.Friends(ctx)
			if err != nil {
				return err
			}
			out.PrintFriends(friends)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <username>",
		Short: "Add a friend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := requireSession(ctx); err != nil {
				return err
			}
			if err := eng.API.AddFriend(ctx, args[0]); err != nil {
				return err
			}
			out.PrintMessage("Added " + args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <username>",
		Short: "Remove a friend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := requireSession(ctx); err != nil {
				return err
			}
			if err := eng.API.RemoveFriend(ctx, args[0]); err != nil {
				return err
			}
			out.PrintMessage("Removed " + args[0])
			return nil
		},
	})

	return cmd
}

func newInviteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invite <username>",
		Short: "Challenge another player",
		Long: `Challenge an online player to a match.

The server creates the match and notifies the challenged player; play it
with 'battleship setup <match-id>' once they accept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := requireSession(ctx); err != nil {
				return err
			}
			matchID, err := eng.API.Invite(ctx, args[0])
			if err != nil {
				return err
			}
			out.PrintMessage("Challenge sent, match " + string(matchID))
			return nil
		},
	}
}

func newDeclineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decline <match-id> <challenger>",
		Short: "Decline a challenge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := requireSession(ctx); err != nil {
				return err
			}
			if err := eng.API.DeclineInvite(ctx, model.MatchID(args[0]), args[1]); err != nil {
				return err
			}
			out.PrintMessage("Challenge declined")
			return nil
		},
	}
}
