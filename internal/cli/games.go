package cli

import (
	"github.com/spf13/cobra"

	"github.com/frankint/battleship-cli/internal/model"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List, create, join and hide matches",
	}

	cmd.AddCommand(newGamesListCmd())
	cmd.AddCommand(newGamesCreateCmd())
	cmd.AddCommand(newGamesJoinCmd())
	cmd.AddCommand(newGamesHideCmd())

	return cmd
}

func newGamesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your match history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := requireSession(ctx)
			if err != nil {
				return err
			}
			matches, err := eng.API.ListMatches(ctx)
			if err != nil {
				return err
			}
			out.PrintMatchList(matches, sess.Identity)
			return nil
		},
	}
}

func newGamesCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a match and wait for an opponent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := requireSession(ctx)
			if err != nil {
				return err
			}
			snap, err := eng.CreateMatch(ctx)
			if err != nil {
				return err
			}
			out.PrintMessage("Created match " + string(snap.MatchID))
			out.PrintSnapshot(snap, sess.Identity, nil)
			return nil
		},
	}
}

func newGamesJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <match-id>",
		Short: "Join or re-open a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := requireSession(ctx)
			if err != nil {
				return err
			}
			snap, err := eng.EnterMatch(ctx, model.MatchID(args[0]))
			if err != nil {
				return err
			}
			out.PrintSnapshot(snap, sess.Identity, nil)
			return nil
		},
	}
}

func newGamesHideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hide <match-id>",
		Short: "Remove a finished match from your history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := requireSession(ctx); err != nil {
				return err
			}
			if err := eng.API.HideMatch(ctx, model.MatchID(args[0])); err != nil {
				return err
			}
			out.PrintMessage("Match hidden")
			return nil
		},
	}
}
