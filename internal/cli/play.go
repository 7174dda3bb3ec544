package cli

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/frankint/battleship-cli/internal/model"
	"github.com/frankint/battleship-cli/internal/social"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <match-id>",
		Short: "Play a match live",
		Long: `Join a match and play it over the push channel.

The board redraws whenever the server pushes a new snapshot. Commands:
  fire <x> <y>   Shoot at the opponent's board
  board          Redraw the boards
  accept         Accept the most recent challenge, switching matches
  decline        Decline the most recent challenge
  quit           Return to the lobby`,
		Args: cobra.ExactArgs(1),
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
			defer eng.LeaveMatch()

			out.PrintSnapshot(snap, sess.Identity, nil)

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("play> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				fields := strings.Fields(line)
				if len(fields) == 0 {
					continue
				}

				switch fields[0] {
				case "quit":
					return nil

				case "board":
					out.PrintSnapshot(eng.View.Snapshot(), sess.Identity, nil)

				case "fire":
					if len(fields) != 3 {
						out.PrintMessage("usage: fire <x> <y>")
						continue
					}
					x, errX := strconv.Atoi(fields[1])
					y, errY := strconv.Atoi(fields[2])
					if errX != nil || errY != nil {
						out.PrintMessage("usage: fire <x> <y>")
						continue
					}
					if err := eng.Fire(x, y); err != nil {
						out.PrintError(err)
					}

				case "accept":
					ch, ok := takeChallenge()
					if !ok {
						out.PrintMessage("No pending challenge")
						continue
					}
					next, err := eng.AcceptChallenge(ctx, ch)
					if err != nil {
						out.PrintError(err)
						continue
					}
					out.PrintSnapshot(next, sess.Identity, nil)

				case "decline":
					ch, ok := takeChallenge()
					if !ok {
						out.PrintMessage("No pending challenge")
						continue
					}
					if err := eng.DeclineChallenge(ctx, ch); err != nil {
						out.PrintError(err)
						continue
					}
					out.PrintMessage("Declined challenge from " + ch.Sender)

				default:
					out.PrintMessage("commands: fire <x> <y>, board, accept, decline, quit")
				}
			}
		},
	}
}

// takeChallenge pops the most recent buffered challenge, if any
func takeChallenge() (social.Challenge, bool) {
	var latest social.Challenge
	found := false
	for {
		select {
		case ch := <-pendingChallenges:
			latest = ch
			found = true
		default:
			return latest, found
		}
	}
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <match-id>",
		Short: "Stream a match's state pushes",
		Long: `Subscribe to a match's push topics and print every snapshot as it
arrives. Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
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
			defer eng.LeaveMatch()

			out.PrintSnapshot(snap, sess.Identity, nil)

			// Redraw on every push until interrupted
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-sigCh:
					out.PrintMessage("Disconnected")
					return nil
				case pushed := <-snapshotUpdates:
					out.PrintSnapshot(pushed, sess.Identity, nil)
				}
			}
		},
	}
}
