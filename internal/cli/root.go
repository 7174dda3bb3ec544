package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/frankint/battleship-cli/internal/engine"
	"github.com/frankint/battleship-cli/internal/model"
	"github.com/frankint/battleship-cli/internal/session"
	"github.com/frankint/battleship-cli/internal/social"
)

var (
	cfg *Config
	eng *engine.Engine
	out *Output

	// pendingChallenges buffers challenges received while a command runs,
	// so interactive loops can offer accept/decline
	pendingChallenges chan social.Challenge

	// snapshotUpdates carries applied snapshots to live views like watch
	snapshotUpdates chan *model.MatchSnapshot
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var flagServer, flagWS, flagOutput string
	var flagVerbose bool

	rootCmd := &cobra.Command{
		Use:   "battleship",
		Short: "CLI client for the battleship server",
		Long: `battleship is a terminal client for the networked battleship game.

It covers the full player flow: register or play as a guest, create and
join matches, place your fleet, fire shots live over the push channel,
and challenge friends.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = LoadConfig()
			if err != nil {
				return err
			}

			if flagServer != "" {
				cfg.ServerURL = flagServer
			}
			if flagWS != "" {
				cfg.WebSocketURL = flagWS
			}
			if flagOutput != "" {
				cfg.Output = flagOutput
			}
			if flagVerbose {
				cfg.Verbose = true
			}

			out = NewOutput(cfg.Output)
			pendingChallenges = make(chan social.Challenge, 8)
			snapshotUpdates = make(chan *model.MatchSnapshot, 16)

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))

			eng = engine.New(engine.Config{
				ServerURL:       cfg.ServerURL,
				WebSocketURL:    cfg.WebSocketURL,
				CredentialsPath: cfg.CredentialsPath,
				Logger:          logger,
				Events:          uiEvents(),
			})
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "", "Server URL (env: BATTLESHIP_SERVER_URL)")
	rootCmd.PersistentFlags().StringVar(&flagWS, "ws", "", "WebSocket URL (env: BATTLESHIP_WEBSOCKET_URL)")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "", "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newGuestCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newGamesCmd())
	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newFriendsCmd())
	rootCmd.AddCommand(newInviteCmd())
	rootCmd.AddCommand(newDeclineCmd())

	return rootCmd
}

// uiEvents routes engine signals to the terminal
func uiEvents() engine.UIEvents {
	return engine.UIEvents{
		MatchEnded: func(won bool) {
			if won {
				out.PrintMessage("VICTORY! All enemy ships destroyed.")
			} else {
				out.PrintMessage("DEFEAT. Your fleet has been sunk.")
			}
		},
		OpponentShipSunk: func() {
			out.PrintMessage("You sunk an enemy ship!")
		},
		MatchError: func(message string) {
			out.PrintMessage("Server: " + message)
		},
		Challenge: func(ch social.Challenge) {
			out.PrintMessage(fmt.Sprintf("%s (accept with: battleship play %s)", ch.Message, ch.MatchID))
			select {
			case pendingChallenges <- ch:
			default:
			}
		},
		Declined: func(message string, returnedToLobby bool) {
			out.PrintMessage(message)
			if returnedToLobby {
				out.PrintMessage("Returning to lobby.")
			}
		},
		SessionExpired: func() {
			out.PrintMessage("Session expired, please log in again.")
		},
		SnapshotApplied: func(snap *model.MatchSnapshot) {
			select {
			case snapshotUpdates <- snap:
			default:
			}
		},
	}
}

// requireSession restores a persisted session or fails with a hint
func requireSession(ctx context.Context) (*session.Session, error) {
	sess, err := eng.Restore(ctx)
	if err != nil {
		return nil, fmt.Errorf("not logged in (run 'battleship login' or 'battleship guest'): %w", err)
	}
	return sess, nil
}
