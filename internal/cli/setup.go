package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frankint/battleship-cli/internal/model"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup <match-id>",
		Short: "Interactively place your fleet",
		Long: `Enter a match in setup and place ships step by step.

Commands:
  select <ship>         Pick a ship type (Carrier, Battleship, Cruiser,
                        Submarine, Destroyer)
  preview <x> <y> <h|v> Show the cells the selected ship would occupy
  stage <x> <y> <h|v>   Stage a placement for confirmation
  confirm               Submit the staged placement to the server
  cancel                Discard the staged placement
  board                 Draw your board
  quit                  Leave setup

A staged placement must be confirmed or cancelled before selecting or
previewing anything else. The server has the final say on legality.`,
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

			if !snap.InSetup() {
				return model.ErrWrongPhase
			}

			out.PrintSnapshot(snap, sess.Identity, nil)
			out.PrintMessage("Setup mode. Type 'select <ship>' to begin, 'quit' to leave.")

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("setup> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "quit" || line == "done" {
					return nil
				}
				if err := runSetupCommand(cmd, line, sess.Identity); err != nil {
					out.PrintError(err)
				}
			}
		},
	}
}

func runSetupCommand(cmd *cobra.Command, line string, identity model.PlayerID) error {
	fields := strings.Fields(line)
	ctx := cmd.Context()

	switch fields[0] {
	case "select":
		if len(fields) != 2 {
			return fmt.Errorf("usage: select <ship>")
		}
		if err := eng.Placement.SelectShip(fields[1]); err != nil {
			return err
		}
		if sel, ok := eng.Placement.Selected(); ok {
			out.PrintMessage(fmt.Sprintf("Selected %s (size %d)", sel.ID, sel.Size))
		} else {
			out.PrintMessage("Selection unchanged")
		}
		return nil

	case "preview":
		x, y, orientation, err := parsePlacementArgs(fields[1:])
		if err != nil {
			return err
		}
		preview, err := eng.Placement.Preview(x, y, orientation)
		if err != nil {
			return err
		}
		out.PrintPreview(preview)
		return nil

	case "stage":
		x, y, orientation, err := parsePlacementArgs(fields[1:])
		if err != nil {
			return err
		}
		if err := eng.Placement.Stage(x, y, orientation); err != nil {
			return err
		}
		out.PrintMessage("Staged. 'confirm' to submit, 'cancel' to discard.")
		return nil

	case "confirm":
		snap, err := eng.Placement.Confirm(ctx)
		if err != nil {
			return err
		}
		out.PrintSnapshot(snap, identity, eng.Placement.Overlay())
		if next, ok := eng.Placement.Selected(); ok {
			out.PrintMessage(fmt.Sprintf("Next up: %s (size %d)", next.ID, next.Size))
		} else {
			out.PrintMessage("Fleet complete.")
		}
		return nil

	case "cancel":
		if err := eng.Placement.Cancel(); err != nil {
			return err
		}
		out.PrintMessage("Cancelled.")
		return nil

	case "board":
		out.PrintSnapshot(eng.View.Snapshot(), identity, eng.Placement.Overlay())
		return nil

	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func parsePlacementArgs(args []string) (int, int, model.Orientation, error) {
	if len(args) != 3 {
		return 0, 0, "", fmt.Errorf("usage: <x> <y> <h|v>")
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, "", fmt.Errorf("bad x %q", args[0])
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, "", fmt.Errorf("bad y %q", args[1])
	}
	var orientation model.Orientation
	switch strings.ToLower(args[2]) {
	case "h", "horizontal":
		orientation = model.Horizontal
	case "v", "vertical":
		orientation = model.Vertical
	default:
		return 0, 0, "", fmt.Errorf("bad orientation %q (want h or v)", args[2])
	}
	return x, y, orientation, nil
}
