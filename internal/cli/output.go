package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/frankint/battleship-cli/internal/game"
	"github.com/frankint/battleship-cli/internal/model"
)

// WhoamiResult is the printable result of the whoami command
type WhoamiResult struct {
	Identity string `json:"identity"`
	Guest    bool   `json:"guest"`
}

// Output renders command results as human-readable text or as JSON
type Output struct {
	json bool
}

// NewOutput creates an output for the given format ("text" or "json")
func NewOutput(format string) *Output {
	return &Output{json: format == "json"}
}

// Print renders an arbitrary result value
func (o *Output) Print(v any) {
	if o.json {
		o.printJSON(v)
		return
	}
	fmt.Printf("%+v\n", v)
}

// PrintMessage prints a status line. Suppressed in JSON mode so output
// stays machine-parseable.
func (o *Output) PrintMessage(message string) {
	if o.json {
		return
	}
	fmt.Println(message)
}

// PrintError prints an error without terminating the command loop
func (o *Output) PrintError(err error) {
	if o.json {
		o.printJSON(map[string]string{"error": err.Error()})
		return
	}
	fmt.Fprintln(os.Stderr, "error:", err)
}

// PrintFriends prints the friend list
func (o *Output) PrintFriends(friends []string) {
	if o.json {
		o.printJSON(friends)
		return
	}
	if len(friends) == 0 {
		fmt.Println("No friends yet.")
		return
	}
	for _, f := range friends {
		fmt.Println(f)
	}
}

// PrintMatchList prints the match history as a table
func (o *Output) PrintMatchList(matches []model.MatchSnapshot, identity model.PlayerID) {
	if o.json {
		o.printJSON(matches)
		return
	}
	if len(matches) == 0 {
		fmt.Println("No matches. Create one with 'battleship games create'.")
		return
	}
	fmt.Printf("%-38s %-22s %-16s %s\n", "MATCH", "STATE", "OPPONENT", "RESULT")
	for i := range matches {
		m := &matches[i]
		opponent := "-"
		if m.Opponent != nil && m.Opponent.PlayerID != "" {
			opponent = string(m.Opponent.PlayerID)
		}
		result := ""
		if m.Phase == model.PhaseFinished {
			if m.WinnerID == identity {
				result = "won"
			} else {
				result = "lost"
			}
		} else if m.CurrentTurnPlayerID == identity {
			result = "your turn"
		}
		fmt.Printf("%-38s %-22s %-16s %s\n", m.MatchID, m.Phase, opponent, result)
	}
}

// PrintPreview prints a placement preview's cells and legality
func (o *Output) PrintPreview(preview game.PlacementPreview) {
	if o.json {
		o.printJSON(preview)
		return
	}
	cells := make([]string, len(preview.Cells))
	for i, c := range preview.Cells {
		cells[i] = c.String()
	}
	verdict := "legal"
	if !preview.Legal {
		verdict = "ILLEGAL"
	}
	fmt.Printf("%s: %s\n", verdict, strings.Join(cells, " "))
}

// PrintSnapshot draws both boards side by side with a status line.
//
// Own board: '#' ship, 'X' hit, 'o' miss, '+' legal overlay, '!' illegal
// overlay. Opponent board: '*' sunk, 'X' hit, 'o' miss, '#' ship revealed
// after the match ends.
func (o *Output) PrintSnapshot(snap *model.MatchSnapshot, identity model.PlayerID, overlay *game.Overlay) {
	if snap == nil {
		o.PrintMessage("No match state yet.")
		return
	}
	if o.json {
		o.printJSON(snap)
		return
	}

	fmt.Printf("Match %s  [%s]%s\n", snap.MatchID, snap.Phase, statusSuffix(snap, identity))

	header := "   " + columnHeader()
	fmt.Printf("%-26s    %s\n", "You", "Opponent")
	fmt.Printf("%s    %s\n", header, header)
	for y := 0; y < model.BoardSize; y++ {
		own := make([]byte, 0, model.BoardSize*2)
		theirs := make([]byte, 0, model.BoardSize*2)
		for x := 0; x < model.BoardSize; x++ {
			own = append(own, renderCell(game.DeriveCellState(snap, overlay, x, y, false), false), ' ')
			theirs = append(theirs, renderCell(game.DeriveCellState(snap, nil, x, y, true), true), ' ')
		}
		fmt.Printf("%2d %s    %2d %s\n", y, own, y, theirs)
	}
}

func statusSuffix(snap *model.MatchSnapshot, identity model.PlayerID) string {
	switch snap.Phase {
	case model.PhaseFinished:
		if snap.WinnerID == identity {
			return "  you won"
		}
		return "  you lost"
	case model.PhaseActive:
		if snap.CurrentTurnPlayerID == identity {
			return "  your turn"
		}
		return "  opponent's turn"
	default:
		return ""
	}
}

func columnHeader() string {
	var b strings.Builder
	for x := 0; x < model.BoardSize; x++ {
		fmt.Fprintf(&b, "%d ", x)
	}
	return strings.TrimRight(b.String(), " ")
}

func renderCell(view game.CellView, opponentBoard bool) byte {
	if view.Preview {
		if view.PreviewLegal {
			return '+'
		}
		return '!'
	}
	if opponentBoard {
		switch {
		case view.Sunk:
			return '*'
		case view.Hit:
			return 'X'
		case view.Revealed:
			return '#'
		case view.Miss:
			return 'o'
		}
		return '.'
	}
	switch {
	case view.Hit:
		return 'X'
	case view.Ship:
		return '#'
	case view.Miss:
		return 'o'
	}
	return '.'
}

func (o *Output) printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
}
