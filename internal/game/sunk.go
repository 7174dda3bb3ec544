package game

import "github.com/frankint/battleship-cli/internal/model"

// SunkDetector diffs successive opponent snapshots to produce a one-shot
// "ship sunk" signal. The counter is per match: it is reset on match entry
// and emits at most once per observed snapshot no matter how many ships
// went down in that update.
type SunkDetector struct {
	count int
}

// Reset clears the counter for a new match
func (d *SunkDetector) Reset() {
	d.count = 0
}

// Observe records the opponent view of a freshly applied snapshot and
// reports whether the number of sunk ships strictly increased
func (d *SunkDetector) Observe(opponent *model.PlayerView) bool {
	if opponent == nil {
		return false
	}
	n := len(opponent.SunkShips)
	increased := n > d.count
	d.count = n
	return increased
}
