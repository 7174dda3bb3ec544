package model

import "strings"

// ShipType identifies one ship of the standard fleet
type ShipType struct {
	ID   string
	Size int
}

// Fleet lists every ship type in canonical order, largest first. Placement
// auto-advance walks this order.
var Fleet = []ShipType{
	{ID: "Carrier", Size: 5},
	{ID: "Battleship", Size: 4},
	{ID: "Cruiser", Size: 3},
	{ID: "Submarine", Size: 3},
	{ID: "Destroyer", Size: 2},
}

// ShipTypeByID looks up a fleet ship type by its id, case-insensitively
func ShipTypeByID(id string) (ShipType, bool) {
	for _, t := range Fleet {
		if strings.EqualFold(t.ID, id) {
			return t, true
		}
	}
	return ShipType{}, false
}

// Ship is a placed ship as reported by the server. Coordinates are only
// populated for the owner, or for anyone once the match has finished.
type Ship struct {
	ID          string       `json:"id"`
	Size        int          `json:"size"`
	Sunk        bool         `json:"sunk"`
	Coordinates []Coordinate `json:"coordinates"`
}
