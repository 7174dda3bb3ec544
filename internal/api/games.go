package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/frankint/battleship-cli/internal/model"
)

// PlaceShipRequest is the body for the ship placement endpoint
type PlaceShipRequest struct {
	ShipType    string            `json:"shipType"`
	Start       model.Coordinate  `json:"start"`
	Orientation model.Orientation `json:"orientation"`
}

// ListMatches fetches the player's match history. This doubles as the
// read-only probe used to validate a credential.
func (c *Client) ListMatches(ctx context.Context) ([]model.MatchSnapshot, error) {
	var matches []model.MatchSnapshot
	if err := c.Get(ctx, "/api/games", &matches); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

// CreateMatch creates a new match with the caller as the first player
func (c *Client) CreateMatch(ctx context.Context) (*model.MatchSnapshot, error) {
	var snap model.MatchSnapshot
	if err := c.Post(ctx, "/api/games", nil, &snap); err != nil {
		return nil, fmt.Errorf("create match: %w", err)
	}
	return &snap, nil
}

// JoinMatch joins (or re-opens) a match. A 404 maps to
// model.ErrMatchNotFound; any other 4xx means the match is full or already
// finished and maps to model.ErrJoinRejected.
func (c *Client) JoinMatch(ctx context.Context, matchID model.MatchID) (*model.MatchSnapshot, error) {
	var snap model.MatchSnapshot
	err := c.Post(ctx, "/api/games/"+string(matchID)+"/join", nil, &snap)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			if statusErr.Status == http.StatusNotFound {
				return nil, fmt.Errorf("%w: %s", model.ErrMatchNotFound, matchID)
			}
			return nil, fmt.Errorf("%w: %s", model.ErrJoinRejected, statusErr.Body)
		}
		return nil, fmt.Errorf("join match: %w", err)
	}
	return &snap, nil
}

// HideMatch removes a finished match from the player's history view
func (c *Client) HideMatch(ctx context.Context, matchID model.MatchID) error {
	err := c.Post(ctx, "/api/games/"+string(matchID)+"/hide", nil, nil)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound {
			return fmt.Errorf("%w: %s", model.ErrMatchNotFound, matchID)
		}
		return fmt.Errorf("hide match: %w", err)
	}
	return nil
}

// PlaceShip submits a confirmed placement. The server re-validates bounds
// and overlap; local legality is advisory only, so a 4xx here maps to
// model.ErrPlacementRejected rather than being treated as impossible.
func (c *Client) PlaceShip(ctx context.Context, matchID model.MatchID, req PlaceShipRequest) (*model.MatchSnapshot, error) {
	var snap model.MatchSnapshot
	err := c.Post(ctx, "/api/games/"+string(matchID)+"/place", req, &snap)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return nil, fmt.Errorf("%w: %s", model.ErrPlacementRejected, statusErr.Body)
		}
		return nil, fmt.Errorf("place ship: %w", err)
	}
	return &snap, nil
}
