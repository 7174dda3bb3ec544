package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/frankint/battleship-cli/internal/model"
)

// Friends returns the player's friend list
func (c *Client) Friends(ctx context.Context) ([]string, error) {
	var friends []string
	if err := c.Get(ctx, "/api/social/friends", &friends); err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return friends, nil
}

// AddFriend adds a username to the friend list
func (c *Client) AddFriend(ctx context.Context, username string) error {
	body := map[string]string{"username": username}
	if err := c.Post(ctx, "/api/social/friends", body, nil); err != nil {
		return fmt.Errorf("add friend: %w", err)
	}
	return nil
}

// RemoveFriend removes a username from the friend list
func (c *Client) RemoveFriend(ctx context.Context, username string) error {
	if err := c.Delete(ctx, "/api/social/friends/"+username); err != nil {
		return fmt.Errorf("remove friend: %w", err)
	}
	return nil
}

// Invite challenges another player. On success the response body is the id
// of the match the server created for the challenge; on 4xx the body is a
// human-readable reason (typically "not online") surfaced verbatim.
func (c *Client) Invite(ctx context.Context, username string) (model.MatchID, error) {
	body := map[string]string{"username": username}
	raw, err := c.DoRaw(ctx, http.MethodPost, "/api/social/invite", body)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return "", fmt.Errorf("%w: %s", model.ErrInviteRejected, statusErr.Body)
		}
		return "", fmt.Errorf("invite: %w", err)
	}
	return model.MatchID(strings.TrimSpace(string(raw))), nil
}

// DeclineInvite declines a challenge. The server notifies the challenger
// and deletes the pending match.
func (c *Client) DeclineInvite(ctx context.Context, matchID model.MatchID, challenger string) error {
	body := map[string]string{
		"gameId":     string(matchID),
		"challenger": challenger,
	}
	if err := c.Post(ctx, "/api/social/invite/decline", body, nil); err != nil {
		return fmt.Errorf("decline invite: %w", err)
	}
	return nil
}
