package api

import (
	"context"
	"encoding/base64"
	"fmt"
)

// RegisterRequest is the body for account registration
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// GuestAccount is an ephemeral credential pair issued by the server
type GuestAccount struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new account. The caller still has to log in; the
// server does not issue a session here.
func (c *Client) Register(ctx context.Context, username, password string) error {
	if err := c.Post(ctx, "/auth/register", RegisterRequest{Username: username, Password: password}, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Guest asks the server for a throwaway account
func (c *Client) Guest(ctx context.Context) (*GuestAccount, error) {
	var account GuestAccount
	if err := c.Post(ctx, "/auth/guest", nil, &account); err != nil {
		return nil, fmt.Errorf("guest account: %w", err)
	}
	return &account, nil
}

// BasicCredentials builds the credential handle for a username/password
// pair. Only the encoded handle is kept after login.
func BasicCredentials(username, password string) Credentials {
	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return Credentials{Username: username, Token: token}
}
