package api

import (
	"context"
	"net/http"

	"github.com/linea-it/pzserver-desktop/internal/model"
)

// LoggedUser resolves the identity behind the current bearer token
func (c *Client) LoggedUser(ctx context.Context) (*model.User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/logged_user", nil, nil, "")
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := c.do(req, &user, 0); err != nil {
		return nil, err
	}
	return &user, nil
}

// GenerateAPIToken issues a personal API token for the logged user. Each
// identity holds at most one active token; regenerating invalidates the
// previous one.
func (c *Client) GenerateAPIToken(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/api/get_token/", nil, nil, "")
	if err != nil {
		return "", err
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := c.do(req, &payload, 0); err != nil {
		return "", err
	}
	return payload.Token, nil
}
