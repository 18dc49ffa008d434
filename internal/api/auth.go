package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

// TokenResponse is the payload of a successful credential exchange
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

// SignIn exchanges user credentials for a bearer token through the OAuth
// password grant. This is the only call with a client-enforced timeout, and
// it never carries an Authorization header.
func (c *Client) SignIn(ctx context.Context, username, password, clientID, clientSecret string) (*TokenResponse, error) {
	payload := map[string]string{
		"grant_type":    "password",
		"username":      username,
		"password":      password,
		"client_id":     clientID,
		"client_secret": clientSecret,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/token", nil, bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}
	req.Header.Del("Authorization")

	var token TokenResponse
	if err := c.do(req, &token, SignInTimeout); err != nil {
		return nil, err
	}
	return &token, nil
}
