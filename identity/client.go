// Package identity resolves email/password credentials against the remote
// login webhook and normalizes whatever shape it answers with into the
// canonical attendance.User.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"bluemark.com/bluemark/core/attendance"
)

// ErrAuthenticationFailed covers invalid credentials and any transport
// failure during login. It is the only identity error surfaced to users.
var ErrAuthenticationFailed = errors.New("authentication failed")

type Client struct {
	LoginURL   string
	HTTPClient *http.Client
}

func NewClient(loginURL string) *Client {
	return &Client{
		LoginURL:   loginURL,
		HTTPClient: &http.Client{},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Authenticate posts the credentials to the login webhook and returns the
// canonical user, or ErrAuthenticationFailed.
func (c *Client) Authenticate(ctx context.Context, email, password string) (attendance.User, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return attendance.User{}, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.LoginURL, bytes.NewBuffer(body))
	if err != nil {
		return attendance.User{}, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return attendance.User{}, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return attendance.User{}, fmt.Errorf("%w: login endpoint returned %d", ErrAuthenticationFailed, resp.StatusCode)
	}

	var payload json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return attendance.User{}, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	return Normalize(payload, email)
}
