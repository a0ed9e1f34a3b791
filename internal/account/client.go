// Package account talks to the remote user-account service that owns
// usernames, passwords and profile fields.  The reservation core only
// uses it to authenticate callers and to edit profiles without losing
// fields the caller did not send.
package account

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// User mirrors the account service's user record.
type User struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Contact   string `json:"contact"`
	Usertype  string `json:"usertype"` // guest | staff
}

// ErrUserNotFound is returned when the service answers 404.
var ErrUserNotFound = errors.New("user not found")

// Client calls the account service.  Tenant is the path segment the
// service uses to partition its users.
type Client struct {
	BaseURL string
	Tenant  string
	HTTP    *http.Client
}

// NewClient returns a Client with a 10s request timeout.
func NewClient(baseURL, tenant string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Tenant:  tenant,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// GetUser fetches the record for username.
func (c *Client) GetUser(ctx context.Context, username string) (User, error) {
	var body struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, c.path("read_user", username), nil, &body); err != nil {
		return User{}, err
	}
	return body.User, nil
}

// CreateUser registers a new account.
func (c *Client) CreateUser(ctx context.Context, u User) error {
	return c.do(ctx, http.MethodPost, c.path("create_user"), u, nil)
}

// UpdateUser replaces the record stored for username with u.  The service
// does not merge; every field must be sent.
func (c *Client) UpdateUser(ctx context.Context, username string, u User) error {
	return c.do(ctx, http.MethodPut, c.path("update_user", username), u, nil)
}

func (c *Client) path(op string, rest ...string) string {
	parts := []string{c.BaseURL, op}
	if c.Tenant != "" {
		parts = append(parts, url.PathEscape(c.Tenant))
	}
	for _, r := range rest {
		parts = append(parts, url.PathEscape(r))
	}
	return strings.Join(parts, "/")
}

func (c *Client) do(ctx context.Context, method, u string, in, out any) error {
	var rd io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("account service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrUserNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("account service: %s %s: %d %s", method, u, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("account service: decode: %w", err)
	}
	return nil
}
