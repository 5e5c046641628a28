package userapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pantrylabs/trolley/internal/model"
)

// DefaultBaseURL matches the mock REST server the UI was built against.
const DefaultBaseURL = "http://localhost:3001"

// Client talks to the remote users resource, the system of record for
// accounts. The client itself carries no timeout; callers that need one
// (the login flow does) pass a deadline through ctx.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a users client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// List fetches the entire users collection.
func (c *Client) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindByEmail fetches the users matching email exactly. The remote resource
// does the filtering; an empty slice means the email is unregistered.
func (c *Client) FindByEmail(ctx context.Context, email string) ([]model.User, error) {
	var users []model.User
	path := "/users?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Get fetches a single user record, or nil if the id is unknown.
func (c *Client) Get(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &user)
	if err == errNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create posts a new user record and returns it with the server-assigned id.
func (c *Client) Create(ctx context.Context, user model.User) (*model.User, error) {
	var created model.User
	if err := c.do(ctx, http.MethodPost, "/users", user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update sends a partial update and returns the server's view of the record.
func (c *Client) Update(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	var updated model.User
	err := c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id), patch, &updated)
	if err == errNotFound {
		return nil, fmt.Errorf("user %q not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

var errNotFound = fmt.Errorf("not found")

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
