// Package identity talks to the external identity provider's backend API.
// Users are owned by the provider; this package only reads snapshots of them.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"emojichirp/internal/models"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultTimeout = 5 * time.Second
	// MaxBatch is the most ids the provider accepts in one list call.
	MaxBatch = 100
)

var ErrBatchTooLarge = fmt.Errorf("identity: more than %d ids in one lookup", MaxBatch)

// APIError is returned for any non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("identity provider status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	base      string
	secretKey string
	hc        *http.Client
}

func NewClient(base, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		base:      strings.TrimRight(base, "/"),
		secretKey: secretKey,
		hc: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// providerUser is the subset of the provider's user record we decode.
type providerUser struct {
	ID       string  `json:"id"`
	Username *string `json:"username"`
	ImageURL string  `json:"image_url"`
}

// toClient drops everything except id, username and image url.
func (u providerUser) toClient() models.User {
	return models.User{ID: u.ID, Username: u.Username, ImageURL: u.ImageURL}
}

// ListByIDs resolves every id in a single request.
func (c *Client) ListByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxBatch {
		return nil, ErrBatchTooLarge
	}

	q := url.Values{}
	for _, id := range ids {
		q.Add("user_id", id)
	}
	q.Set("limit", strconv.Itoa(len(ids)))
	return c.listUsers(ctx, q)
}

// ListByUsername returns the users whose username matches exactly.
func (c *Client) ListByUsername(ctx context.Context, username string) ([]models.User, error) {
	q := url.Values{}
	q.Add("username", username)
	return c.listUsers(ctx, q)
}

func (c *Client) listUsers(ctx context.Context, q url.Values) ([]models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/v1/users?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var raw []providerUser
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}

	users := make([]models.User, 0, len(raw))
	for _, u := range raw {
		users = append(users, u.toClient())
	}
	return users, nil
}
