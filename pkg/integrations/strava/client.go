// Package strava is a minimal client for the Strava v3 API.
package strava

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kevinnayar/mmftostrava/pkg/domain/activity"
	httputil "github.com/kevinnayar/mmftostrava/pkg/infrastructure/http"
)

const (
	DefaultBaseURL  = "https://www.strava.com/api/v3"
	DefaultTimeout  = 30 * time.Second
	destinationName = "strava"
)

// Client is an API client for Strava. Authentication is left to the
// http.Client's transport (see oauth.Transport).
type Client struct {
	baseURL string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. an httptest server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

// NewClient creates a new Strava API client
func NewClient(httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  httpClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// createdActivity is the subset of Strava's DetailedActivity we read back.
type createdActivity struct {
	ID int64 `json:"id"`
}

func (c *Client) Name() string {
	return destinationName
}

// Create posts a manual activity. The local record id is not part of the payload.
// Only 201 Created counts as success.
func (c *Client) Create(ctx context.Context, record *activity.Record) (string, error) {
	jsonData, err := json.Marshal(record.Activity)
	if err != nil {
		return "", fmt.Errorf("marshal activity: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/activities", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.ExpectStatus(resp, http.StatusCreated); err != nil {
		return "", fmt.Errorf("create activity: %w", err)
	}

	var created createdActivity
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		// Created upstream; an unreadable body does not undo that.
		return "", nil
	}
	if created.ID == 0 {
		return "", nil
	}
	return strconv.FormatInt(created.ID, 10), nil
}
