// Package client is a Go client for the Campaign Manager HTTP API.
package client

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

	"github.com/white/campaign-manager/internal/models"
)

// ErrNotFound is returned for 404 responses
var ErrNotFound = errors.New("campaign not found")

// APIError is a non-2xx response from the server
type APIError struct {
	StatusCode int
	Message    string
	Field      string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("campaign api: status=%d field=%s: %s", e.StatusCode, e.Field, e.Message)
	}
	return fmt.Sprintf("campaign api: status=%d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client talks to one Campaign Manager server. baseURL includes any base path, e.g. "http://host:5000/api".
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.httpClient = hc
	}
}

func (c *Client) List(ctx context.Context) ([]models.Campaign, error) {
	var out []models.Campaign
	if err := c.do(ctx, http.MethodGet, "/campaigns", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.Campaign, error) {
	var out models.Campaign
	if err := c.do(ctx, http.MethodGet, campaignPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, req models.CreateCampaignRequest) (*models.Campaign, error) {
	var out models.Campaign
	if err := c.do(ctx, http.MethodPost, "/campaigns", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, req models.UpdateCampaignRequest) (*models.Campaign, error) {
	var out models.Campaign
	if err := c.do(ctx, http.MethodPut, campaignPath(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, campaignPath(id), nil, nil)
}

// Toggle flips a campaign between ACTIVE and INACTIVE using the status the
// server reports. The read and the write are separate requests.
func (c *Client) Toggle(ctx context.Context, id string) (*models.Campaign, error) {
	current, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := current.Status.Toggled()
	if err != nil {
		return nil, err
	}
	return c.Update(ctx, id, models.UpdateCampaignRequest{Status: &next})
}

func (c *Client) GenerateMessage(ctx context.Context, profile models.LinkedInProfile) (string, error) {
	var out models.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/personalized-message", profile, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func campaignPath(id string) string {
	return "/campaigns/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("campaign api: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var payload struct {
			Error   string `json:"error"`
			Field   string `json:"field"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			switch {
			case payload.Error != "" && payload.Message != "":
				apiErr.Message = payload.Message + ": " + payload.Error
			case payload.Error != "":
				apiErr.Message = payload.Error
			}
			apiErr.Field = payload.Field
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("campaign api: invalid json: %w", err)
	}
	return nil
}
