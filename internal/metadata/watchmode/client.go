package watchmode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/moviechat/moviechat/internal/config"
	"github.com/moviechat/moviechat/internal/metrics"
)

var (
	ErrAPIKeyMissing = errors.New("Watchmode API key is not configured")
	ErrAPIError      = errors.New("Watchmode API error")
	ErrRateLimited   = errors.New("Watchmode API rate limited")
)

// Client is a Watchmode streaming-availability API client.
type Client struct {
	httpClient *http.Client
	config     config.WatchmodeConfig
	logger     zerolog.Logger
}

// NewClient creates a new Watchmode client.
func NewClient(cfg config.WatchmodeConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		config: cfg,
		logger: logger.With().Str("component", "watchmode").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "watchmode"
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// Region returns the configured default region.
func (c *Client) Region() string {
	if c.config.Region == "" {
		return "US"
	}
	return c.config.Region
}

// Test verifies the API key against the account status endpoint.
func (c *Client) Test(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	params := url.Values{}
	params.Set("apiKey", c.config.APIKey)

	var status struct {
		QuotaUsed int `json:"quotaUsed"`
		Quota     int `json:"quota"`
	}
	if err := c.doRequest(ctx, "status", "/status/", params, &status); err != nil {
		return err
	}

	c.logger.Debug().
		Int("quotaUsed", status.QuotaUsed).
		Int("quota", status.Quota).
		Msg("Watchmode quota")
	return nil
}

// SearchTitle looks a title up by name.
func (c *Client) SearchTitle(ctx context.Context, title string) ([]TitleResult, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := url.Values{}
	params.Set("apiKey", c.config.APIKey)
	params.Set("search_field", "name")
	params.Set("search_value", title)

	var response SearchResponse
	if err := c.doRequest(ctx, "search", "/search/", params, &response); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("title", title).
		Int("results", len(response.TitleResults)).
		Msg("Title search completed")

	return response.TitleResults, nil
}

// GetSources lists where a Watchmode title can be watched in region.
func (c *Client) GetSources(ctx context.Context, titleID int, region string) ([]Source, error) {
	if !c.IsConfigured() {
		return nil, ErrAPIKeyMissing
	}

	params := url.Values{}
	params.Set("apiKey", c.config.APIKey)
	params.Set("regions", region)

	var sources []Source
	path := "/title/" + strconv.Itoa(titleID) + "/sources/"
	if err := c.doRequest(ctx, "sources", path, params, &sources); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("titleID", titleID).
		Str("region", region).
		Int("sources", len(sources)).
		Msg("Got title sources")

	return sources, nil
}

func (c *Client) doRequest(ctx context.Context, op, path string, params url.Values, result interface{}) error {
	endpoint := c.config.BaseURL + path
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues("watchmode").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("watchmode", op, "error").Inc()
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestsTotal.WithLabelValues("watchmode", op, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMsg).
				Str("op", op).
				Msg("Watchmode API error")
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			return ErrRateLimited
		}
		return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
