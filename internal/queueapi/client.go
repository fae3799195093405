package queueapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// maxAttempts bounds transport retries: one initial attempt plus three
// retries, with linear 1s/2s/3s sleeps between them.
const maxAttempts = 4

// Client fetches wait-time data from the upstream queue-time API.
type Client struct {
	baseURL    string
	client     *http.Client
	retryDelay time.Duration
}

// NewClient creates a queue API client. An empty proxy disables proxying.
func NewClient(baseURL string, timeout time.Duration, proxy string) *Client {
	var transport http.RoundTripper = &http.Transport{}
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			log.Printf("Warning: Invalid proxy URL %q: %v. Client will not use a proxy.", proxy, err)
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		retryDelay: time.Second,
	}
}

// SetRetryDelay overrides the base retry delay. Used by tests to avoid
// real multi-second sleeps.
func (c *Client) SetRetryDelay(d time.Duration) {
	c.retryDelay = d
}

// FetchCompanies retrieves the full company/park listing.
func (c *Client) FetchCompanies(ctx context.Context) ([]Company, error) {
	var companies []Company
	if err := c.getJSON(ctx, "/parks.json", &companies); err != nil {
		return nil, fmt.Errorf("failed to fetch company listing: %w", err)
	}
	return companies, nil
}

// FetchParkQueue retrieves the live queue detail for one park.
func (c *Client) FetchParkQueue(ctx context.Context, parkID int64) (*ParkQueue, error) {
	var queue ParkQueue
	path := fmt.Sprintf("/parks/%d/queue_times.json", parkID)
	if err := c.getJSON(ctx, path, &queue); err != nil {
		return nil, fmt.Errorf("failed to fetch queue for park %d: %w", parkID, err)
	}
	return &queue, nil
}

// getJSON performs a GET with bounded retry and decodes the response.
// A network error or non-2xx status counts as a transport failure and
// is retried; the attempt number scales the sleep (1s, 2s, 3s).
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(attempt-1) * c.retryDelay
			log.Printf("Retrying %s in %v (attempt %d/%d)", path, delay, attempt, maxAttempts)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := c.getJSONOnce(ctx, path, out); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("all %d attempts failed: %w", maxAttempts, lastErr)
}

func (c *Client) getJSONOnce(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("received non-2xx status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
