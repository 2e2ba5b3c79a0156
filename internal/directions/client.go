// Package directions queries a Google-Maps-style directions API for
// traffic-aware driving alternatives between two locations.
package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the Google Maps Directions API endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/directions/json"

const defaultTimeout = 15 * time.Second

// Client issues directions queries over HTTP. A single failed attempt is not
// retried; the caller simply defers to the next scheduled invocation.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a directions client. An empty baseURL selects the
// default provider endpoint; a non-positive timeout selects the default.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// FetchAlternatives requests multi-alternative driving directions relative to
// the current time and returns one Alternative per provider route. Origin and
// destination are passed to the provider verbatim. A non-2xx response or
// transport failure is returned as an error; callers treat that as "nothing
// to log this cycle".
func (c *Client) FetchAlternatives(ctx context.Context, origin, destination string) ([]Alternative, error) {
	params := url.Values{}
	params.Set("origin", origin)
	params.Set("destination", destination)
	params.Set("mode", "driving")
	params.Set("alternatives", "true")
	params.Set("departure_time", "now")
	params.Set("traffic_model", "best_guess")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch directions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("directions API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode directions response: %w", err)
	}

	// The provider reports quota and auth failures as HTTP 200 with a
	// non-OK status and no routes. Distinguish those from a genuinely
	// empty result.
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		c.logger.Warn("directions API returned non-OK status", "status", payload.Status)
	}

	alts := make([]Alternative, 0, len(payload.Routes))
	for _, r := range payload.Routes {
		if len(r.Legs) == 0 {
			continue
		}
		first := r.Legs[0]

		alt := Alternative{
			Summary:         r.Summary,
			DurationSeconds: first.Duration.Value,
			DistanceMeters:  first.Distance.Value,
		}
		if first.DurationInTraffic != nil {
			alt.TrafficDurationSeconds = first.DurationInTraffic.Value
		}
		for _, s := range first.Steps {
			alt.Steps = append(alt.Steps, s.HTMLInstructions)
		}

		c.logger.Debug("route alternative",
			"summary", alt.Summary,
			"duration_sec", alt.DurationSeconds,
			"traffic_sec", alt.TrafficDurationSeconds,
			"distance_m", alt.DistanceMeters)

		alts = append(alts, alt)
	}

	return alts, nil
}
