// Package enrichment resolves postal codes into normalized addresses with
// geocoordinates through an external lookup API. Every failure mode collapses
// into domain.ErrEnrichmentUnavailable: the caller treats the lookup as
// best-effort and keeps the submitted address.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/studiohub/onboarding-system/internal/core/domain"
)

const requestTimeout = 5 * time.Second

// Client calls the postal-code lookup service.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// lookupResponse mirrors the fields the saga consumes. lat/lng arrive as
// strings on the wire.
type lookupResponse struct {
	Address  string `json:"address"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	Lat      string `json:"lat"`
	Lng      string `json:"lng"`
}

// Resolve looks up a digits-only postal code. Any transport error, non-2xx
// response, or malformed body yields domain.ErrEnrichmentUnavailable.
func (c *Client) Resolve(ctx context.Context, postalCode string) (*domain.ResolvedAddress, error) {
	endpoint := fmt.Sprintf("%s/json/%s?token=%s", c.baseURL, url.PathEscape(postalCode), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build lookup request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("postal lookup: %v: %w", err, domain.ErrEnrichmentUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("postal lookup status %d: %w", resp.StatusCode, domain.ErrEnrichmentUnavailable)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("postal lookup decode: %v: %w", err, domain.ErrEnrichmentUnavailable)
	}

	resolved := &domain.ResolvedAddress{
		Street:   strings.TrimSpace(body.Address),
		District: strings.TrimSpace(body.District),
		City:     strings.TrimSpace(body.City),
		Region:   strings.ToUpper(strings.TrimSpace(body.State)),
	}
	if lat, err := strconv.ParseFloat(body.Lat, 64); err == nil {
		if lng, err := strconv.ParseFloat(body.Lng, 64); err == nil {
			resolved.Coordinates = domain.Coordinates{Lat: lat, Lng: lng}
		}
	}
	return resolved, nil
}
