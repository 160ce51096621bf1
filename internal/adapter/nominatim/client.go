// Package nominatim implements domain.Geocoder against the Nominatim
// reverse-geocoding API (jsonv2 format).
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/scene-card-service/internal/domain"
)

// userAgent is sent on every request; Nominatim's usage policy requires an
// identifying agent string.
const userAgent = "scene-card-service/1.0"

// Client implements domain.Geocoder using the Nominatim reverse API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Nominatim geocoding client. baseURL is the server
// root, e.g. "https://nominatim.openstreetmap.org".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// ReverseGeocode converts coordinates to administrative place labels.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.PlaceLabels, error) {
	params := url.Values{
		"lat":    {fmt.Sprintf("%.6f", lat)},
		"lon":    {fmt.Sprintf("%.6f", lon)},
		"format": {"jsonv2"},
		"zoom":   {"18"},
	}
	fullURL := c.baseURL + "/reverse?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.PlaceLabels{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.PlaceLabels{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.PlaceLabels{}, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var nomResp response
	if err := json.NewDecoder(resp.Body).Decode(&nomResp); err != nil {
		return domain.PlaceLabels{}, fmt.Errorf("decode response: %w", err)
	}

	// Nominatim reports "unable to geocode" as a 200 with an error field.
	if nomResp.Error != "" {
		c.logger.Debug("nominatim returned no result", "lat", lat, "lon", lon, "error", nomResp.Error)
		return domain.PlaceLabels{}, nil
	}

	a := nomResp.Address
	labels := domain.PlaceLabels{
		DisplayName: nomResp.DisplayName,
		Road:        a.Road,
		Suburb:      firstNonEmpty(a.Suburb, a.Neighbourhood, a.Quarter),
		City:        firstNonEmpty(a.City, a.Town, a.Village, a.Municipality),
		State:       a.State,
		Postcode:    a.Postcode,
		Country:     a.Country,
		CountryCode: a.CountryCode,
	}
	return labels, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Nominatim API response types (jsonv2).

type response struct {
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
	Error       string  `json:"error"`
}

type address struct {
	Road          string `json:"road"`
	Suburb        string `json:"suburb"`
	Neighbourhood string `json:"neighbourhood"`
	Quarter       string `json:"quarter"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	Municipality  string `json:"municipality"`
	State         string `json:"state"`
	Postcode      string `json:"postcode"`
	Country       string `json:"country"`
	CountryCode   string `json:"country_code"`
}
