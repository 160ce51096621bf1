// Package openmeteo implements domain.WeatherProvider against the
// Open-Meteo archive API. The adapter returns the provider's daily summary
// as raw labels; mapping onto the condition enum happens in the domain.
package openmeteo

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

// Client implements domain.WeatherProvider using the Open-Meteo archive API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client. baseURL is the server root, e.g.
// "https://archive-api.open-meteo.com".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// Observe fetches the daily weather summary for the local date of the
// requested instant.
func (c *Client) Observe(ctx context.Context, lat, lon float64, localDate time.Time) (domain.WeatherObservation, error) {
	date := localDate.Format("2006-01-02")
	params := url.Values{
		"latitude":        {fmt.Sprintf("%.5f", lat)},
		"longitude":       {fmt.Sprintf("%.5f", lon)},
		"start_date":      {date},
		"end_date":        {date},
		"daily":           {"weather_code,temperature_2m_mean,precipitation_sum,wind_speed_10m_max"},
		"wind_speed_unit": {"ms"},
		"timezone":        {"auto"},
	}
	fullURL := c.baseURL + "/v1/archive?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherObservation{}, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var omResp response
	if err := json.NewDecoder(resp.Body).Decode(&omResp); err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("decode response: %w", err)
	}

	d := omResp.Daily
	if len(d.Time) == 0 {
		return domain.WeatherObservation{}, fmt.Errorf("open-meteo: no daily data for %s", date)
	}

	obs := domain.WeatherObservation{}
	observed, err := time.Parse("2006-01-02", d.Time[0])
	if err != nil {
		return domain.WeatherObservation{}, fmt.Errorf("parse observation date %q: %w", d.Time[0], err)
	}
	obs.ObservedDate = observed

	if len(d.WeatherCode) > 0 && d.WeatherCode[0] != nil {
		obs.RawCondition = wmoLabel(*d.WeatherCode[0])
	}
	if len(d.TemperatureMean) > 0 {
		obs.TemperatureC = d.TemperatureMean[0]
	}
	if len(d.PrecipitationSum) > 0 {
		obs.PrecipMm = d.PrecipitationSum[0]
	}
	if len(d.WindSpeedMax) > 0 {
		obs.WindMps = d.WindSpeedMax[0]
	}
	return obs, nil
}

// wmoLabel renders a WMO weather interpretation code as the provider-style
// label the domain's condition table understands.
func wmoLabel(code int) string {
	switch {
	case code == 0:
		return "clear-sky"
	case code == 1 || code == 2:
		return "partly-cloudy"
	case code == 3:
		return "overcast"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code == 61 || code == 80:
		return "light-rain"
	case code == 63 || code == 65 || code == 81 || code == 82:
		return "rain"
	case code == 66 || code == 67:
		return "freezing-rain"
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return "snow"
	case code >= 95:
		return "thunderstorm"
	default:
		return ""
	}
}

// Open-Meteo API response types. Numeric series use pointers because the
// archive backfills with nulls for dates it has not processed yet.

type response struct {
	Daily daily `json:"daily"`
}

type daily struct {
	Time             []string   `json:"time"`
	WeatherCode      []*int     `json:"weather_code"`
	TemperatureMean  []*float64 `json:"temperature_2m_mean"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
	WindSpeedMax     []*float64 `json:"wind_speed_10m_max"`
}
