package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestObserve_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/archive", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "48.85837", q.Get("latitude"))
		assert.Equal(t, "2.29448", q.Get("longitude"))
		assert.Equal(t, "2025-10-09", q.Get("start_date"))
		assert.Equal(t, "2025-10-09", q.Get("end_date"))
		assert.Equal(t, "ms", q.Get("wind_speed_unit"))
		assert.Contains(t, q.Get("daily"), "weather_code")

		_, _ = w.Write([]byte(`{
			"daily": {
				"time": ["2025-10-09"],
				"weather_code": [2],
				"temperature_2m_mean": [14.2],
				"precipitation_sum": [0.0],
				"wind_speed_10m_max": [3.1]
			}
		}`))
	}))
	defer srv.Close()

	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	at := time.Date(2025, 10, 9, 13, 20, 0, 0, paris)

	obs, err := testClient(srv.URL).Observe(context.Background(), 48.85837, 2.29448, at)
	require.NoError(t, err)

	assert.Equal(t, "partly-cloudy", obs.RawCondition)
	assert.Equal(t, time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC), obs.ObservedDate)
	require.NotNil(t, obs.TemperatureC)
	assert.Equal(t, 14.2, *obs.TemperatureC)
	require.NotNil(t, obs.PrecipMm)
	assert.Equal(t, 0.0, *obs.PrecipMm)
	require.NotNil(t, obs.WindMps)
	assert.Equal(t, 3.1, *obs.WindMps)
}

func TestObserve_NullSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"daily": {
				"time": ["2025-10-09"],
				"weather_code": [null],
				"temperature_2m_mean": [null],
				"precipitation_sum": [null],
				"wind_speed_10m_max": [null]
			}
		}`))
	}))
	defer srv.Close()

	obs, err := testClient(srv.URL).Observe(context.Background(), 48.85837, 2.29448,
		time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Empty(t, obs.RawCondition)
	assert.Nil(t, obs.TemperatureC)
	assert.Nil(t, obs.PrecipMm)
	assert.Nil(t, obs.WindMps)
	assert.False(t, obs.ObservedDate.IsZero(), "date still reported")
}

func TestObserve_NoDailyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"daily": {"time": []}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Observe(context.Background(), 48.85837, 2.29448,
		time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no daily data")
}

func TestObserve_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"reason": "Latitude must be in range"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Observe(context.Background(), 48.85837, 2.29448,
		time.Date(2025, 10, 9, 12, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestWMOLabel(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "clear-sky"},
		{1, "partly-cloudy"},
		{2, "partly-cloudy"},
		{3, "overcast"},
		{45, "fog"},
		{48, "fog"},
		{51, "drizzle"},
		{57, "drizzle"},
		{61, "light-rain"},
		{80, "light-rain"},
		{63, "rain"},
		{65, "rain"},
		{82, "rain"},
		{66, "freezing-rain"},
		{71, "snow"},
		{75, "snow"},
		{77, "snow"},
		{85, "snow"},
		{95, "thunderstorm"},
		{99, "thunderstorm"},
		{42, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, wmoLabel(tt.code), "code %d", tt.code)
	}
}
