// Command cardgen builds scene card fixtures from built-in provider data
// and writes them as JSON. It runs the real construction path with a fixed
// clock, so fixtures stay byte-identical across runs and track any change
// to classification, prompts, or the schema.
//
// Usage:
//
//	go run ./cmd/cardgen -out data/mock/scene_cards.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/scene-card-service/internal/builder"
	"github.com/couchcryptid/scene-card-service/internal/domain"
	"github.com/couchcryptid/scene-card-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

type scenario struct {
	name     string
	request  builder.Request
	geo      domain.PlaceLabels
	features domain.MapFeatures
	sun      domain.SunPosition
	weather  domain.WeatherObservation
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the scene card JSON fixture")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	// Fixed clock for reproducible IDs and created_at_utc.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2025, time.October, 9, 11, 20, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()

	cards := make([]*domain.SceneCard, 0, len(scenarios))
	for _, sc := range scenarios {
		b := builder.New(builder.Providers{
			Geocoder:   fixtureGeocoder{labels: sc.geo},
			MapContext: fixtureMapContext{features: sc.features},
			Sun:        fixtureSun{pos: sc.sun},
			Weather:    fixtureWeather{obs: sc.weather},
		}, builder.Options{}, logger, metrics)

		card, err := b.Construct(context.Background(), sc.request)
		if err != nil {
			return fmt.Errorf("building %s: %w", sc.name, err)
		}
		cards = append(cards, card)
		log.Printf("%s: %s", sc.name, card.ID)
	}

	if err := writeJSON(*out, cards); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d cards: %s", len(cards), *out)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --- fixture providers ---

type fixtureGeocoder struct{ labels domain.PlaceLabels }

func (f fixtureGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.PlaceLabels, error) {
	return f.labels, nil
}

type fixtureMapContext struct{ features domain.MapFeatures }

func (f fixtureMapContext) Features(_ context.Context, _, _ float64, _ int) (domain.MapFeatures, error) {
	return f.features, nil
}

type fixtureSun struct{ pos domain.SunPosition }

func (f fixtureSun) Position(_ context.Context, _, _ float64, _ time.Time) (domain.SunPosition, error) {
	return f.pos, nil
}

type fixtureWeather struct{ obs domain.WeatherObservation }

func (f fixtureWeather) Observe(_ context.Context, _, _ float64, _ time.Time) (domain.WeatherObservation, error) {
	return f.obs, nil
}

func ptr(v float64) *float64 { return &v }

var scenarios = []scenario{
	{
		name: "paris-daytime",
		request: builder.Request{
			Lat:           48.85837,
			Lon:           2.29448,
			DatetimeLocal: "2025-10-09T13:20:00+02:00",
			Timezone:      "Europe/Paris",
		},
		geo: domain.PlaceLabels{
			DisplayName: "Avenue Gustave Eiffel, Paris, France",
			Road:        "Avenue Gustave Eiffel",
			Suburb:      "Gros-Caillou",
			City:        "Paris",
			State:       "Île-de-France",
			Postcode:    "75007",
			Country:     "France",
			CountryCode: "fr",
		},
		features: domain.MapFeatures{
			LanduseCounts: map[string]int{"residential": 4, "grass": 2},
			RoadType:      "residential",
			Sidewalk:      true,
			Park:          true,
			BuildingCount: 25,
			MeanLevels:    5,
			HasLevelData:  true,
			POIs:          []string{"Tour Eiffel"},
		},
		sun: domain.SunPosition{AzimuthDeg: 190, ElevationDeg: 32},
		weather: domain.WeatherObservation{
			RawCondition: "partly-cloudy",
			ObservedDate: time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC),
			TemperatureC: ptr(14.2),
			PrecipMm:     ptr(0.0),
			WindMps:      ptr(3.1),
		},
	},
	{
		name: "tokyo-rainy-night",
		request: builder.Request{
			Lat:           35.65952,
			Lon:           139.70064,
			DatetimeLocal: "2025-10-09T22:45:00+09:00",
			Timezone:      "Asia/Tokyo",
		},
		geo: domain.PlaceLabels{
			DisplayName: "Shibuya, Tokyo, Japan",
			City:        "Shibuya",
			State:       "Tokyo",
			Country:     "Japan",
			CountryCode: "jp",
		},
		features: domain.MapFeatures{
			LanduseCounts: map[string]int{"retail": 5, "commercial": 2},
			RoadType:      "primary",
			Sidewalk:      true,
			BuildingCount: 60,
			MeanLevels:    9,
			HasLevelData:  true,
			POIs:          []string{"Shibuya Crossing"},
		},
		sun: domain.SunPosition{AzimuthDeg: 285, ElevationDeg: -34},
		weather: domain.WeatherObservation{
			RawCondition: "rain",
			ObservedDate: time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC),
			TemperatureC: ptr(18.5),
			PrecipMm:     ptr(12.4),
			WindMps:      ptr(6.0),
		},
	},
	{
		name: "tuscany-golden-hour",
		request: builder.Request{
			Lat:           43.33179,
			Lon:           11.32655,
			DatetimeLocal: "2025-06-21T19:40:00+02:00",
			Timezone:      "Europe/Rome",
		},
		geo: domain.PlaceLabels{
			DisplayName: "Strada di Cerchiaia, Siena, Italy",
			Road:        "Strada di Cerchiaia",
			City:        "Siena",
			State:       "Toscana",
			Country:     "Italy",
			CountryCode: "it",
		},
		features: domain.MapFeatures{
			LanduseCounts: map[string]int{"farmland": 3, "vineyard": 1},
			RoadType:      "tertiary",
			BuildingCount: 3,
		},
		sun: domain.SunPosition{AzimuthDeg: 289, ElevationDeg: 7},
		weather: domain.WeatherObservation{
			RawCondition: "clear-sky",
			ObservedDate: time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC),
			TemperatureC: ptr(26.8),
			PrecipMm:     ptr(0.0),
			WindMps:      ptr(2.2),
		},
	},
}
