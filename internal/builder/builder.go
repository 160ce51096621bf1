// Package builder orchestrates scene card construction: it validates raw
// inputs, fans out to the provider adapters concurrently, classifies and
// assembles whatever data came back, and validates the finished card before
// returning it. Provider failures never abort construction; only invalid
// input, caller cancellation, or a schema violation do.
package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/scene-card-service/internal/domain"
	"github.com/couchcryptid/scene-card-service/internal/observability"
)

// Provider labels used in metrics and provenance.
const (
	providerGeocoder   = "geocoder"
	providerMapContext = "map_context"
	providerSun        = "sun"
	providerWeather    = "weather"
)

// Unavailability reason codes recorded in metrics and provenance.
const (
	ReasonTimeout       = "timeout"
	ReasonCancelled     = "cancelled"
	ReasonProviderError = "provider_error"
)

// Request carries the raw inputs for one card construction.
type Request struct {
	Lat           float64  `json:"lat"`
	Lon           float64  `json:"lon"`
	DatetimeLocal string   `json:"datetime_local"`
	Timezone      string   `json:"timezone"`
	HeadingDeg    *float64 `json:"heading_deg,omitempty"`
	RadiusM       int      `json:"radius_m,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// Providers bundles the four adapter dependencies.
type Providers struct {
	Geocoder   domain.Geocoder
	MapContext domain.MapContextProvider
	Sun        domain.SunCalculator
	Weather    domain.WeatherProvider
}

// ProvenanceNames identify the wired adapters on emitted cards.
type ProvenanceNames struct {
	Geocoder   string
	MapContext string
	Sun        string
	Weather    string
	Climate    string
}

// Options tune orchestration behavior. Zero values fall back to defaults.
type Options struct {
	// Timeout bounds each individual adapter call.
	Timeout time.Duration
	// MaxRetries is the number of extra attempts per adapter after the
	// first failure. Retries belong to the orchestrator; adapters never
	// retry themselves.
	MaxRetries int
	// DefaultRadiusM is the map-context query radius when the request
	// does not supply one.
	DefaultRadiusM int
	Style          domain.StyleConfig
	Names          ProvenanceNames
}

// Builder constructs scene cards. Safe for concurrent use: all per-request
// state lives on the stack of Construct.
type Builder struct {
	providers Providers
	opts      Options
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Builder with the given providers and orchestration options.
func New(p Providers, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Builder {
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.DefaultRadiusM <= 0 {
		opts.DefaultRadiusM = 150
	}
	if opts.Style.SceneNoun == "" {
		opts.Style = domain.DefaultStyle()
	}
	if opts.Names.Geocoder == "" {
		opts.Names = ProvenanceNames{
			Geocoder:   providerGeocoder,
			MapContext: providerMapContext,
			Sun:        providerSun,
			Weather:    providerWeather,
			Climate:    "climate",
		}
	}
	return &Builder{
		providers: p,
		opts:      opts,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the builder has constructed at least one
// card, mirroring the service's traffic-readiness signal.
func (b *Builder) CheckReadiness(_ context.Context) error {
	if !b.ready.Load() {
		return errors.New("builder has not constructed any cards yet")
	}
	return nil
}

// Construct builds one scene card. It returns a *domain.InputError for
// malformed inputs, a *domain.ValidationError when the assembled card fails
// schema checks, and the context error when the caller cancelled. Provider
// unavailability is not an error: the affected sections degrade and the
// card is still emitted.
func (b *Builder) Construct(ctx context.Context, req Request) (*domain.SceneCard, error) {
	start := time.Now()

	localTime, err := validateRequest(req)
	if err != nil {
		b.metrics.CardsFailed.WithLabelValues("input").Inc()
		return nil, err
	}

	radius := req.RadiusM
	if radius <= 0 {
		radius = b.opts.DefaultRadiusM
	}

	// Fan out to the four providers. Each goroutine writes only its own
	// result slot; the WaitGroup is the join point.
	var (
		geoOut outcome[domain.PlaceLabels]
		mapOut outcome[domain.MapFeatures]
		sunOut outcome[domain.SunPosition]
		wxOut  outcome[domain.WeatherObservation]
	)
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		geoOut = settle(ctx, b, providerGeocoder, func(c context.Context) (domain.PlaceLabels, error) {
			return b.providers.Geocoder.ReverseGeocode(c, req.Lat, req.Lon)
		})
	}()
	go func() {
		defer wg.Done()
		mapOut = settle(ctx, b, providerMapContext, func(c context.Context) (domain.MapFeatures, error) {
			return b.providers.MapContext.Features(c, req.Lat, req.Lon, radius)
		})
	}()
	go func() {
		defer wg.Done()
		sunOut = settle(ctx, b, providerSun, func(c context.Context) (domain.SunPosition, error) {
			return b.providers.Sun.Position(c, req.Lat, req.Lon, localTime)
		})
	}()
	go func() {
		defer wg.Done()
		wxOut = settle(ctx, b, providerWeather, func(c context.Context) (domain.WeatherObservation, error) {
			return b.providers.Weather.Observe(c, req.Lat, req.Lon, localTime)
		})
	}()
	wg.Wait()

	// Caller cancellation: no partial card.
	if ctx.Err() != nil {
		b.metrics.CardsFailed.WithLabelValues("cancelled").Inc()
		return nil, fmt.Errorf("card construction cancelled: %w", ctx.Err())
	}

	card := b.assemble(req, localTime, radius, geoOut, mapOut, sunOut, wxOut)

	if verr := domain.ValidateCard(card); verr != nil {
		b.metrics.CardsFailed.WithLabelValues("validation").Inc()
		b.logger.Error("assembled card failed validation",
			"rule", verr.Rule, "field", verr.Field, "message", verr.Message)
		return nil, verr
	}

	b.metrics.CardsBuilt.Inc()
	b.metrics.BuildDuration.Observe(time.Since(start).Seconds())
	b.ready.Store(true)
	return card, nil
}

// assemble merges settled provider outcomes into the card, filling degraded
// sections with their default shapes so required keys are never omitted.
func (b *Builder) assemble(
	req Request,
	localTime time.Time,
	radius int,
	geoOut outcome[domain.PlaceLabels],
	mapOut outcome[domain.MapFeatures],
	sunOut outcome[domain.SunPosition],
	wxOut outcome[domain.WeatherObservation],
) *domain.SceneCard {
	createdAt := domain.Now().UTC()
	weekday, dayOfYear := domain.DeriveCalendar(localTime)

	card := &domain.SceneCard{
		Version: domain.SchemaVersion,
		ID:      domain.GenerateID(createdAt, req.Lat, req.Lon),
		Source: domain.Source{
			Lat:           req.Lat,
			Lon:           req.Lon,
			HeadingDeg:    req.HeadingDeg,
			DatetimeLocal: req.DatetimeLocal,
			Timezone:      req.Timezone,
			Weekday:       weekday,
			DayOfYear:     dayOfYear,
		},
		Climate: domain.DeriveClimate(req.Lat, dayOfYear),
		Notes:   req.Notes,
		Provenance: domain.Provenance{
			Geocoder:     provenanceName(b.opts.Names.Geocoder, geoOut.reason),
			MapContext:   provenanceName(b.opts.Names.MapContext, mapOut.reason),
			Sun:          provenanceName(b.opts.Names.Sun, sunOut.reason),
			Weather:      provenanceName(b.opts.Names.Weather, wxOut.reason),
			Climate:      b.opts.Names.Climate,
			CreatedAtUTC: createdAt,
		},
	}

	card.Location = assembleLocation(req, geoOut)
	card.MapContext = assembleMapContext(mapOut)
	if sunOut.ok {
		pos := sunOut.value
		card.Sun = domain.DeriveSun(&pos)
	} else {
		card.Sun = domain.DeriveSun(nil)
	}
	card.Weather = assembleWeather(wxOut)

	card.Confidence = domain.Confidence{
		Location:   domain.LocationScore(!geoOut.ok, card.Location),
		MapContext: domain.MapContextScore(!mapOut.ok, card.MapContext),
		Sun:        domain.SunScore(sunOut.ok),
		Weather:    domain.WeatherScore(!wxOut.ok, localTime, wxOut.value.ObservedDate),
	}
	card.Prompt = domain.DistillPrompt(card, b.opts.Style)

	return card
}

func assembleLocation(req Request, geoOut outcome[domain.PlaceLabels]) domain.Location {
	if !geoOut.ok {
		return domain.Location{DisplayName: domain.CoordinateDisplayName(req.Lat, req.Lon)}
	}
	labels := geoOut.value
	loc := domain.Location{
		DisplayName: labels.DisplayName,
		Road:        labels.Road,
		Suburb:      labels.Suburb,
		City:        labels.City,
		State:       labels.State,
		Postcode:    labels.Postcode,
		Country:     labels.Country,
		CountryCode: labels.CountryCode,
	}
	if loc.DisplayName == "" {
		loc.DisplayName = domain.CoordinateDisplayName(req.Lat, req.Lon)
	}
	return loc
}

func assembleMapContext(mapOut outcome[domain.MapFeatures]) domain.MapContext {
	mc := domain.MapContext{
		Landuse: []string{},
		POIs:    []string{},
		Elements: domain.Elements{
			BuildingHeightHint: domain.HeightUnknown,
			BuildingDensity:    domain.DensityUnknown,
		},
	}
	if !mapOut.ok {
		return mc
	}
	f := mapOut.value
	mc.Landuse = sortedKeys(f.LanduseCounts)
	if f.RoadType != "" {
		rt := f.RoadType
		mc.Elements.RoadType = &rt
	}
	mc.Elements.Sidewalk = f.Sidewalk
	mc.Elements.Water = f.Water
	mc.Elements.Park = f.Park
	mc.Elements.BuildingHeightHint = domain.BucketBuildingHeight(f.MeanLevels, f.HasLevelData)
	mc.Elements.BuildingDensity = domain.BucketBuildingDensity(f.BuildingCount)
	if len(f.POIs) > 0 {
		mc.POIs = f.POIs
	}
	mc.PlaceType = domain.DerivePlaceType(f)
	return mc
}

func assembleWeather(wxOut outcome[domain.WeatherObservation]) domain.Weather {
	w := domain.Weather{Condition: domain.ConditionUnknown}
	if !wxOut.ok {
		return w
	}
	obs := wxOut.value
	w.Condition = domain.CanonicalCondition(obs.RawCondition)
	w.TemperatureC = obs.TemperatureC
	w.PrecipMm = obs.PrecipMm
	w.WindMps = obs.WindMps
	w.WetGround = domain.WetGround(w.Condition, w.PrecipMm)
	return w
}

// outcome is one settled provider call: either a value or a reason code.
type outcome[T any] struct {
	value  T
	ok     bool
	reason string
}

// settle runs one adapter call under the per-call timeout, retrying at most
// Options.MaxRetries times. Failures are folded into a reason code; nothing
// propagates past the join.
func settle[T any](ctx context.Context, b *Builder, provider string, fn func(context.Context) (T, error)) outcome[T] {
	var reason string
	for attempt := 0; attempt <= b.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			b.metrics.ProviderRetries.WithLabelValues(provider).Inc()
		}

		callCtx, cancel := context.WithTimeout(ctx, b.opts.Timeout)
		start := time.Now()
		value, err := fn(callCtx)
		cancel()
		b.metrics.ProviderDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

		if err == nil {
			b.metrics.ProviderRequests.WithLabelValues(provider, "success").Inc()
			return outcome[T]{value: value, ok: true}
		}

		reason = classifyFailure(ctx, err)
		b.metrics.ProviderRequests.WithLabelValues(provider, reason).Inc()
		b.logger.Warn("provider call failed",
			"provider", provider,
			"attempt", attempt+1,
			"reason", reason,
			"error", err,
		)
		if reason == ReasonCancelled {
			break
		}
	}
	return outcome[T]{reason: reason}
}

// classifyFailure distinguishes caller cancellation from a per-call timeout
// and from plain provider errors.
func classifyFailure(parent context.Context, err error) string {
	switch {
	case parent.Err() != nil:
		return ReasonCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	default:
		return ReasonProviderError
	}
}

func provenanceName(name, reason string) string {
	if reason == "" {
		return name
	}
	return fmt.Sprintf("%s (unavailable: %s)", name, reason)
}

func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
