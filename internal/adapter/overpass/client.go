// Package overpass implements domain.MapContextProvider against the
// Overpass API. One interpreter query fetches every tagged element within
// the radius; all classification into buckets happens downstream in the
// domain package, this adapter only counts and summarizes raw tags.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/scene-card-service/internal/domain"
)

// maxPOILabelRunes bounds a single POI label so a garbage name tag cannot
// blow up the prompt.
const maxPOILabelRunes = 40

// Client implements domain.MapContextProvider using the Overpass API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxPOIs    int
	logger     *slog.Logger
}

// NewClient creates an Overpass client. baseURL is the server root, e.g.
// "https://overpass-api.de". maxPOIs caps how many named POIs are kept.
func NewClient(baseURL string, timeout time.Duration, maxPOIs int, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		maxPOIs: maxPOIs,
		logger:  logger,
	}
}

// Features queries tagged map elements around the point and summarizes them.
func (c *Client) Features(ctx context.Context, lat, lon float64, radiusM int) (domain.MapFeatures, error) {
	query := buildQuery(lat, lon, radiusM)

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/interpreter", strings.NewReader(form.Encode()))
	if err != nil {
		return domain.MapFeatures{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.MapFeatures{}, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.MapFeatures{}, fmt.Errorf("overpass API error: status %d: %s", resp.StatusCode, body)
	}

	var opResp response
	if err := json.NewDecoder(resp.Body).Decode(&opResp); err != nil {
		return domain.MapFeatures{}, fmt.Errorf("decode response: %w", err)
	}

	return c.summarize(opResp.Elements), nil
}

// buildQuery assembles the Overpass QL union for the area around the point.
func buildQuery(lat, lon float64, radiusM int) string {
	around := fmt.Sprintf("around:%d,%.6f,%.6f", radiusM, lat, lon)
	return fmt.Sprintf(`[out:json][timeout:25];
(
  way(%[1]s)["landuse"];
  way(%[1]s)["highway"];
  way(%[1]s)["building"];
  way(%[1]s)["natural"="water"];
  way(%[1]s)["waterway"];
  way(%[1]s)["leisure"];
  node(%[1]s)["tourism"]["name"];
  node(%[1]s)["amenity"]["name"];
  node(%[1]s)["shop"]["name"];
);
out tags;`, around)
}

// summarize folds raw elements into the feature summary the domain classifies.
func (c *Client) summarize(elements []element) domain.MapFeatures {
	f := domain.MapFeatures{
		LanduseCounts: map[string]int{},
	}

	var levelSum float64
	var levelCount int
	var pois []candidatePOI

	for _, e := range elements {
		tags := e.Tags
		if tags == nil {
			continue
		}

		if lu := tags["landuse"]; lu != "" {
			f.LanduseCounts[lu]++
		}
		if hw := tags["highway"]; hw != "" {
			if cls, ok := roadClass[hw]; ok && (f.RoadType == "" || roadRank[cls] < roadRank[f.RoadType]) {
				f.RoadType = cls
			}
			if sidewalkTagged(tags) {
				f.Sidewalk = true
			}
		}
		if tags["natural"] == "water" || tags["waterway"] != "" {
			f.Water = true
		}
		if l := tags["leisure"]; l == "park" || l == "garden" {
			f.Park = true
		}
		if tags["building"] != "" {
			f.BuildingCount++
			if levels, err := strconv.ParseFloat(tags["building:levels"], 64); err == nil && levels > 0 {
				levelSum += levels
				levelCount++
			}
		}
		if poi, ok := classifyPOI(tags); ok {
			pois = append(pois, poi)
		}
	}

	if levelCount > 0 {
		f.MeanLevels = levelSum / float64(levelCount)
		f.HasLevelData = true
	}
	f.POIs = c.rankPOIs(pois)
	return f
}

// Road classification. Overpass highway values collapse onto the small
// dominant-road vocabulary; lower rank wins when several roads are present.
var roadClass = map[string]string{
	"motorway":      "motorway",
	"motorway_link": "motorway",
	"trunk":         "primary",
	"trunk_link":    "primary",
	"primary":       "primary",
	"primary_link":  "primary",
	"secondary":     "secondary",
	"tertiary":      "tertiary",
	"residential":   "residential",
	"living_street": "residential",
	"unclassified":  "residential",
	"service":       "service",
	"pedestrian":    "pedestrian",
	"footway":       "path",
	"cycleway":      "path",
	"path":          "path",
	"track":         "path",
}

// roadRank orders classified values; the lowest rank present becomes the
// dominant road type.
var roadRank = map[string]int{
	"motorway":    0,
	"primary":     1,
	"secondary":   2,
	"tertiary":    3,
	"residential": 4,
	"service":     5,
	"pedestrian":  6,
	"path":        7,
}

func sidewalkTagged(tags map[string]string) bool {
	switch tags["sidewalk"] {
	case "both", "left", "right", "yes", "separate":
		return true
	}
	return tags["footway"] == "sidewalk"
}

// POI selection. Tourism attractions outrank amenities, which outrank
// shops; within a category insertion order (Overpass proximity order) is
// kept, with a name sort as the final tiebreak for determinism.
type candidatePOI struct {
	name     string
	category int
}

var notableAmenities = map[string]bool{
	"place_of_worship": true,
	"theatre":          true,
	"cinema":           true,
	"museum":           true,
	"fountain":         true,
	"marketplace":      true,
	"townhall":         true,
	"library":          true,
	"university":       true,
	"restaurant":       true,
	"cafe":             true,
	"bar":              true,
	"pub":              true,
}

func classifyPOI(tags map[string]string) (candidatePOI, bool) {
	name := truncateLabel(tags["name"])
	if name == "" {
		return candidatePOI{}, false
	}
	switch {
	case tags["tourism"] != "":
		return candidatePOI{name: name, category: 0}, true
	case notableAmenities[tags["amenity"]]:
		return candidatePOI{name: name, category: 1}, true
	case tags["shop"] != "":
		return candidatePOI{name: name, category: 2}, true
	}
	return candidatePOI{}, false
}

func (c *Client) rankPOIs(pois []candidatePOI) []string {
	sort.SliceStable(pois, func(i, j int) bool {
		if pois[i].category != pois[j].category {
			return pois[i].category < pois[j].category
		}
		return pois[i].name < pois[j].name
	})

	names := make([]string, 0, c.maxPOIs)
	seen := make(map[string]bool)
	for _, p := range pois {
		if seen[p.name] {
			continue
		}
		seen[p.name] = true
		names = append(names, p.name)
		if len(names) == c.maxPOIs {
			break
		}
	}
	return names
}

func truncateLabel(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= maxPOILabelRunes {
		return s
	}
	return strings.TrimSpace(string(runes[:maxPOILabelRunes]))
}

// Overpass API response types.

type response struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Tags map[string]string `json:"tags"`
}
