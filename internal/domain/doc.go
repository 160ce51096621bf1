// Package domain models scene cards: deterministic, versioned records that
// summarize the physical and environmental context around a GPS point at a
// local instant.
//
// # Card Shape
//
// A SceneCard always carries its full section shape. When a provider was
// unavailable the section is present but default-shaped (nil numerics,
// empty labels, unknown buckets); only the confidence scores and the null
// fields signal degradation. Derived booleans (sun lighting flags, wet
// ground) are always recomputed from their source numerics and never stored
// independently.
//
// # Heuristic Thresholds
//
// Classifiers use fixed, documented cutpoints so identical inputs bucket
// identically across runs:
//
//	Building height: mean building:levels 1-2 lowrise | 3-6 midrise | 7+ highrise | no data unknown
//	Building density: footprints in radius 1-9 sparse | 10-39 medium | 40+ dense | 0 unknown
//	Lighting: elevation e > 0 day | e < -6 night | -6 <= e <= 0 blue hour | 0 < e <= 10 golden hour
//	Wet ground: condition in {light_rain, rain, snow, thunderstorm, fog} or precip >= 0.2 mm
//
// Unmapped provider condition labels fall to "unknown", never to "clear".
//
// # ID Generation
//
// Card IDs combine the creation instant with coordinates rounded to five
// decimal places: sc_<compact UTC timestamp>_<lat>_<lon>. The ID is a
// best-effort key, not a uniqueness guarantee: two requests in the same
// second and rounding bucket produce the same ID. Callers needing strict
// uniqueness must layer their own key on top. See [GenerateID].
package domain
