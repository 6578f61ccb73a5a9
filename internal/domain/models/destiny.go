package models

import "time"

// BirthInput is the normalized input of one destiny-map computation.
// Name is privacy-sensitive and is kept out of cache keys and audit rows.
type BirthInput struct {
	Name           string
	BirthDate      string // "2006-01-02"
	BirthTime      string // "15:04"
	Latitude       float64
	Longitude      float64
	Gender         string
	Timezone       string // source timezone, optional
	ViewerTimezone string // optional
}

// DestinyMap is the aggregate returned to callers. Every derived section is
// nullable; consumers must tolerate absence of any of them.
type DestinyMap struct {
	GeneratorID string    `json:"generator_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Name        string    `json:"name,omitempty"`
	Gender      string    `json:"gender,omitempty"`

	Natal *NatalBaseline `json:"natal,omitempty"`
	Saju  *SajuSummary   `json:"saju,omitempty"`

	AdvancedPoints *AdvancedPoints        `json:"advanced_points,omitempty"`
	SolarReturn    *ReturnChart           `json:"solar_return,omitempty"`
	LunarReturn    *ReturnChart           `json:"lunar_return,omitempty"`
	Progressions   *Progressions          `json:"progressions,omitempty"`
	SoulChart      *SoulChart             `json:"soul_chart,omitempty"`
	Harmonics      *HarmonicCharts        `json:"harmonics,omitempty"`
	Asteroids      *AsteroidsResult       `json:"asteroids,omitempty"`
	FixedStars     []FixedStarConjunction `json:"fixed_stars,omitempty"`
	Eclipses       *EclipseAnalysis       `json:"eclipses,omitempty"`

	Summary string            `json:"summary"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ComputationRecord is the anonymized audit row written per computation.
// KeyHash is a digest of the cache key; birth parameters never appear here.
type ComputationRecord struct {
	KeyHash     string            `json:"key_hash"`
	GeneratorID string            `json:"generator_id"`
	Outcome     string            `json:"outcome"` // "ok", "degraded", "failed", "cached"
	DurationMS  int64             `json:"duration_ms"`
	Modules     map[string]string `json:"modules"` // module name -> "ok" | error text
	CreatedAt   time.Time         `json:"created_at"`
}
