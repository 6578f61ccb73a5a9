package models

import "time"

type Point struct {
	Name      string  `json:"name"`
	Longitude float64 `json:"longitude"`
	Sign      string  `json:"sign"`
	House     int     `json:"house"`
}

// AdvancedPoints holds four special points. Each is nil when its own
// sub-computation failed; the struct as a whole is never an error.
type AdvancedPoints struct {
	Chiron        *Point `json:"chiron,omitempty"`
	Lilith        *Point `json:"lilith,omitempty"`
	PartOfFortune *Point `json:"part_of_fortune,omitempty"`
	Vertex        *Point `json:"vertex,omitempty"`
}

// Empty reports whether every point is absent.
func (p *AdvancedPoints) Empty() bool {
	return p.Chiron == nil && p.Lilith == nil && p.PartOfFortune == nil && p.Vertex == nil
}

type ReturnChart struct {
	Kind      string           `json:"kind"` // "solar" or "lunar"
	Year      int              `json:"year"`
	Month     int              `json:"month,omitempty"` // lunar only
	Moment    time.Time        `json:"moment"`
	Planets   []PlanetPosition `json:"planets"`
	Houses    []HouseCusp      `json:"houses"`
	Ascendant float64          `json:"ascendant"`
	Midheaven float64          `json:"midheaven"`
}

type ProgressedChart struct {
	Method     string           `json:"method"` // "secondary" or "solar_arc"
	TargetDate time.Time        `json:"target_date"`
	Planets    []PlanetPosition `json:"planets"`
	MoonPhase  string           `json:"moon_phase,omitempty"` // secondary only
	Arc        float64          `json:"arc,omitempty"`        // solar-arc only
}

type Progressions struct {
	Secondary *ProgressedChart `json:"secondary,omitempty"`
	SolarArc  *ProgressedChart `json:"solar_arc,omitempty"`
}

type SignComparison struct {
	Body      string `json:"body"`
	NatalSign string `json:"natal_sign"`
	SoulSign  string `json:"soul_sign"`
	Aligned   bool   `json:"aligned"`
}

// SoulChart shifts every natal point by the offset between the natal North
// Node and 0 Aries.
type SoulChart struct {
	Offset     float64          `json:"offset"`
	Planets    []PlanetPosition `json:"planets"`
	Comparison []SignComparison `json:"comparison"`
}

type HarmonicChart struct {
	Harmonic int              `json:"harmonic"`
	Planets  []PlanetPosition `json:"planets"`
}

type HarmonicProfile struct {
	Dominant  int             `json:"dominant"`
	Strengths map[int]float64 `json:"strengths"`
}

type HarmonicCharts struct {
	H5      *HarmonicChart   `json:"h5,omitempty"`
	H7      *HarmonicChart   `json:"h7,omitempty"`
	H9      *HarmonicChart   `json:"h9,omitempty"`
	Profile *HarmonicProfile `json:"profile,omitempty"`
}

type AsteroidsResult struct {
	Positions []PlanetPosition `json:"positions"` // Ceres, Pallas, Juno, Vesta
	Aspects   []Aspect         `json:"aspects"`   // to natal planets
}

type FixedStarConjunction struct {
	Star      string  `json:"star"`
	Body      string  `json:"body"`
	Longitude float64 `json:"longitude"` // star position
	Orb       float64 `json:"orb"`
}

type Eclipse struct {
	Kind      string    `json:"kind"` // "solar" or "lunar"
	Date      time.Time `json:"date"`
	Longitude float64   `json:"longitude"`
}

type EclipseImpact struct {
	Eclipse   Eclipse `json:"eclipse"`
	NatalBody string  `json:"natal_body"`
	Orb       float64 `json:"orb"`
}

type EclipseAnalysis struct {
	Impact   *EclipseImpact `json:"impact,omitempty"` // first match only
	Upcoming []Eclipse      `json:"upcoming"`
}

// SajuSummary is the external calendar engine's result, opaque to this
// service beyond merging.
type SajuSummary struct {
	DayMaster   string         `json:"day_master"`
	YearPillar  string         `json:"year_pillar"`
	MonthPillar string         `json:"month_pillar"`
	DayPillar   string         `json:"day_pillar"`
	HourPillar  string         `json:"hour_pillar"`
	Elements    map[string]int `json:"elements"`
}
