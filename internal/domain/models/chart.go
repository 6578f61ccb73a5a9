package models

import "time"

type PlanetPosition struct {
	Name       string  `json:"name"`
	Longitude  float64 `json:"longitude"` // ecliptic, degrees [0,360)
	Latitude   float64 `json:"latitude"`
	Sign       string  `json:"sign"`
	House      int     `json:"house"` // 1..12, 0 when houses unavailable
	Retrograde bool    `json:"retrograde"`
}

type HouseCusp struct {
	House     int     `json:"house"` // 1..12
	Longitude float64 `json:"longitude"`
	Sign      string  `json:"sign"`
}

type Aspect struct {
	Body1 string  `json:"body1"`
	Body2 string  `json:"body2"`
	Type  string  `json:"type"` // "conjunction", "sextile", "square", "trine", "opposition"
	Angle float64 `json:"angle"`
	Orb   float64 `json:"orb"`
}

// ChartMeta carries the calculation basis shared by every derived chart.
// JulianDay is computed exactly once per orchestration and reused; derived
// calculators must never recompute it.
type ChartMeta struct {
	JulianDay   float64   `json:"julian_day"`
	HouseSystem string    `json:"house_system"`
	Timezone    string    `json:"timezone"`
	ComputedAt  time.Time `json:"computed_at"`
}

// NatalBaseline is the birth-moment chart every derived calculator consumes.
// It is immutable once produced; calculators receive it read-only.
type NatalBaseline struct {
	Planets   []PlanetPosition `json:"planets"`
	Houses    []HouseCusp      `json:"houses"` // exactly 12 cusps
	Ascendant float64          `json:"ascendant"`
	Midheaven float64          `json:"midheaven"`
	Aspects   []Aspect         `json:"aspects"`
	Meta      ChartMeta        `json:"meta"`
}

// Planet returns the named placement, or nil if absent.
func (n *NatalBaseline) Planet(name string) *PlanetPosition {
	for i := range n.Planets {
		if n.Planets[i].Name == name {
			return &n.Planets[i]
		}
	}
	return nil
}
