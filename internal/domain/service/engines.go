package service

import (
	"context"
	"time"

	"DestinyMap/internal/domain/models"
)

// ChartParams is the astronomical input of one chart computation.
type ChartParams struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Latitude    float64
	Longitude   float64
	Timezone    string
	HouseSystem string
}

// Chart is the raw engine output before domain shaping (aspects, signs,
// house assignment happen in the calculators).
type Chart struct {
	JulianDay float64
	Planets   []models.PlanetPosition
	Houses    []models.HouseCusp
	Ascendant float64
	Midheaven float64
}

type StarPosition struct {
	Name      string
	Longitude float64
}

// EphemerisEngine is the source of all astronomical truth. The calculators
// only adapt and orchestrate its outputs.
type EphemerisEngine interface {
	ComputeChart(ctx context.Context, p ChartParams) (*Chart, error)
	ComputeChartAt(ctx context.Context, jd, latitude, longitude float64, houseSystem string) (*Chart, error)
	SolarReturnInstant(ctx context.Context, natalJD, natalSunLon float64, year int) (float64, error)
	LunarReturnInstant(ctx context.Context, natalJD, natalMoonLon float64, year, month int) (float64, error)
	BodyPositions(ctx context.Context, jd float64, bodies []string) ([]models.PlanetPosition, error)
	Vertex(ctx context.Context, jd, latitude, longitude float64) (float64, error)
	FixedStars(ctx context.Context) ([]StarPosition, error)
	Eclipses(ctx context.Context, from, to time.Time) ([]models.Eclipse, error)
}

// SajuEngine computes the East-Asian calendar chart. A single fallible call
// merged into the aggregate.
type SajuEngine interface {
	Compute(ctx context.Context, input models.BirthInput) (*models.SajuSummary, error)
}

// TimezoneLocator resolves an IANA timezone name from coordinates. Failure
// degrades to a fixed fallback, never aborts a computation.
type TimezoneLocator interface {
	Locate(latitude, longitude float64) (string, error)
}
