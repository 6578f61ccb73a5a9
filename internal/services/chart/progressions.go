package chart

import (
	"context"
	"fmt"
	"time"

	"DestinyMap/internal/domain/models"
)

// daysPerYear is the symbolic "day for a year" rate of secondary
// progressions, in Julian years.
const daysPerYear = 365.25

func planetNames(planets []models.PlanetPosition) []string {
	names := make([]string, len(planets))
	for i := range planets {
		names[i] = planets[i].Name
	}
	return names
}

// progressedJulianDay shifts the natal Julian day by one day per elapsed
// year of life.
func progressedJulianDay(natal *models.NatalBaseline, target time.Time) float64 {
	birth := JulianDayToTime(natal.Meta.JulianDay)
	ageYears := target.Sub(birth).Hours() / 24 / daysPerYear
	return natal.Meta.JulianDay + ageYears
}

// SecondaryProgressions computes the day-for-a-year progressed chart plus a
// progressed Moon-phase label.
func (c *ReturnsProgressionsCalculator) SecondaryProgressions(ctx context.Context, natal *models.NatalBaseline, target time.Time) (*models.ProgressedChart, error) {
	jd := progressedJulianDay(natal, target)

	positions, err := c.engine.BodyPositions(ctx, jd, planetNames(natal.Planets))
	if err != nil {
		return nil, models.NewCalculationError("secondary_progressions", err)
	}

	planets := shapePlanets(positions, natal.Houses)
	chart := &models.ProgressedChart{
		Method:     "secondary",
		TargetDate: target,
		Planets:    planets,
	}

	var sunLon, moonLon float64
	var haveSun, haveMoon bool
	for _, p := range planets {
		switch p.Name {
		case "Sun":
			sunLon, haveSun = p.Longitude, true
		case "Moon":
			moonLon, haveMoon = p.Longitude, true
		}
	}
	if haveSun && haveMoon {
		chart.MoonPhase = MoonPhaseLabel(sunLon, moonLon)
	}
	return chart, nil
}

// SolarArcDirections shifts every natal point by the Sun's total progressed
// arc at the target date.
func (c *ReturnsProgressionsCalculator) SolarArcDirections(ctx context.Context, natal *models.NatalBaseline, target time.Time) (*models.ProgressedChart, error) {
	natalSun := natal.Planet("Sun")
	if natalSun == nil {
		return nil, models.NewCalculationError("solar_arc", fmt.Errorf("natal Sun missing"))
	}

	jd := progressedJulianDay(natal, target)
	positions, err := c.engine.BodyPositions(ctx, jd, []string{"Sun"})
	if err != nil {
		return nil, models.NewCalculationError("solar_arc", err)
	}
	if len(positions) == 0 {
		return nil, models.NewCalculationError("solar_arc", fmt.Errorf("no progressed Sun position"))
	}

	arc := NormalizeDegrees(positions[0].Longitude - natalSun.Longitude)
	planets := make([]models.PlanetPosition, len(natal.Planets))
	copy(planets, natal.Planets)
	for i := range planets {
		planets[i].Longitude = NormalizeDegrees(planets[i].Longitude + arc)
		planets[i].Sign = SignFor(planets[i].Longitude)
		planets[i].House = HouseFor(planets[i].Longitude, natal.Houses)
	}

	return &models.ProgressedChart{
		Method:     "solar_arc",
		TargetDate: target,
		Planets:    planets,
		Arc:        arc,
	}, nil
}

// AllProgressions runs secondary progressions and, when asked, solar-arc
// directions.
func (c *ReturnsProgressionsCalculator) AllProgressions(ctx context.Context, natal *models.NatalBaseline, target time.Time, includeSolarArc bool) (*models.Progressions, error) {
	secondary, err := c.SecondaryProgressions(ctx, natal, target)
	if err != nil {
		return nil, err
	}

	out := &models.Progressions{Secondary: secondary}
	if includeSolarArc {
		solarArc, err := c.SolarArcDirections(ctx, natal, target)
		if err != nil {
			return nil, err
		}
		out.SolarArc = solarArc
	}
	return out, nil
}
