package chart

import (
	"context"
	"fmt"
	"time"

	"DestinyMap/internal/domain/models"
	domsvc "DestinyMap/internal/domain/service"
)

const unixEpochJD = 2440587.5

// JulianDayToTime converts a Julian day to UTC wall time.
func JulianDayToTime(jd float64) time.Time {
	return time.Unix(int64((jd-unixEpochJD)*86400), 0).UTC()
}

// ReturnsProgressionsCalculator computes return charts and progressed
// charts. Every operation either fully succeeds or fails whole; tolerating a
// failed operation is the orchestrator's job.
type ReturnsProgressionsCalculator struct {
	engine domsvc.EphemerisEngine
}

func NewReturnsProgressionsCalculator(engine domsvc.EphemerisEngine) *ReturnsProgressionsCalculator {
	return &ReturnsProgressionsCalculator{engine: engine}
}

// SolarReturn computes the chart for the instant the transiting Sun comes
// back to its natal longitude in the given year.
func (c *ReturnsProgressionsCalculator) SolarReturn(ctx context.Context, natal *models.NatalBaseline, lat, lon float64, year int) (*models.ReturnChart, error) {
	sun := natal.Planet("Sun")
	if sun == nil {
		return nil, models.NewCalculationError("solar_return", fmt.Errorf("natal Sun missing"))
	}

	jd, err := c.engine.SolarReturnInstant(ctx, natal.Meta.JulianDay, sun.Longitude, year)
	if err != nil {
		return nil, models.NewCalculationError("solar_return", err)
	}

	chart, err := c.chartAt(ctx, jd, lat, lon, natal.Meta.HouseSystem)
	if err != nil {
		return nil, models.NewCalculationError("solar_return", err)
	}
	chart.Kind = "solar"
	chart.Year = year
	return chart, nil
}

// LunarReturn computes the chart for the Moon's return in the given month.
func (c *ReturnsProgressionsCalculator) LunarReturn(ctx context.Context, natal *models.NatalBaseline, lat, lon float64, year, month int) (*models.ReturnChart, error) {
	moon := natal.Planet("Moon")
	if moon == nil {
		return nil, models.NewCalculationError("lunar_return", fmt.Errorf("natal Moon missing"))
	}

	jd, err := c.engine.LunarReturnInstant(ctx, natal.Meta.JulianDay, moon.Longitude, year, month)
	if err != nil {
		return nil, models.NewCalculationError("lunar_return", err)
	}

	chart, err := c.chartAt(ctx, jd, lat, lon, natal.Meta.HouseSystem)
	if err != nil {
		return nil, models.NewCalculationError("lunar_return", err)
	}
	chart.Kind = "lunar"
	chart.Year = year
	chart.Month = month
	return chart, nil
}

func (c *ReturnsProgressionsCalculator) chartAt(ctx context.Context, jd, lat, lon float64, houseSystem string) (*models.ReturnChart, error) {
	raw, err := c.engine.ComputeChartAt(ctx, jd, lat, lon, houseSystem)
	if err != nil {
		return nil, err
	}
	cusps := shapeCusps(raw.Houses)
	return &models.ReturnChart{
		Moment:    JulianDayToTime(jd),
		Planets:   shapePlanets(raw.Planets, cusps),
		Houses:    cusps,
		Ascendant: NormalizeDegrees(raw.Ascendant),
		Midheaven: NormalizeDegrees(raw.Midheaven),
	}, nil
}
