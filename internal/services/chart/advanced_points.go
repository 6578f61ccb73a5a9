package chart

import (
	"context"
	"fmt"

	"DestinyMap/internal/domain/models"
	domsvc "DestinyMap/internal/domain/service"
	"DestinyMap/pkg/logger"
)

// AdvancedPointsParams carries everything the four point formulas need. The
// night-chart predicate is decided by the orchestrator and passed in, not
// re-derived here.
type AdvancedPointsParams struct {
	JulianDay  float64
	Houses     []models.HouseCusp
	Ascendant  float64
	SunLon     float64
	MoonLon    float64
	NightChart bool
	Latitude   float64
	Longitude  float64
}

// AdvancedPointsCalculator computes Chiron, Lilith, the Part of Fortune and
// the Vertex. Each point is wrapped independently; the calculator degrades
// to a partially populated result and never fails outright.
type AdvancedPointsCalculator struct {
	engine domsvc.EphemerisEngine
	log    *logger.Logger
}

func NewAdvancedPointsCalculator(engine domsvc.EphemerisEngine, log *logger.Logger) *AdvancedPointsCalculator {
	return &AdvancedPointsCalculator{engine: engine, log: log}
}

func (c *AdvancedPointsCalculator) Compute(ctx context.Context, p AdvancedPointsParams) *models.AdvancedPoints {
	out := &models.AdvancedPoints{}

	if pt, err := c.bodyPoint(ctx, "Chiron", p); err != nil {
		c.log.Debug("advanced point skipped", logger.String("point", "chiron"), logger.Error(err))
	} else {
		out.Chiron = pt
	}

	if pt, err := c.bodyPoint(ctx, "Lilith", p); err != nil {
		c.log.Debug("advanced point skipped", logger.String("point", "lilith"), logger.Error(err))
	} else {
		out.Lilith = pt
	}

	out.PartOfFortune = c.partOfFortune(p)

	if pt, err := c.vertex(ctx, p); err != nil {
		c.log.Debug("advanced point skipped", logger.String("point", "vertex"), logger.Error(err))
	} else {
		out.Vertex = pt
	}

	return out
}

func (c *AdvancedPointsCalculator) bodyPoint(ctx context.Context, body string, p AdvancedPointsParams) (*models.Point, error) {
	positions, err := c.engine.BodyPositions(ctx, p.JulianDay, []string{body})
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("no position for %s", body)
	}
	lon := NormalizeDegrees(positions[0].Longitude)
	return &models.Point{
		Name:      body,
		Longitude: lon,
		Sign:      SignFor(lon),
		House:     HouseFor(lon, p.Houses),
	}, nil
}

// partOfFortune applies the Arabic-part formula. Day charts use
// ASC + Moon - Sun, night charts ASC + Sun - Moon.
func (c *AdvancedPointsCalculator) partOfFortune(p AdvancedPointsParams) *models.Point {
	var lon float64
	if p.NightChart {
		lon = NormalizeDegrees(p.Ascendant + p.SunLon - p.MoonLon)
	} else {
		lon = NormalizeDegrees(p.Ascendant + p.MoonLon - p.SunLon)
	}
	return &models.Point{
		Name:      "Part of Fortune",
		Longitude: lon,
		Sign:      SignFor(lon),
		House:     HouseFor(lon, p.Houses),
	}
}

func (c *AdvancedPointsCalculator) vertex(ctx context.Context, p AdvancedPointsParams) (*models.Point, error) {
	lon, err := c.engine.Vertex(ctx, p.JulianDay, p.Latitude, p.Longitude)
	if err != nil {
		return nil, err
	}
	lon = NormalizeDegrees(lon)
	return &models.Point{
		Name:      "Vertex",
		Longitude: lon,
		Sign:      SignFor(lon),
		House:     HouseFor(lon, p.Houses),
	}, nil
}
