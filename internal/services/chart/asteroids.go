package chart

import (
	"context"
	"time"

	"DestinyMap/internal/domain/models"
	domsvc "DestinyMap/internal/domain/service"
	"DestinyMap/pkg/logger"
)

var asteroidNames = []string{"Ceres", "Pallas", "Juno", "Vesta"}

// AsteroidsStarsCalculator covers the minor bodies, fixed-star conjunctions
// and eclipse analysis. All of its operations degrade to absence instead of
// returning errors.
type AsteroidsStarsCalculator struct {
	engine domsvc.EphemerisEngine
	log    *logger.Logger
	now    func() time.Time
}

func NewAsteroidsStarsCalculator(engine domsvc.EphemerisEngine, log *logger.Logger) *AsteroidsStarsCalculator {
	return &AsteroidsStarsCalculator{engine: engine, log: log, now: time.Now}
}

// Asteroids positions the four main asteroids and finds their aspects to the
// natal planets. Returns nil when no valid time basis is available or the
// engine fails.
func (c *AsteroidsStarsCalculator) Asteroids(ctx context.Context, jd float64, cusps []models.HouseCusp, natalPlanets []models.PlanetPosition) *models.AsteroidsResult {
	if jd <= 0 {
		c.log.Debug("asteroids skipped", logger.String("reason", "no time basis"))
		return nil
	}

	positions, err := c.engine.BodyPositions(ctx, jd, asteroidNames)
	if err != nil {
		c.log.Debug("asteroids skipped", logger.Error(err))
		return nil
	}
	if len(positions) == 0 {
		return nil
	}

	shaped := shapePlanets(positions, cusps)
	return &models.AsteroidsResult{
		Positions: shaped,
		Aspects:   AspectsBetween(shaped, natalPlanets),
	}
}
