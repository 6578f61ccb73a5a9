package chart

import (
	"context"
	"sync"
	"time"

	"DestinyMap/internal/domain/models"
	"DestinyMap/pkg/logger"
)

const (
	fixedStarOrb = 1.5
	eclipseOrb   = 2.5
	recentWindow = 183 * 24 * time.Hour // eclipses in the last ~6 months
	upcomingSpan = 2 * 366 * 24 * time.Hour
)

// FixedStarConjunctions finds natal bodies conjunct a major fixed star.
// Returns an empty list on any failure, never an error.
func (c *AsteroidsStarsCalculator) FixedStarConjunctions(ctx context.Context, natal *models.NatalBaseline) []models.FixedStarConjunction {
	stars, err := c.engine.FixedStars(ctx)
	if err != nil {
		c.log.Debug("fixed stars skipped", logger.Error(err))
		return []models.FixedStarConjunction{}
	}

	out := []models.FixedStarConjunction{}
	for _, star := range stars {
		for _, p := range natal.Planets {
			orb := AngularSeparation(star.Longitude, p.Longitude)
			if orb <= fixedStarOrb {
				out = append(out, models.FixedStarConjunction{
					Star:      star.Name,
					Body:      p.Name,
					Longitude: NormalizeDegrees(star.Longitude),
					Orb:       orb,
				})
			}
		}
	}
	return out
}

// EclipseAnalysis checks whether any recent eclipse touched a natal point
// (first match only) and lists the next upcoming eclipses.
func (c *AsteroidsStarsCalculator) EclipseAnalysis(ctx context.Context, natal *models.NatalBaseline, upcomingCount int) *models.EclipseAnalysis {
	now := c.now()
	out := &models.EclipseAnalysis{Upcoming: []models.Eclipse{}}

	recent, err := c.engine.Eclipses(ctx, now.Add(-recentWindow), now)
	if err != nil {
		c.log.Debug("recent eclipses unavailable", logger.Error(err))
	} else {
		out.Impact = c.firstImpact(recent, natal)
	}

	upcoming, err := c.engine.Eclipses(ctx, now, now.Add(upcomingSpan))
	if err != nil {
		c.log.Debug("upcoming eclipses unavailable", logger.Error(err))
		return out
	}
	if upcomingCount > 0 && len(upcoming) > upcomingCount {
		upcoming = upcoming[:upcomingCount]
	}
	out.Upcoming = upcoming
	return out
}

func (c *AsteroidsStarsCalculator) firstImpact(eclipses []models.Eclipse, natal *models.NatalBaseline) *models.EclipseImpact {
	points := make([]models.PlanetPosition, 0, len(natal.Planets)+2)
	points = append(points, natal.Planets...)
	points = append(points,
		models.PlanetPosition{Name: "Ascendant", Longitude: natal.Ascendant},
		models.PlanetPosition{Name: "Midheaven", Longitude: natal.Midheaven},
	)
	for _, e := range eclipses {
		for _, p := range points {
			orb := AngularSeparation(e.Longitude, p.Longitude)
			if orb <= eclipseOrb {
				return &models.EclipseImpact{Eclipse: e, NatalBody: p.Name, Orb: orb}
			}
		}
	}
	return nil
}

// ComputeAll runs asteroids, fixed stars and eclipse analysis concurrently.
func (c *AsteroidsStarsCalculator) ComputeAll(ctx context.Context, natal *models.NatalBaseline, upcomingCount int) (*models.AsteroidsResult, []models.FixedStarConjunction, *models.EclipseAnalysis) {
	var (
		wg        sync.WaitGroup
		asteroids *models.AsteroidsResult
		stars     []models.FixedStarConjunction
		eclipses  *models.EclipseAnalysis
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		asteroids = c.Asteroids(ctx, natal.Meta.JulianDay, natal.Houses, natal.Planets)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		stars = c.FixedStarConjunctions(ctx, natal)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		eclipses = c.EclipseAnalysis(ctx, natal, upcomingCount)
	}()
	wg.Wait()

	return asteroids, stars, eclipses
}
