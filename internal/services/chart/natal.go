package chart

import (
	"context"
	"fmt"
	"time"

	"DestinyMap/internal/domain/models"
	domrepo "DestinyMap/internal/domain/repository"
	domsvc "DestinyMap/internal/domain/service"
)

// NatalCalculator shapes the ephemeris engine's raw chart into the natal
// baseline: sign and house assignment, the natal aspect list, and the
// calculation metadata reused by every derived calculator. The Julian day is
// taken from the engine once and never recomputed downstream.
type NatalCalculator struct {
	engine      domsvc.EphemerisEngine
	houseSystem domrepo.HouseSystem
}

func NewNatalCalculator(engine domsvc.EphemerisEngine, houseSystem string) *NatalCalculator {
	return &NatalCalculator{
		engine:      engine,
		houseSystem: domrepo.NormalizeHouseSystem(houseSystem),
	}
}

func (c *NatalCalculator) Compute(ctx context.Context, p domsvc.ChartParams) (*models.NatalBaseline, error) {
	if p.HouseSystem == "" {
		p.HouseSystem = string(c.houseSystem)
	}

	raw, err := c.engine.ComputeChart(ctx, p)
	if err != nil {
		return nil, models.NewCalculationError("natal", err)
	}
	if len(raw.Houses) != 12 {
		return nil, models.NewCalculationError("natal", fmt.Errorf("engine returned %d house cusps", len(raw.Houses)))
	}
	if len(raw.Planets) == 0 {
		return nil, models.NewCalculationError("natal", fmt.Errorf("engine returned no placements"))
	}

	cusps := shapeCusps(raw.Houses)
	planets := shapePlanets(raw.Planets, cusps)

	return &models.NatalBaseline{
		Planets:   planets,
		Houses:    cusps,
		Ascendant: NormalizeDegrees(raw.Ascendant),
		Midheaven: NormalizeDegrees(raw.Midheaven),
		Aspects:   AspectsWithin(planets),
		Meta: models.ChartMeta{
			JulianDay:   raw.JulianDay,
			HouseSystem: p.HouseSystem,
			Timezone:    p.Timezone,
			ComputedAt:  time.Now(),
		},
	}, nil
}
