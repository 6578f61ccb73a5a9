package chart

import (
	"context"
	"fmt"
	"testing"
	"time"

	"DestinyMap/internal/domain/models"
	domsvc "DestinyMap/internal/domain/service"
	"DestinyMap/pkg/logger"
)

// fakeEngine implements the ephemeris port with per-method hooks. A nil
// hook fails the call, so each test wires only what it exercises.
type fakeEngine struct {
	chartFn    func(p domsvc.ChartParams) (*domsvc.Chart, error)
	chartAtFn  func(jd, lat, lon float64, hs string) (*domsvc.Chart, error)
	solarFn    func(natalJD, sunLon float64, year int) (float64, error)
	lunarFn    func(natalJD, moonLon float64, year, month int) (float64, error)
	bodiesFn   func(jd float64, bodies []string) ([]models.PlanetPosition, error)
	vertexFn   func(jd, lat, lon float64) (float64, error)
	starsFn    func() ([]domsvc.StarPosition, error)
	eclipsesFn func(from, to time.Time) ([]models.Eclipse, error)
}

func (f *fakeEngine) ComputeChart(_ context.Context, p domsvc.ChartParams) (*domsvc.Chart, error) {
	if f.chartFn == nil {
		return nil, fmt.Errorf("chart not wired")
	}
	return f.chartFn(p)
}

func (f *fakeEngine) ComputeChartAt(_ context.Context, jd, lat, lon float64, hs string) (*domsvc.Chart, error) {
	if f.chartAtFn == nil {
		return nil, fmt.Errorf("chartAt not wired")
	}
	return f.chartAtFn(jd, lat, lon, hs)
}

func (f *fakeEngine) SolarReturnInstant(_ context.Context, natalJD, sunLon float64, year int) (float64, error) {
	if f.solarFn == nil {
		return 0, fmt.Errorf("solar return not wired")
	}
	return f.solarFn(natalJD, sunLon, year)
}

func (f *fakeEngine) LunarReturnInstant(_ context.Context, natalJD, moonLon float64, year, month int) (float64, error) {
	if f.lunarFn == nil {
		return 0, fmt.Errorf("lunar return not wired")
	}
	return f.lunarFn(natalJD, moonLon, year, month)
}

func (f *fakeEngine) BodyPositions(_ context.Context, jd float64, bodies []string) ([]models.PlanetPosition, error) {
	if f.bodiesFn == nil {
		return nil, fmt.Errorf("bodies not wired")
	}
	return f.bodiesFn(jd, bodies)
}

func (f *fakeEngine) Vertex(_ context.Context, jd, lat, lon float64) (float64, error) {
	if f.vertexFn == nil {
		return 0, fmt.Errorf("vertex not wired")
	}
	return f.vertexFn(jd, lat, lon)
}

func (f *fakeEngine) FixedStars(_ context.Context) ([]domsvc.StarPosition, error) {
	if f.starsFn == nil {
		return nil, fmt.Errorf("stars not wired")
	}
	return f.starsFn()
}

func (f *fakeEngine) Eclipses(_ context.Context, from, to time.Time) ([]models.Eclipse, error) {
	if f.eclipsesFn == nil {
		return nil, fmt.Errorf("eclipses not wired")
	}
	return f.eclipsesFn(from, to)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func testNatal() *models.NatalBaseline {
	cusps := make([]models.HouseCusp, 12)
	for i := range cusps {
		cusps[i] = models.HouseCusp{House: i + 1, Longitude: float64(i * 30)}
	}
	planets := []models.PlanetPosition{
		{Name: "Sun", Longitude: 50, Sign: "Taurus", House: 2},
		{Name: "Moon", Longitude: 200, Sign: "Libra", House: 7},
		{Name: "North Node", Longitude: 123.45, Sign: "Leo", House: 5},
	}
	return &models.NatalBaseline{
		Planets:   planets,
		Houses:    cusps,
		Ascendant: 0,
		Midheaven: 270,
		Meta:      models.ChartMeta{JulianDay: 2449757.7, HouseSystem: "placidus", Timezone: "UTC"},
	}
}
