package chart

import (
	"context"
	"fmt"
	"testing"

	"DestinyMap/internal/domain/models"
)

func TestPartOfFortuneDayChart(t *testing.T) {
	calc := NewAdvancedPointsCalculator(&fakeEngine{}, testLogger(t))

	pts := calc.Compute(context.Background(), AdvancedPointsParams{
		JulianDay:  2449757.7,
		Ascendant:  100,
		SunLon:     50,
		MoonLon:    200,
		NightChart: false,
	})

	if pts.PartOfFortune == nil {
		t.Fatalf("Part of Fortune missing")
	}
	if got := pts.PartOfFortune.Longitude; got != 250 {
		t.Fatalf("day-chart Part of Fortune = %v, want 250", got)
	}
}

func TestPartOfFortuneNightChart(t *testing.T) {
	calc := NewAdvancedPointsCalculator(&fakeEngine{}, testLogger(t))

	pts := calc.Compute(context.Background(), AdvancedPointsParams{
		JulianDay:  2449757.7,
		Ascendant:  100,
		SunLon:     50,
		MoonLon:    200,
		NightChart: true,
	})

	if pts.PartOfFortune == nil {
		t.Fatalf("Part of Fortune missing")
	}
	if got := pts.PartOfFortune.Longitude; got != 310 {
		t.Fatalf("night-chart Part of Fortune = %v, want 310", got)
	}
}

func TestAdvancedPointsPartialFailure(t *testing.T) {
	// Engine fails every call: body points and vertex must be absent while
	// the pure-arithmetic Part of Fortune still populates.
	engine := &fakeEngine{
		bodiesFn: func(float64, []string) ([]models.PlanetPosition, error) {
			return nil, fmt.Errorf("ephemeris down")
		},
		vertexFn: func(float64, float64, float64) (float64, error) {
			return 0, fmt.Errorf("ephemeris down")
		},
	}
	calc := NewAdvancedPointsCalculator(engine, testLogger(t))

	pts := calc.Compute(context.Background(), AdvancedPointsParams{
		JulianDay: 2449757.7,
		Ascendant: 100,
		SunLon:    50,
		MoonLon:   200,
	})

	if pts.Chiron != nil || pts.Lilith != nil || pts.Vertex != nil {
		t.Fatalf("engine-backed points should be absent: %+v", pts)
	}
	if pts.PartOfFortune == nil {
		t.Fatalf("Part of Fortune should survive engine failure")
	}
	if pts.Empty() {
		t.Fatalf("result should not be fully empty")
	}
}

func TestAdvancedPointsEngineBacked(t *testing.T) {
	engine := &fakeEngine{
		bodiesFn: func(_ float64, bodies []string) ([]models.PlanetPosition, error) {
			return []models.PlanetPosition{{Name: bodies[0], Longitude: 75}}, nil
		},
		vertexFn: func(float64, float64, float64) (float64, error) {
			return 312.5, nil
		},
	}
	calc := NewAdvancedPointsCalculator(engine, testLogger(t))

	pts := calc.Compute(context.Background(), AdvancedPointsParams{
		JulianDay: 2449757.7,
		Ascendant: 100,
		SunLon:    50,
		MoonLon:   200,
	})

	if pts.Chiron == nil || pts.Chiron.Sign != "Gemini" {
		t.Fatalf("Chiron = %+v, want Gemini placement", pts.Chiron)
	}
	if pts.Vertex == nil || pts.Vertex.Longitude != 312.5 {
		t.Fatalf("Vertex = %+v, want 312.5", pts.Vertex)
	}
}
