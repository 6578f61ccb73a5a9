package chart

import (
	"context"
	"fmt"
	"testing"
	"time"

	"DestinyMap/internal/domain/models"
	domsvc "DestinyMap/internal/domain/service"
)

func TestAsteroidsAbsentWithoutTimeBasis(t *testing.T) {
	calc := NewAsteroidsStarsCalculator(&fakeEngine{}, testLogger(t))

	if got := calc.Asteroids(context.Background(), 0, nil, nil); got != nil {
		t.Fatalf("expected absent result without a time basis, got %+v", got)
	}
}

func TestAsteroidsAbsentOnFailure(t *testing.T) {
	engine := &fakeEngine{
		bodiesFn: func(float64, []string) ([]models.PlanetPosition, error) {
			return nil, fmt.Errorf("ephemeris down")
		},
	}
	calc := NewAsteroidsStarsCalculator(engine, testLogger(t))

	if got := calc.Asteroids(context.Background(), 2449757.7, nil, nil); got != nil {
		t.Fatalf("expected absent result on engine failure, got %+v", got)
	}
}

func TestAsteroidsWithAspects(t *testing.T) {
	natal := testNatal()
	engine := &fakeEngine{
		bodiesFn: func(_ float64, bodies []string) ([]models.PlanetPosition, error) {
			out := make([]models.PlanetPosition, len(bodies))
			for i, b := range bodies {
				out[i] = models.PlanetPosition{Name: b, Longitude: 50 + float64(i)*40}
			}
			return out, nil
		},
	}
	calc := NewAsteroidsStarsCalculator(engine, testLogger(t))

	res := calc.Asteroids(context.Background(), natal.Meta.JulianDay, natal.Houses, natal.Planets)
	if res == nil {
		t.Fatalf("expected asteroid positions")
	}
	if len(res.Positions) != 4 {
		t.Fatalf("positions = %d, want 4", len(res.Positions))
	}
	// Ceres at 50 conjunct natal Sun at 50
	var found bool
	for _, a := range res.Aspects {
		if a.Body1 == "Ceres" && a.Body2 == "Sun" && a.Type == "conjunction" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing Ceres-Sun conjunction in %+v", res.Aspects)
	}
}

func TestFixedStarConjunctions(t *testing.T) {
	engine := &fakeEngine{
		starsFn: func() ([]domsvc.StarPosition, error) {
			return []domsvc.StarPosition{
				{Name: "Regulus", Longitude: 50.8}, // within 1.5 of natal Sun
				{Name: "Spica", Longitude: 150},    // no natal body nearby
			}, nil
		},
	}
	calc := NewAsteroidsStarsCalculator(engine, testLogger(t))

	conj := calc.FixedStarConjunctions(context.Background(), testNatal())
	if len(conj) != 1 {
		t.Fatalf("conjunctions = %+v, want exactly Regulus-Sun", conj)
	}
	if conj[0].Star != "Regulus" || conj[0].Body != "Sun" {
		t.Fatalf("conjunction = %+v", conj[0])
	}
}

func TestFixedStarConjunctionsEmptyOnFailure(t *testing.T) {
	engine := &fakeEngine{
		starsFn: func() ([]domsvc.StarPosition, error) {
			return nil, fmt.Errorf("catalog unavailable")
		},
	}
	calc := NewAsteroidsStarsCalculator(engine, testLogger(t))

	conj := calc.FixedStarConjunctions(context.Background(), testNatal())
	if conj == nil || len(conj) != 0 {
		t.Fatalf("expected empty list, got %v", conj)
	}
}

func TestEclipseAnalysisFirstImpactOnly(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	engine := &fakeEngine{
		eclipsesFn: func(from, to time.Time) ([]models.Eclipse, error) {
			if to.Equal(now) { // the recent window
				return []models.Eclipse{
					{Kind: "solar", Date: now.AddDate(0, -2, 0), Longitude: 51}, // hits natal Sun
					{Kind: "lunar", Date: now.AddDate(0, -1, 0), Longitude: 201}, // would hit Moon
				}, nil
			}
			return []models.Eclipse{
				{Kind: "solar", Date: now.AddDate(0, 3, 0), Longitude: 10},
				{Kind: "lunar", Date: now.AddDate(0, 9, 0), Longitude: 190},
				{Kind: "solar", Date: now.AddDate(1, 2, 0), Longitude: 200},
			}, nil
		},
	}
	calc := NewAsteroidsStarsCalculator(engine, testLogger(t))
	calc.now = func() time.Time { return now }

	res := calc.EclipseAnalysis(context.Background(), testNatal(), 2)
	if res.Impact == nil {
		t.Fatalf("expected an eclipse impact")
	}
	if res.Impact.NatalBody != "Sun" {
		t.Fatalf("first matching impact should be the Sun hit, got %+v", res.Impact)
	}
	if len(res.Upcoming) != 2 {
		t.Fatalf("upcoming = %d, want trimmed to 2", len(res.Upcoming))
	}
}

func TestAsteroidsStarsComputeAll(t *testing.T) {
	engine := &fakeEngine{
		bodiesFn: func(_ float64, bodies []string) ([]models.PlanetPosition, error) {
			out := make([]models.PlanetPosition, len(bodies))
			for i, b := range bodies {
				out[i] = models.PlanetPosition{Name: b, Longitude: float64(i) * 17}
			}
			return out, nil
		},
		starsFn: func() ([]domsvc.StarPosition, error) {
			return nil, fmt.Errorf("catalog unavailable")
		},
		eclipsesFn: func(from, to time.Time) ([]models.Eclipse, error) {
			return []models.Eclipse{}, nil
		},
	}
	calc := NewAsteroidsStarsCalculator(engine, testLogger(t))

	asteroids, stars, eclipses := calc.ComputeAll(context.Background(), testNatal(), 3)
	if asteroids == nil {
		t.Fatalf("asteroids missing")
	}
	if stars == nil || len(stars) != 0 {
		t.Fatalf("stars should degrade to an empty list, got %v", stars)
	}
	if eclipses == nil {
		t.Fatalf("eclipse analysis missing")
	}
}
