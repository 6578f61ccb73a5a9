package chart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"DestinyMap/internal/domain/models"
	domsvc "DestinyMap/internal/domain/service"
)

func fakeWheel(jd float64) *domsvc.Chart {
	cusps := make([]models.HouseCusp, 12)
	for i := range cusps {
		cusps[i] = models.HouseCusp{House: i + 1, Longitude: float64(i * 30)}
	}
	return &domsvc.Chart{
		JulianDay: jd,
		Planets: []models.PlanetPosition{
			{Name: "Sun", Longitude: 320.5},
			{Name: "Moon", Longitude: 15},
		},
		Houses:    cusps,
		Ascendant: 95,
		Midheaven: 5,
	}
}

func TestSolarReturn(t *testing.T) {
	const returnJD = 2460720.25
	engine := &fakeEngine{
		solarFn: func(natalJD, sunLon float64, year int) (float64, error) {
			if sunLon != 50 {
				t.Fatalf("solar return got sun longitude %v, want natal 50", sunLon)
			}
			if year != 2026 {
				t.Fatalf("solar return got year %d", year)
			}
			return returnJD, nil
		},
		chartAtFn: func(jd, lat, lon float64, hs string) (*domsvc.Chart, error) {
			if jd != returnJD {
				t.Fatalf("chart requested at jd %v, want %v", jd, returnJD)
			}
			return fakeWheel(jd), nil
		},
	}
	calc := NewReturnsProgressionsCalculator(engine)

	rc, err := calc.SolarReturn(context.Background(), testNatal(), 37.5665, 126.978, 2026)
	if err != nil {
		t.Fatalf("solar return: %v", err)
	}
	if rc.Kind != "solar" || rc.Year != 2026 {
		t.Fatalf("chart meta = %+v", rc)
	}
	if len(rc.Houses) != 12 {
		t.Fatalf("houses = %d, want 12", len(rc.Houses))
	}
	if rc.Planets[0].Sign != "Aquarius" {
		t.Fatalf("return Sun sign = %q, want Aquarius", rc.Planets[0].Sign)
	}
}

func TestLunarReturnFailsWhole(t *testing.T) {
	engine := &fakeEngine{
		lunarFn: func(float64, float64, int, int) (float64, error) {
			return 0, fmt.Errorf("no convergence")
		},
	}
	calc := NewReturnsProgressionsCalculator(engine)

	_, err := calc.LunarReturn(context.Background(), testNatal(), 37.5665, 126.978, 2026, 8)
	if err == nil {
		t.Fatalf("expected lunar return failure to propagate")
	}
	var calcErr *models.CalculationError
	if !errors.As(err, &calcErr) || calcErr.Module != "lunar_return" {
		t.Fatalf("error = %v, want lunar_return CalculationError", err)
	}
}

func TestJulianDayRoundTrip(t *testing.T) {
	// JD 2440587.5 is the Unix epoch.
	got := JulianDayToTime(2440587.5)
	if !got.Equal(time.Unix(0, 0)) {
		t.Fatalf("epoch conversion = %v", got)
	}
	oneDay := JulianDayToTime(2440588.5)
	if oneDay.Sub(got) != 24*time.Hour {
		t.Fatalf("one JD should advance 24h, got %v", oneDay.Sub(got))
	}
}

func TestSecondaryProgressions(t *testing.T) {
	natal := testNatal()
	birth := JulianDayToTime(natal.Meta.JulianDay)
	target := birth.AddDate(10, 0, 0)

	var gotJD float64
	engine := &fakeEngine{
		bodiesFn: func(jd float64, bodies []string) ([]models.PlanetPosition, error) {
			gotJD = jd
			return []models.PlanetPosition{
				{Name: "Sun", Longitude: 100},
				{Name: "Moon", Longitude: 280},
			}, nil
		},
	}
	calc := NewReturnsProgressionsCalculator(engine)

	pc, err := calc.SecondaryProgressions(context.Background(), natal, target)
	if err != nil {
		t.Fatalf("secondary progressions: %v", err)
	}
	// day-for-a-year: ten years of life move the basis about ten days
	if math.Abs(gotJD-(natal.Meta.JulianDay+10)) > 0.05 {
		t.Fatalf("progressed jd = %v, want about %v", gotJD, natal.Meta.JulianDay+10)
	}
	if pc.Method != "secondary" {
		t.Fatalf("method = %q", pc.Method)
	}
	if pc.MoonPhase != "full" {
		t.Fatalf("moon phase = %q, want full", pc.MoonPhase)
	}
}

func TestSolarArcDirections(t *testing.T) {
	natal := testNatal()
	target := JulianDayToTime(natal.Meta.JulianDay).AddDate(30, 0, 0)

	engine := &fakeEngine{
		bodiesFn: func(jd float64, bodies []string) ([]models.PlanetPosition, error) {
			if len(bodies) != 1 || bodies[0] != "Sun" {
				t.Fatalf("solar arc should only request the Sun, got %v", bodies)
			}
			return []models.PlanetPosition{{Name: "Sun", Longitude: 80}}, nil
		},
	}
	calc := NewReturnsProgressionsCalculator(engine)

	pc, err := calc.SolarArcDirections(context.Background(), natal, target)
	if err != nil {
		t.Fatalf("solar arc: %v", err)
	}
	if pc.Arc != 30 {
		t.Fatalf("arc = %v, want 30", pc.Arc)
	}
	for i, p := range pc.Planets {
		want := NormalizeDegrees(natal.Planets[i].Longitude + 30)
		if p.Longitude != want {
			t.Fatalf("%s shifted to %v, want %v", p.Name, p.Longitude, want)
		}
	}
}

func TestAllProgressionsSkipsSolarArc(t *testing.T) {
	natal := testNatal()
	engine := &fakeEngine{
		bodiesFn: func(jd float64, bodies []string) ([]models.PlanetPosition, error) {
			return []models.PlanetPosition{{Name: "Sun", Longitude: 60}}, nil
		},
	}
	calc := NewReturnsProgressionsCalculator(engine)

	prog, err := calc.AllProgressions(context.Background(), natal, time.Now(), false)
	if err != nil {
		t.Fatalf("all progressions: %v", err)
	}
	if prog.Secondary == nil {
		t.Fatalf("secondary missing")
	}
	if prog.SolarArc != nil {
		t.Fatalf("solar arc should be skipped when not requested")
	}
}
