package chart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"DestinyMap/internal/domain/models"
	domsvc "DestinyMap/internal/domain/service"
)

func TestNatalCompute(t *testing.T) {
	engine := &fakeEngine{
		chartFn: func(p domsvc.ChartParams) (*domsvc.Chart, error) {
			if p.HouseSystem != "placidus" {
				t.Fatalf("house system = %q, want default placidus", p.HouseSystem)
			}
			return fakeWheel(2449757.7), nil
		},
	}
	calc := NewNatalCalculator(engine, "")

	natal, err := calc.Compute(context.Background(), domsvc.ChartParams{
		Year: 1995, Month: 2, Day: 9, Hour: 6, Minute: 40,
		Latitude: 37.5665, Longitude: 126.978, Timezone: "Asia/Seoul",
	})
	if err != nil {
		t.Fatalf("natal: %v", err)
	}

	if natal.Meta.JulianDay != 2449757.7 {
		t.Fatalf("julian day = %v", natal.Meta.JulianDay)
	}
	if len(natal.Houses) != 12 {
		t.Fatalf("houses = %d, want 12", len(natal.Houses))
	}

	suns := 0
	for _, p := range natal.Planets {
		if p.Name == "Sun" {
			suns++
			if p.Sign != "Aquarius" {
				t.Fatalf("Sun sign = %q, want Aquarius", p.Sign)
			}
			if p.House == 0 {
				t.Fatalf("Sun house unassigned")
			}
		}
	}
	if suns != 1 {
		t.Fatalf("Sun placements = %d, want exactly one", suns)
	}
}

func TestNatalComputeBadWheel(t *testing.T) {
	engine := &fakeEngine{
		chartFn: func(p domsvc.ChartParams) (*domsvc.Chart, error) {
			wheel := fakeWheel(2449757.7)
			wheel.Houses = wheel.Houses[:11]
			return wheel, nil
		},
	}
	calc := NewNatalCalculator(engine, "placidus")

	_, err := calc.Compute(context.Background(), domsvc.ChartParams{Year: 1995, Month: 2, Day: 9})
	var calcErr *models.CalculationError
	if !errors.As(err, &calcErr) || calcErr.Module != "natal" {
		t.Fatalf("error = %v, want natal CalculationError", err)
	}
}

func TestNatalComputeEngineFailure(t *testing.T) {
	engine := &fakeEngine{
		chartFn: func(p domsvc.ChartParams) (*domsvc.Chart, error) {
			return nil, fmt.Errorf("date out of supported range")
		},
	}
	calc := NewNatalCalculator(engine, "placidus")

	if _, err := calc.Compute(context.Background(), domsvc.ChartParams{Year: -5000}); err == nil {
		t.Fatalf("expected hard failure from the engine")
	}
}
