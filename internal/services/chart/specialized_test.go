package chart

import (
	"context"
	"testing"

	"DestinyMap/internal/domain/models"
)

func TestSoulChartRotation(t *testing.T) {
	calc := NewSpecializedChartsCalculator()
	natal := testNatal()

	soul, err := calc.SoulChart(context.Background(), natal)
	if err != nil {
		t.Fatalf("soul chart: %v", err)
	}

	wantOffset := NormalizeDegrees(-123.45)
	if soul.Offset != wantOffset {
		t.Fatalf("offset = %v, want %v", soul.Offset, wantOffset)
	}

	var node *models.PlanetPosition
	for i := range soul.Planets {
		if soul.Planets[i].Name == "North Node" {
			node = &soul.Planets[i]
		}
	}
	if node == nil {
		t.Fatalf("North Node missing from soul chart")
	}
	if node.Longitude > 1e-9 && node.Longitude < 360-1e-9 {
		t.Fatalf("North Node should sit at 0 Aries, got %v", node.Longitude)
	}

	if len(soul.Comparison) != len(natal.Planets) {
		t.Fatalf("comparison rows = %d, want %d", len(soul.Comparison), len(natal.Planets))
	}
	// natal chart untouched
	if natal.Planet("North Node").Longitude != 123.45 {
		t.Fatalf("natal baseline mutated")
	}
}

func TestSoulChartMissingNode(t *testing.T) {
	calc := NewSpecializedChartsCalculator()
	natal := testNatal()
	natal.Planets = natal.Planets[:2] // drop the node

	if _, err := calc.SoulChart(context.Background(), natal); err == nil {
		t.Fatalf("expected error without a natal North Node")
	}
}

func TestHarmonicCharts(t *testing.T) {
	calc := NewSpecializedChartsCalculator()
	natal := testNatal()
	natal.Planets = []models.PlanetPosition{{Name: "Sun", Longitude: 10}}

	hc, err := calc.HarmonicCharts(context.Background(), natal, 30)
	if err != nil {
		t.Fatalf("harmonics: %v", err)
	}

	if hc.H5 == nil || hc.H5.Planets[0].Longitude != 50 {
		t.Fatalf("h5 = %+v, want Sun at 50", hc.H5)
	}
	if hc.H7 == nil || hc.H7.Planets[0].Longitude != 70 {
		t.Fatalf("h7 = %+v, want Sun at 70", hc.H7)
	}
	if hc.H9 == nil || hc.H9.Planets[0].Longitude != 90 {
		t.Fatalf("h9 = %+v, want Sun at 90", hc.H9)
	}
	if hc.Profile == nil || len(hc.Profile.Strengths) != 3 {
		t.Fatalf("profile = %+v, want three scored harmonics", hc.Profile)
	}
	if d := hc.Profile.Dominant; d != 5 && d != 7 && d != 9 {
		t.Fatalf("dominant harmonic = %d", d)
	}
}

func TestHarmonicWrapAround(t *testing.T) {
	calc := NewSpecializedChartsCalculator()
	natal := testNatal()
	natal.Planets = []models.PlanetPosition{{Name: "Sun", Longitude: 100}}

	hc, err := calc.HarmonicCharts(context.Background(), natal, 0)
	if err != nil {
		t.Fatalf("harmonics: %v", err)
	}
	// 100 * 5 = 500 -> 140
	if got := hc.H5.Planets[0].Longitude; got != 140 {
		t.Fatalf("h5 longitude = %v, want 140", got)
	}
}

func TestSpecializedComputeAll(t *testing.T) {
	calc := NewSpecializedChartsCalculator()
	natal := testNatal()

	soul, harmonics, errs := calc.ComputeAll(context.Background(), natal, 30)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if soul == nil || harmonics == nil {
		t.Fatalf("expected both sections, got soul=%v harmonics=%v", soul, harmonics)
	}
}

func TestSpecializedComputeAllPartial(t *testing.T) {
	calc := NewSpecializedChartsCalculator()
	natal := testNatal()
	natal.Planets = natal.Planets[:2] // no node: soul fails, harmonics succeed

	soul, harmonics, errs := calc.ComputeAll(context.Background(), natal, 30)
	if soul != nil {
		t.Fatalf("soul chart should be absent")
	}
	if harmonics == nil {
		t.Fatalf("harmonics should survive the soul-chart failure")
	}
	if errs["soul_chart"] == "" {
		t.Fatalf("missing soul_chart error, got %v", errs)
	}
}
