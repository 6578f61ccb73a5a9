package chart

import (
	"testing"

	"DestinyMap/internal/domain/models"
)

func TestNormalizeDegrees(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{360, 0},
		{365, 5},
		{-50, 310},
		{-360, 0},
		{725, 5},
	}
	for _, c := range cases {
		if got := NormalizeDegrees(c.in); got != c.want {
			t.Errorf("NormalizeDegrees(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAngularSeparation(t *testing.T) {
	if got := AngularSeparation(10, 350); got != 20 {
		t.Fatalf("wrap-around separation = %v, want 20", got)
	}
	if got := AngularSeparation(0, 180); got != 180 {
		t.Fatalf("opposition separation = %v, want 180", got)
	}
}

func TestSignFor(t *testing.T) {
	cases := []struct {
		lon  float64
		want string
	}{
		{0, "Aries"},
		{29.99, "Aries"},
		{30, "Taurus"},
		{200, "Libra"},
		{359.9, "Pisces"},
	}
	for _, c := range cases {
		if got := SignFor(c.lon); got != c.want {
			t.Errorf("SignFor(%v) = %q, want %q", c.lon, got, c.want)
		}
	}
}

func TestHouseFor(t *testing.T) {
	cusps := make([]models.HouseCusp, 12)
	for i := range cusps {
		cusps[i] = models.HouseCusp{House: i + 1, Longitude: NormalizeDegrees(float64(i*30) + 15)}
	}

	if got := HouseFor(20, cusps); got != 1 {
		t.Fatalf("HouseFor(20) = %d, want 1", got)
	}
	// span of house 12 crosses 0 Aries (345..15)
	if got := HouseFor(5, cusps); got != 12 {
		t.Fatalf("HouseFor(5) = %d, want 12", got)
	}
	if got := HouseFor(100, nil); got != 0 {
		t.Fatalf("HouseFor without cusps = %d, want 0", got)
	}
}

func TestIsNightChart(t *testing.T) {
	if !IsNightChart(3) {
		t.Fatalf("house 3 should be below the horizon")
	}
	if IsNightChart(10) {
		t.Fatalf("house 10 should be above the horizon")
	}
}

func TestAspectsWithin(t *testing.T) {
	planets := []models.PlanetPosition{
		{Name: "Sun", Longitude: 10},
		{Name: "Moon", Longitude: 100}, // square to Sun, orb 0
		{Name: "Mars", Longitude: 45},  // no major aspect to Sun
	}
	aspects := AspectsWithin(planets)

	var found bool
	for _, a := range aspects {
		if a.Body1 == "Sun" && a.Body2 == "Moon" {
			found = true
			if a.Type != "square" || a.Orb != 0 {
				t.Fatalf("Sun-Moon aspect = %+v, want exact square", a)
			}
		}
		if a.Body1 == "Sun" && a.Body2 == "Mars" {
			t.Fatalf("unexpected Sun-Mars aspect: %+v", a)
		}
	}
	if !found {
		t.Fatalf("missing Sun-Moon square in %+v", aspects)
	}
}

func TestMoonPhaseLabel(t *testing.T) {
	cases := []struct {
		sun, moon float64
		want      string
	}{
		{0, 10, "new"},
		{0, 180, "full"},
		{100, 10, "last quarter"}, // phase 270
		{0, 350, "balsamic"},
	}
	for _, c := range cases {
		if got := MoonPhaseLabel(c.sun, c.moon); got != c.want {
			t.Errorf("MoonPhaseLabel(%v, %v) = %q, want %q", c.sun, c.moon, got, c.want)
		}
	}
}

func TestDominantElement(t *testing.T) {
	planets := []models.PlanetPosition{
		{Name: "Sun", Longitude: 5},    // Aries, fire
		{Name: "Mars", Longitude: 125}, // Leo, fire
		{Name: "Moon", Longitude: 95},  // Cancer, water
	}
	if got := DominantElement(planets); got != "fire" {
		t.Fatalf("DominantElement = %q, want fire", got)
	}
}
