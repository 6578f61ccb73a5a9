package tzlookup

import (
	"math"
	"testing"
)

func TestLocateKnownRegions(t *testing.T) {
	l := New()

	cases := []struct {
		lat, lon float64
		want     string
	}{
		{37.5665, 126.978, "Asia/Seoul"},
		{51.5072, -0.1276, "Europe/London"},
		{40.7128, -74.006, "America/New_York"},
		{-33.8688, 151.2093, "Australia/Sydney"},
	}
	for _, c := range cases {
		got, err := l.Locate(c.lat, c.lon)
		if err != nil {
			t.Fatalf("Locate(%v, %v): %v", c.lat, c.lon, err)
		}
		if got != c.want {
			t.Errorf("Locate(%v, %v) = %q, want %q", c.lat, c.lon, got, c.want)
		}
	}
}

func TestLocateOpenOcean(t *testing.T) {
	l := New()

	got, err := l.Locate(0, 45) // Indian Ocean, UTC+3
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != "Etc/GMT-3" {
		t.Fatalf("got %q, want Etc/GMT-3", got)
	}

	got, err = l.Locate(0, -45)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != "Etc/GMT+3" {
		t.Fatalf("got %q, want Etc/GMT+3", got)
	}
}

func TestLocateRejectsBadCoordinates(t *testing.T) {
	l := New()

	if _, err := l.Locate(91, 0); err == nil {
		t.Fatalf("latitude 91 should fail")
	}
	if _, err := l.Locate(0, 200); err == nil {
		t.Fatalf("longitude 200 should fail")
	}
	if _, err := l.Locate(math.NaN(), 0); err == nil {
		t.Fatalf("NaN latitude should fail")
	}
}
