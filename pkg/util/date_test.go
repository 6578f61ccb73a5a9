package util

import (
	"testing"
	"time"
)

func TestParseBirthDate(t *testing.T) {
	y, m, d, err := ParseBirthDate("1995-02-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if y != 1995 || m != 2 || d != 9 {
		t.Fatalf("unexpected date %d-%d-%d", y, m, d)
	}
}

func TestParseBirthDateDotted(t *testing.T) {
	y, m, d, err := ParseBirthDate("1988.11.30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if y != 1988 || m != 11 || d != 30 {
		t.Fatalf("unexpected date %d-%d-%d", y, m, d)
	}
}

func TestParseBirthDateInvalid(t *testing.T) {
	if _, _, _, err := ParseBirthDate("not-a-date"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseBirthTime(t *testing.T) {
	h, m, err := ParseBirthTime("06:40")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h != 6 || m != 40 {
		t.Fatalf("unexpected time %d:%d", h, m)
	}
}

func TestCivilToInstant(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	got := CivilToInstant(1995, 2, 9, 6, 40, loc)
	want := time.Date(1995, 2, 9, 6, 40, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("unexpected instant %v", got)
	}
	if got.UTC().Hour() != 21 {
		t.Fatalf("expected 21h UTC on the previous day, got %v", got.UTC())
	}
}

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}
