package tzlookup

import (
	"fmt"
	"math"
	"time"

	domsvc "DestinyMap/internal/domain/service"
)

// Locator resolves an IANA timezone name from coordinates without any
// network dependency: a coarse bounding-box table for populated regions,
// then a longitude-derived Etc/GMT zone. Callers treat a failure as a
// signal to use their configured fallback zone.
type Locator struct{}

func New() *Locator { return &Locator{} }

type region struct {
	name           string
	minLat, maxLat float64
	minLon, maxLon float64
}

// Boxes are deliberately rough; ~11m cache-key precision does not need
// surveyed borders, only a stable plausible zone.
var regions = []region{
	{"Asia/Seoul", 33, 39, 124, 132},
	{"Asia/Tokyo", 30, 46, 129, 146},
	{"Asia/Shanghai", 18, 54, 97, 125},
	{"Asia/Kolkata", 6, 36, 68, 97},
	{"Asia/Bangkok", 5, 21, 97, 106},
	{"Europe/London", 49, 61, -8, 2},
	{"Europe/Paris", 42, 51, -5, 8},
	{"Europe/Berlin", 47, 55, 5, 15},
	{"Europe/Moscow", 54, 68, 30, 40},
	{"America/New_York", 24, 47, -82, -67},
	{"America/Chicago", 25, 49, -97, -82},
	{"America/Denver", 31, 49, -111, -102},
	{"America/Los_Angeles", 32, 49, -125, -114},
	{"America/Sao_Paulo", -34, -19, -53, -40},
	{"Africa/Lagos", 4, 14, 2, 15},
	{"Africa/Cairo", 22, 32, 24, 37},
	{"Australia/Sydney", -39, -28, 140, 154},
}

func (l *Locator) Locate(latitude, longitude float64) (string, error) {
	if math.IsNaN(latitude) || math.IsInf(latitude, 0) || latitude < -90 || latitude > 90 {
		return "", fmt.Errorf("latitude out of range: %v", latitude)
	}
	if math.IsNaN(longitude) || math.IsInf(longitude, 0) || longitude < -180 || longitude > 180 {
		return "", fmt.Errorf("longitude out of range: %v", longitude)
	}

	for _, r := range regions {
		if latitude >= r.minLat && latitude <= r.maxLat && longitude >= r.minLon && longitude <= r.maxLon {
			return r.name, nil
		}
	}

	// Etc/GMT zones carry the inverted POSIX sign.
	offset := int(math.Round(longitude / 15))
	var name string
	switch {
	case offset == 0:
		name = "Etc/GMT"
	case offset > 0:
		name = fmt.Sprintf("Etc/GMT-%d", offset)
	default:
		name = fmt.Sprintf("Etc/GMT+%d", -offset)
	}
	if _, err := time.LoadLocation(name); err != nil {
		return "", fmt.Errorf("load %s: %w", name, err)
	}
	return name, nil
}

var _ domsvc.TimezoneLocator = (*Locator)(nil)
