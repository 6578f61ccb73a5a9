package chart

import (
	"math"

	"DestinyMap/internal/domain/models"
)

var signNames = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

var signElements = map[string]string{
	"Aries": "fire", "Leo": "fire", "Sagittarius": "fire",
	"Taurus": "earth", "Virgo": "earth", "Capricorn": "earth",
	"Gemini": "air", "Libra": "air", "Aquarius": "air",
	"Cancer": "water", "Scorpio": "water", "Pisces": "water",
}

type aspectDef struct {
	name  string
	angle float64
	orb   float64
}

var aspectDefs = []aspectDef{
	{"conjunction", 0, 8},
	{"sextile", 60, 6},
	{"square", 90, 8},
	{"trine", 120, 8},
	{"opposition", 180, 8},
}

// NormalizeDegrees maps d into [0,360).
func NormalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// AngularSeparation returns the shortest angular distance between two
// longitudes, in [0,180].
func AngularSeparation(a, b float64) float64 {
	d := math.Abs(NormalizeDegrees(a) - NormalizeDegrees(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// SignFor returns the zodiac sign containing the given longitude.
func SignFor(lon float64) string {
	return signNames[int(NormalizeDegrees(lon)/30)%12]
}

// ElementFor returns the classical element of a sign, or "" for unknown.
func ElementFor(sign string) string {
	return signElements[sign]
}

// DominantElement returns the most frequent element among the placements.
func DominantElement(planets []models.PlanetPosition) string {
	counts := map[string]int{}
	for _, p := range planets {
		if e := ElementFor(SignFor(p.Longitude)); e != "" {
			counts[e]++
		}
	}
	best, n := "", 0
	for _, e := range []string{"fire", "earth", "air", "water"} {
		if counts[e] > n {
			best, n = e, counts[e]
		}
	}
	return best
}

// HouseFor returns the house (1..12) whose cusp span contains lon, or 0 when
// no 12-cusp wheel is available.
func HouseFor(lon float64, cusps []models.HouseCusp) int {
	if len(cusps) != 12 {
		return 0
	}
	lon = NormalizeDegrees(lon)
	for i := 0; i < 12; i++ {
		lo := NormalizeDegrees(cusps[i].Longitude)
		hi := NormalizeDegrees(cusps[(i+1)%12].Longitude)
		if lo <= hi {
			if lon >= lo && lon < hi {
				return cusps[i].House
			}
		} else { // span crosses 0 Aries
			if lon >= lo || lon < hi {
				return cusps[i].House
			}
		}
	}
	return cusps[11].House
}

// IsNightChart reports whether a Sun in the given house is below the
// horizon. Houses 1..6 sit below, 7..12 above. The house-index method is
// used rather than the ascendant/descendant axis; the two can disagree for
// placements right on the horizon under some house systems.
func IsNightChart(sunHouse int) bool {
	return sunHouse >= 1 && sunHouse <= 6
}

func detectAspect(lon1, lon2 float64) (models.Aspect, bool) {
	sep := AngularSeparation(lon1, lon2)
	for _, def := range aspectDefs {
		orb := math.Abs(sep - def.angle)
		if orb <= def.orb {
			return models.Aspect{Type: def.name, Angle: def.angle, Orb: orb}, true
		}
	}
	return models.Aspect{}, false
}

// AspectsWithin finds aspects between every unordered pair of placements.
func AspectsWithin(planets []models.PlanetPosition) []models.Aspect {
	var out []models.Aspect
	for i := 0; i < len(planets); i++ {
		for j := i + 1; j < len(planets); j++ {
			if a, ok := detectAspect(planets[i].Longitude, planets[j].Longitude); ok {
				a.Body1 = planets[i].Name
				a.Body2 = planets[j].Name
				out = append(out, a)
			}
		}
	}
	return out
}

// AspectsBetween finds aspects from each of bodies to each of others.
func AspectsBetween(bodies, others []models.PlanetPosition) []models.Aspect {
	var out []models.Aspect
	for i := range bodies {
		for j := range others {
			if a, ok := detectAspect(bodies[i].Longitude, others[j].Longitude); ok {
				a.Body1 = bodies[i].Name
				a.Body2 = others[j].Name
				out = append(out, a)
			}
		}
	}
	return out
}

// MoonPhaseLabel names the lunar phase from Sun and Moon longitudes.
func MoonPhaseLabel(sunLon, moonLon float64) string {
	phase := NormalizeDegrees(moonLon - sunLon)
	switch {
	case phase < 45:
		return "new"
	case phase < 90:
		return "crescent"
	case phase < 135:
		return "first quarter"
	case phase < 180:
		return "gibbous"
	case phase < 225:
		return "full"
	case phase < 270:
		return "disseminating"
	case phase < 315:
		return "last quarter"
	default:
		return "balsamic"
	}
}

// shapePlanets fills in sign and house for raw engine placements.
func shapePlanets(planets []models.PlanetPosition, cusps []models.HouseCusp) []models.PlanetPosition {
	out := make([]models.PlanetPosition, len(planets))
	copy(out, planets)
	for i := range out {
		out[i].Sign = SignFor(out[i].Longitude)
		out[i].House = HouseFor(out[i].Longitude, cusps)
	}
	return out
}

// shapeCusps fills in signs on house cusps.
func shapeCusps(cusps []models.HouseCusp) []models.HouseCusp {
	out := make([]models.HouseCusp, len(cusps))
	copy(out, cusps)
	for i := range out {
		out[i].Sign = SignFor(out[i].Longitude)
	}
	return out
}
