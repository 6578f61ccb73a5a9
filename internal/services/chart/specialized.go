package chart

import (
	"context"
	"fmt"
	"math"
	"sync"

	"DestinyMap/internal/domain/models"
)

// SpecializedChartsCalculator derives the soul chart and the harmonic
// charts, both pure transforms of the natal baseline.
type SpecializedChartsCalculator struct{}

func NewSpecializedChartsCalculator() *SpecializedChartsCalculator {
	return &SpecializedChartsCalculator{}
}

// SoulChart rotates the wheel so the natal North Node sits at 0 Aries, then
// compares sign placement against the natal chart body by body.
func (c *SpecializedChartsCalculator) SoulChart(ctx context.Context, natal *models.NatalBaseline) (*models.SoulChart, error) {
	node := natal.Planet("North Node")
	if node == nil {
		return nil, models.NewCalculationError("soul_chart", fmt.Errorf("natal North Node missing"))
	}

	offset := NormalizeDegrees(-node.Longitude)
	planets := make([]models.PlanetPosition, len(natal.Planets))
	copy(planets, natal.Planets)
	comparison := make([]models.SignComparison, 0, len(planets))
	for i := range planets {
		planets[i].Longitude = NormalizeDegrees(planets[i].Longitude + offset)
		planets[i].Sign = SignFor(planets[i].Longitude)
		planets[i].House = HouseFor(planets[i].Longitude, natal.Houses)

		natalSign := SignFor(natal.Planets[i].Longitude)
		comparison = append(comparison, models.SignComparison{
			Body:      planets[i].Name,
			NatalSign: natalSign,
			SoulSign:  planets[i].Sign,
			Aligned:   natalSign == planets[i].Sign,
		})
	}

	return &models.SoulChart{
		Offset:     offset,
		Planets:    planets,
		Comparison: comparison,
	}, nil
}

// HarmonicCharts multiplies every natal longitude by harmonics 5, 7 and 9,
// and scores the relative strength of each harmonic for the subject's age.
func (c *SpecializedChartsCalculator) HarmonicCharts(ctx context.Context, natal *models.NatalBaseline, currentAge float64) (*models.HarmonicCharts, error) {
	if len(natal.Planets) == 0 {
		return nil, models.NewCalculationError("harmonics", fmt.Errorf("natal chart has no placements"))
	}

	out := &models.HarmonicCharts{}
	strengths := make(map[int]float64, 3)
	dominant, best := 0, -1.0
	for _, h := range []int{5, 7, 9} {
		chart := harmonicChart(natal.Planets, h)
		switch h {
		case 5:
			out.H5 = chart
		case 7:
			out.H7 = chart
		case 9:
			out.H9 = chart
		}
		s := harmonicStrength(chart.Planets, h, currentAge)
		strengths[h] = s
		if s > best {
			dominant, best = h, s
		}
	}
	out.Profile = &models.HarmonicProfile{Dominant: dominant, Strengths: strengths}
	return out, nil
}

func harmonicChart(planets []models.PlanetPosition, h int) *models.HarmonicChart {
	out := make([]models.PlanetPosition, len(planets))
	copy(out, planets)
	for i := range out {
		out[i].Longitude = NormalizeDegrees(out[i].Longitude * float64(h))
		out[i].Sign = SignFor(out[i].Longitude)
		out[i].House = 0
	}
	return &models.HarmonicChart{Harmonic: h, Planets: out}
}

// harmonicStrength blends the harmonic chart's conjunction density with how
// close the subject's age is to a multiple of the harmonic number.
func harmonicStrength(planets []models.PlanetPosition, h int, age float64) float64 {
	conj := 0
	pairs := 0
	for i := 0; i < len(planets); i++ {
		for j := i + 1; j < len(planets); j++ {
			pairs++
			if AngularSeparation(planets[i].Longitude, planets[j].Longitude) <= 6 {
				conj++
			}
		}
	}
	density := 0.0
	if pairs > 0 {
		density = float64(conj) / float64(pairs)
	}

	if age < 0 {
		age = 0
	}
	m := math.Mod(age, float64(h))
	if m > float64(h)/2 {
		m = float64(h) - m
	}
	resonance := 1 - m/(float64(h)/2)

	return density + resonance
}

// ComputeAll runs both transforms concurrently. Either pointer may come back
// nil with its failure noted in the error map.
func (c *SpecializedChartsCalculator) ComputeAll(ctx context.Context, natal *models.NatalBaseline, currentAge float64) (*models.SoulChart, *models.HarmonicCharts, map[string]string) {
	var (
		wg        sync.WaitGroup
		soul      *models.SoulChart
		harmonics *models.HarmonicCharts
		soulErr   error
		harmErr   error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		soul, soulErr = c.SoulChart(ctx, natal)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		harmonics, harmErr = c.HarmonicCharts(ctx, natal, currentAge)
	}()
	wg.Wait()

	errs := map[string]string{}
	if soulErr != nil {
		errs["soul_chart"] = soulErr.Error()
	}
	if harmErr != nil {
		errs["harmonics"] = harmErr.Error()
	}
	if len(errs) == 0 {
		errs = nil
	}
	return soul, harmonics, errs
}
