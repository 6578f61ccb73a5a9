package usecase

import (
	"fmt"
	"strings"

	"DestinyMap/internal/domain/models"
	"DestinyMap/internal/services/chart"
)

// buildSummary assembles the short natural-language summary from whatever
// sections made it into the aggregate.
func buildSummary(m *models.DestinyMap) string {
	if m.Natal == nil {
		return "Chart computation was incomplete; no natal baseline is available."
	}

	var parts []string

	if sun := m.Natal.Planet("Sun"); sun != nil {
		parts = append(parts, fmt.Sprintf("Sun in %s", chart.SignFor(sun.Longitude)))
	}
	if moon := m.Natal.Planet("Moon"); moon != nil {
		parts = append(parts, fmt.Sprintf("Moon in %s", chart.SignFor(moon.Longitude)))
	}
	parts = append(parts, fmt.Sprintf("%s rising", chart.SignFor(m.Natal.Ascendant)))

	if el := chart.DominantElement(m.Natal.Planets); el != "" {
		parts = append(parts, fmt.Sprintf("dominant element %s", el))
	}
	if m.Saju != nil && m.Saju.DayMaster != "" {
		parts = append(parts, fmt.Sprintf("day master %s", m.Saju.DayMaster))
	}

	s := strings.Join(parts, ", ") + "."
	if len(m.Errors) > 0 {
		s += fmt.Sprintf(" %d section(s) could not be calculated.", len(m.Errors))
	}
	return s
}
