package usecase

import (
	"fmt"

	"DestinyMap/internal/domain/models"
)

// BuildCacheKey derives a deterministic cache key from normalized birth
// parameters. Coordinates are rounded to 4 decimals (about 11m) to trade
// precision for hit rate. The display name never enters the key, so the
// in-memory key space holds no identity.
func BuildCacheKey(in models.BirthInput) string {
	return fmt.Sprintf("map:%s:%s:%.4f:%.4f:%s:%s",
		in.BirthDate, in.BirthTime, in.Latitude, in.Longitude, in.Gender, in.Timezone)
}
