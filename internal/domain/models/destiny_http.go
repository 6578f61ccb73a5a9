package models

// Requests for destiny HTTP endpoints. Defined in domain for consistency and reuse.

type DestinyRequest struct {
	Name           string  `json:"name" query:"name"`
	BirthDate      string  `json:"birth_date" query:"birth_date" validate:"required"`
	BirthTime      string  `json:"birth_time" query:"birth_time" validate:"required"`
	Latitude       float64 `json:"latitude" query:"latitude" validate:"gte=-90,lte=90"`
	Longitude      float64 `json:"longitude" query:"longitude" validate:"gte=-180,lte=180"`
	Gender         string  `json:"gender" query:"gender" default:"unknown" validate:"oneof=male female unknown"`
	Timezone       string  `json:"timezone" query:"timezone"`
	ViewerTimezone string  `json:"viewer_timezone" query:"viewer_timezone"`
}

// ToBirthInput converts the transport request to the domain input.
func (r *DestinyRequest) ToBirthInput() BirthInput {
	return BirthInput{
		Name:           r.Name,
		BirthDate:      r.BirthDate,
		BirthTime:      r.BirthTime,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		Gender:         r.Gender,
		Timezone:       r.Timezone,
		ViewerTimezone: r.ViewerTimezone,
	}
}

type AuditRequest struct {
	From  string `query:"from" json:"from"`
	To    string `query:"to" json:"to"`
	Limit int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}
