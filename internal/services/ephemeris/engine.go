package ephemeris

import (
	"context"
	"fmt"
	"time"

	"DestinyMap/internal/domain/models"
	domsvc "DestinyMap/internal/domain/service"
	"DestinyMap/pkg/config"
)

// HTTPEngine adapts the ephemeris sidecar's JSON API to the engine port.
// All astronomical truth comes from the sidecar; nothing is computed here.
type HTTPEngine struct{ base *serviceBase }

func NewHTTPEngine(cfg *config.Config) *HTTPEngine {
	return &HTTPEngine{base: newServiceBase(cfg)}
}

type chartRequest struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Day         int     `json:"day"`
	Hour        int     `json:"hour"`
	Minute      int     `json:"minute"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone"`
	HouseSystem string  `json:"house_system"`
}

type chartAtRequest struct {
	JulianDay   float64 `json:"julian_day"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	HouseSystem string  `json:"house_system"`
}

type chartResponse struct {
	JulianDay float64 `json:"julian_day"`
	Planets   []struct {
		Name       string  `json:"name"`
		Longitude  float64 `json:"longitude"`
		Latitude   float64 `json:"latitude"`
		Retrograde bool    `json:"retrograde"`
	} `json:"planets"`
	Houses []struct {
		House     int     `json:"house"`
		Longitude float64 `json:"longitude"`
	} `json:"houses"`
	Ascendant float64 `json:"ascendant"`
	Midheaven float64 `json:"midheaven"`
}

func (r *chartResponse) toChart() *domsvc.Chart {
	out := &domsvc.Chart{
		JulianDay: r.JulianDay,
		Ascendant: r.Ascendant,
		Midheaven: r.Midheaven,
	}
	for _, p := range r.Planets {
		out.Planets = append(out.Planets, models.PlanetPosition{
			Name:       p.Name,
			Longitude:  p.Longitude,
			Latitude:   p.Latitude,
			Retrograde: p.Retrograde,
		})
	}
	for _, h := range r.Houses {
		out.Houses = append(out.Houses, models.HouseCusp{House: h.House, Longitude: h.Longitude})
	}
	return out
}

func (e *HTTPEngine) ComputeChart(ctx context.Context, p domsvc.ChartParams) (*domsvc.Chart, error) {
	var resp chartResponse
	err := e.base.postJSONWithRetry(ctx, "/chart/compute", chartRequest{
		Year: p.Year, Month: p.Month, Day: p.Day, Hour: p.Hour, Minute: p.Minute,
		Latitude: p.Latitude, Longitude: p.Longitude,
		Timezone: p.Timezone, HouseSystem: p.HouseSystem,
	}, &resp, 3)
	if err != nil {
		return nil, fmt.Errorf("compute chart: %w", err)
	}
	return resp.toChart(), nil
}

func (e *HTTPEngine) ComputeChartAt(ctx context.Context, jd, latitude, longitude float64, houseSystem string) (*domsvc.Chart, error) {
	var resp chartResponse
	err := e.base.postJSONWithRetry(ctx, "/chart/at", chartAtRequest{
		JulianDay: jd, Latitude: latitude, Longitude: longitude, HouseSystem: houseSystem,
	}, &resp, 3)
	if err != nil {
		return nil, fmt.Errorf("compute chart at: %w", err)
	}
	if resp.JulianDay == 0 {
		resp.JulianDay = jd
	}
	return resp.toChart(), nil
}

type returnInstantRequest struct {
	NatalJD   float64 `json:"natal_jd"`
	Longitude float64 `json:"longitude"`
	Year      int     `json:"year"`
	Month     int     `json:"month,omitempty"`
}

type returnInstantResponse struct {
	JulianDay float64 `json:"julian_day"`
}

func (e *HTTPEngine) SolarReturnInstant(ctx context.Context, natalJD, natalSunLon float64, year int) (float64, error) {
	var resp returnInstantResponse
	err := e.base.postJSONWithRetry(ctx, "/returns/solar", returnInstantRequest{
		NatalJD: natalJD, Longitude: natalSunLon, Year: year,
	}, &resp, 3)
	if err != nil {
		return 0, fmt.Errorf("solar return instant: %w", err)
	}
	return resp.JulianDay, nil
}

func (e *HTTPEngine) LunarReturnInstant(ctx context.Context, natalJD, natalMoonLon float64, year, month int) (float64, error) {
	var resp returnInstantResponse
	err := e.base.postJSONWithRetry(ctx, "/returns/lunar", returnInstantRequest{
		NatalJD: natalJD, Longitude: natalMoonLon, Year: year, Month: month,
	}, &resp, 3)
	if err != nil {
		return 0, fmt.Errorf("lunar return instant: %w", err)
	}
	return resp.JulianDay, nil
}

type bodyPositionsRequest struct {
	JulianDay float64  `json:"julian_day"`
	Bodies    []string `json:"bodies"`
}

type bodyPositionsResponse struct {
	Positions []struct {
		Name       string  `json:"name"`
		Longitude  float64 `json:"longitude"`
		Latitude   float64 `json:"latitude"`
		Retrograde bool    `json:"retrograde"`
	} `json:"positions"`
}

func (e *HTTPEngine) BodyPositions(ctx context.Context, jd float64, bodies []string) ([]models.PlanetPosition, error) {
	var resp bodyPositionsResponse
	err := e.base.postJSONWithRetry(ctx, "/bodies/positions", bodyPositionsRequest{
		JulianDay: jd, Bodies: bodies,
	}, &resp, 3)
	if err != nil {
		return nil, fmt.Errorf("body positions: %w", err)
	}
	out := make([]models.PlanetPosition, 0, len(resp.Positions))
	for _, p := range resp.Positions {
		out = append(out, models.PlanetPosition{
			Name:       p.Name,
			Longitude:  p.Longitude,
			Latitude:   p.Latitude,
			Retrograde: p.Retrograde,
		})
	}
	return out, nil
}

type vertexRequest struct {
	JulianDay float64 `json:"julian_day"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type vertexResponse struct {
	Longitude float64 `json:"longitude"`
}

func (e *HTTPEngine) Vertex(ctx context.Context, jd, latitude, longitude float64) (float64, error) {
	var resp vertexResponse
	err := e.base.postJSONWithRetry(ctx, "/points/vertex", vertexRequest{
		JulianDay: jd, Latitude: latitude, Longitude: longitude,
	}, &resp, 3)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	return resp.Longitude, nil
}

type starsResponse struct {
	Stars []struct {
		Name      string  `json:"name"`
		Longitude float64 `json:"longitude"`
	} `json:"stars"`
}

func (e *HTTPEngine) FixedStars(ctx context.Context) ([]domsvc.StarPosition, error) {
	var resp starsResponse
	if err := e.base.postJSON(ctx, "/stars/catalog", struct{}{}, &resp); err != nil {
		return nil, fmt.Errorf("fixed stars: %w", err)
	}
	out := make([]domsvc.StarPosition, 0, len(resp.Stars))
	for _, s := range resp.Stars {
		out = append(out, domsvc.StarPosition{Name: s.Name, Longitude: s.Longitude})
	}
	return out, nil
}

type eclipsesRequest struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

type eclipsesResponse struct {
	Eclipses []struct {
		Kind      string    `json:"kind"`
		Date      time.Time `json:"date"`
		Longitude float64   `json:"longitude"`
	} `json:"eclipses"`
}

func (e *HTTPEngine) Eclipses(ctx context.Context, from, to time.Time) ([]models.Eclipse, error) {
	var resp eclipsesResponse
	err := e.base.postJSONWithRetry(ctx, "/eclipses", eclipsesRequest{From: from, To: to}, &resp, 3)
	if err != nil {
		return nil, fmt.Errorf("eclipses: %w", err)
	}
	out := make([]models.Eclipse, 0, len(resp.Eclipses))
	for _, ec := range resp.Eclipses {
		out = append(out, models.Eclipse{Kind: ec.Kind, Date: ec.Date, Longitude: ec.Longitude})
	}
	return out, nil
}

var _ domsvc.EphemerisEngine = (*HTTPEngine)(nil)
