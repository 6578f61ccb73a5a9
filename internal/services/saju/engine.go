package saju

import (
	"context"
	"fmt"
	"time"

	"DestinyMap/internal/domain/models"
	domsvc "DestinyMap/internal/domain/service"
	"DestinyMap/pkg/config"
	xhttp "DestinyMap/pkg/http"
)

// HTTPEngine adapts the Saju (four-pillars) sidecar. One fallible call per
// computation, merged into the aggregate by the orchestrator.
type HTTPEngine struct {
	baseURL string
	client  *xhttp.Client
}

func NewHTTPEngine(cfg *config.Config) *HTTPEngine {
	timeout := cfg.Saju.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPEngine{
		baseURL: cfg.Saju.ServiceURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type sajuRequest struct {
	BirthDate string `json:"birth_date"`
	BirthTime string `json:"birth_time"`
	Gender    string `json:"gender"`
	Timezone  string `json:"timezone"`
	Calendar  string `json:"calendar"`
}

type sajuResponse struct {
	DayMaster   string         `json:"day_master"`
	YearPillar  string         `json:"year_pillar"`
	MonthPillar string         `json:"month_pillar"`
	DayPillar   string         `json:"day_pillar"`
	HourPillar  string         `json:"hour_pillar"`
	Elements    map[string]int `json:"elements"`
}

func (e *HTTPEngine) Compute(ctx context.Context, input models.BirthInput) (*models.SajuSummary, error) {
	if e.client == nil || e.baseURL == "" {
		return nil, fmt.Errorf("saju http client not initialized")
	}

	var resp sajuResponse
	err := e.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    e.baseURL + "/saju/compute",
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: sajuRequest{
			BirthDate: input.BirthDate,
			BirthTime: input.BirthTime,
			Gender:    input.Gender,
			Timezone:  input.Timezone,
			Calendar:  "solar",
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("post saju: %w", err)
	}

	return &models.SajuSummary{
		DayMaster:   resp.DayMaster,
		YearPillar:  resp.YearPillar,
		MonthPillar: resp.MonthPillar,
		DayPillar:   resp.DayPillar,
		HourPillar:  resp.HourPillar,
		Elements:    resp.Elements,
	}, nil
}

var _ domsvc.SajuEngine = (*HTTPEngine)(nil)
