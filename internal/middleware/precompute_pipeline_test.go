package middleware

import (
	"context"
	"fmt"
	"testing"
	"time"

	"DestinyMap/internal/domain/models"
)

type stubComputer struct {
	calls int
	fail  bool
}

func (s *stubComputer) Compute(ctx context.Context, input models.BirthInput) (*models.DestinyMap, error) {
	s.calls++
	if s.fail {
		return nil, fmt.Errorf("compute failed")
	}
	return &models.DestinyMap{}, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordComputation(string) {}
func (nopMetrics) RecordCacheLookup(string) {}
func (nopMetrics) RecordModuleResult(string, string) {}
func (nopMetrics) RecordError(string) {}
func (nopMetrics) RecordLatency(string, float64) {}

func validRequest() models.BirthInput {
	return models.BirthInput{
		BirthDate: "1995-02-09",
		BirthTime: "06:40",
		Latitude:  37.5665,
		Longitude: 126.978,
		Gender:    "male",
		Timezone:  "Asia/Seoul",
	}
}

func TestPipelineForwardsValidRequest(t *testing.T) {
	comp := &stubComputer{}
	p := NewPrecomputePipeline(comp, nopMetrics{})

	if err := p.Process(context.Background(), validRequest()); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if comp.calls != 1 {
		t.Fatalf("compute calls = %d, want 1", comp.calls)
	}
}

func TestPipelineRejectsInvalidInput(t *testing.T) {
	comp := &stubComputer{}
	p := NewPrecomputePipeline(comp, nopMetrics{})

	cases := []func(*models.BirthInput){
		func(in *models.BirthInput) { in.BirthDate = "" },
		func(in *models.BirthInput) { in.BirthTime = "" },
		func(in *models.BirthInput) { in.Latitude = 91 },
		func(in *models.BirthInput) { in.Longitude = -181 },
	}
	for i, mutate := range cases {
		in := validRequest()
		mutate(&in)
		if err := p.Process(context.Background(), in); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
	if comp.calls != 0 {
		t.Fatalf("invalid requests reached the orchestrator: %d calls", comp.calls)
	}
}

func TestPipelineThrottlesDuplicates(t *testing.T) {
	comp := &stubComputer{}
	p := NewPrecomputePipeline(comp, nopMetrics{}, WithDedupeWindow(time.Minute))

	for i := 0; i < 3; i++ {
		if err := p.Process(context.Background(), validRequest()); err != nil {
			t.Fatalf("Process() error = %v", err)
		}
	}
	if comp.calls != 1 {
		t.Fatalf("compute calls = %d, want 1 (duplicates dropped)", comp.calls)
	}

	other := validRequest()
	other.Latitude = 35.1796
	other.Longitude = 129.0756
	if err := p.Process(context.Background(), other); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if comp.calls != 2 {
		t.Fatalf("distinct key should pass the throttle, calls = %d", comp.calls)
	}
}

func TestPipelineThrottleIgnoresName(t *testing.T) {
	comp := &stubComputer{}
	p := NewPrecomputePipeline(comp, nopMetrics{})

	a := validRequest()
	a.Name = "Hong Gildong"
	b := validRequest()
	b.Name = "Somebody Else"

	_ = p.Process(context.Background(), a)
	_ = p.Process(context.Background(), b)
	if comp.calls != 1 {
		t.Fatalf("same birth data under different names should dedupe, calls = %d", comp.calls)
	}
}

func TestPipelinePropagatesComputeError(t *testing.T) {
	comp := &stubComputer{fail: true}
	p := NewPrecomputePipeline(comp, nopMetrics{})

	if err := p.Process(context.Background(), validRequest()); err == nil {
		t.Fatalf("expected compute error to propagate")
	}
}
