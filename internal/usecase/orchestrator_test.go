package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"DestinyMap/internal/domain/models"
	domsvc "DestinyMap/internal/domain/service"
	"DestinyMap/internal/services/chart"
	"DestinyMap/pkg/cache"
	"DestinyMap/pkg/logger"
)

// stubEngine serves a complete synthetic sky so every module can succeed,
// with switches to force individual failures.
type stubEngine struct {
	failNatal bool
	failLunar bool
	lunarWait time.Duration
}

func (e *stubEngine) wheel() *domsvc.Chart {
	cusps := make([]models.HouseCusp, 12)
	for i := range cusps {
		cusps[i] = models.HouseCusp{House: i + 1, Longitude: float64(i * 30)}
	}
	return &domsvc.Chart{
		JulianDay: 2449757.77,
		Planets: []models.PlanetPosition{
			{Name: "Sun", Longitude: 320.5},
			{Name: "Moon", Longitude: 200.2},
			{Name: "North Node", Longitude: 150},
		},
		Houses:    cusps,
		Ascendant: 100,
		Midheaven: 10,
	}
}

func (e *stubEngine) ComputeChart(_ context.Context, p domsvc.ChartParams) (*domsvc.Chart, error) {
	if e.failNatal {
		return nil, fmt.Errorf("unsupported date range")
	}
	return e.wheel(), nil
}

func (e *stubEngine) ComputeChartAt(_ context.Context, jd, lat, lon float64, hs string) (*domsvc.Chart, error) {
	w := e.wheel()
	w.JulianDay = jd
	return w, nil
}

func (e *stubEngine) SolarReturnInstant(_ context.Context, natalJD, sunLon float64, year int) (float64, error) {
	return natalJD + 365.25*float64(year-1995), nil
}

func (e *stubEngine) LunarReturnInstant(ctx context.Context, natalJD, moonLon float64, year, month int) (float64, error) {
	if e.lunarWait > 0 {
		time.Sleep(e.lunarWait)
	}
	if e.failLunar {
		return 0, fmt.Errorf("no convergence")
	}
	return natalJD + 27.3, nil
}

func (e *stubEngine) BodyPositions(_ context.Context, jd float64, bodies []string) ([]models.PlanetPosition, error) {
	out := make([]models.PlanetPosition, len(bodies))
	for i, b := range bodies {
		out[i] = models.PlanetPosition{Name: b, Longitude: float64(i*30 + 5)}
	}
	return out, nil
}

func (e *stubEngine) Vertex(_ context.Context, jd, lat, lon float64) (float64, error) {
	return 250, nil
}

func (e *stubEngine) FixedStars(_ context.Context) ([]domsvc.StarPosition, error) {
	return []domsvc.StarPosition{{Name: "Regulus", Longitude: 320}}, nil
}

func (e *stubEngine) Eclipses(_ context.Context, from, to time.Time) ([]models.Eclipse, error) {
	mid := from.Add(to.Sub(from) / 2)
	return []models.Eclipse{
		{Kind: "solar", Date: mid, Longitude: 320}, // touches the natal Sun
		{Kind: "lunar", Date: mid.AddDate(0, 1, 0), Longitude: 42},
	}, nil
}

type stubSaju struct{ fail bool }

func (s *stubSaju) Compute(_ context.Context, input models.BirthInput) (*models.SajuSummary, error) {
	if s.fail {
		return nil, fmt.Errorf("saju sidecar down")
	}
	return &models.SajuSummary{DayMaster: "Yang Wood"}, nil
}

type stubLocator struct{ name string }

func (l *stubLocator) Locate(lat, lon float64) (string, error) {
	if l.name == "" {
		return "", fmt.Errorf("no zone")
	}
	return l.name, nil
}

type nopMetrics struct{}

func (nopMetrics) RecordComputation(string)          {}
func (nopMetrics) RecordCacheLookup(string)          {}
func (nopMetrics) RecordModuleResult(string, string) {}
func (nopMetrics) RecordError(string)                {}
func (nopMetrics) RecordLatency(string, float64)     {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func newTestOrchestrator(t *testing.T, engine *stubEngine) (*Orchestrator, *cache.MemoryCache) {
	t.Helper()
	log := testLogger(t)
	mc := cache.NewMemoryCache(cache.WithMemoryMaxSize(50), cache.WithMemoryTTL(5*time.Minute))

	calc := Calculators{
		Natal:          chart.NewNatalCalculator(engine, "placidus"),
		Points:         chart.NewAdvancedPointsCalculator(engine, log),
		Returns:        chart.NewReturnsProgressionsCalculator(engine),
		Specialized:    chart.NewSpecializedChartsCalculator(),
		AsteroidsStars: chart.NewAsteroidsStarsCalculator(engine, log),
	}

	return NewOrchestrator(mc, calc, &stubSaju{}, &stubLocator{name: "Asia/Seoul"}, nopMetrics{}, nil, log, Options{
		GeneratorID:      "destiny-test",
		FallbackTimezone: "UTC",
		TaskTimeout:      5 * time.Second,
		CacheTTL:         5 * time.Minute,
		UpcomingEclipses: 2,
		IncludeSolarArc:  true,
	}), mc
}

func seoulInput() models.BirthInput {
	return models.BirthInput{
		Name:      "Hong Gildong",
		BirthDate: "1995-02-09",
		BirthTime: "06:40",
		Latitude:  37.5665,
		Longitude: 126.978,
		Gender:    "male",
		Timezone:  "Asia/Seoul",
	}
}

func TestComputeEndToEnd(t *testing.T) {
	orch, _ := newTestOrchestrator(t, &stubEngine{})

	out, err := orch.Compute(context.Background(), seoulInput())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if out.Natal == nil {
		t.Fatalf("natal section missing")
	}
	suns := 0
	for _, p := range out.Natal.Planets {
		if p.Name == "Sun" {
			suns++
		}
	}
	if suns != 1 {
		t.Fatalf("Sun placements = %d, want exactly one", suns)
	}
	if len(out.Natal.Houses) != 12 {
		t.Fatalf("house cusps = %d, want 12", len(out.Natal.Houses))
	}
	if out.Summary == "" {
		t.Fatalf("summary missing")
	}

	// every derived section present
	if out.AdvancedPoints == nil || out.SolarReturn == nil || out.LunarReturn == nil ||
		out.Progressions == nil || out.SoulChart == nil || out.Harmonics == nil ||
		out.Asteroids == nil || out.Eclipses == nil || out.Saju == nil {
		t.Fatalf("missing derived sections: %+v", out)
	}
	if out.Progressions.SolarArc == nil {
		t.Fatalf("solar arc requested but absent")
	}
	if out.Errors != nil {
		t.Fatalf("unexpected module errors: %v", out.Errors)
	}

	// second call within TTL returns the identical cached object
	again, err := orch.Compute(context.Background(), seoulInput())
	if err != nil {
		t.Fatalf("second compute: %v", err)
	}
	if again != out {
		t.Fatalf("expected the cached aggregate itself on the second call")
	}
}

func TestComputeCacheIgnoresName(t *testing.T) {
	orch, mc := newTestOrchestrator(t, &stubEngine{})

	first, err := orch.Compute(context.Background(), seoulInput())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	other := seoulInput()
	other.Name = "Somebody Else"
	second, err := orch.Compute(context.Background(), other)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if second != first {
		t.Fatalf("a differing name must still hit the cache")
	}
	if n, _ := mc.Size(context.Background()); n != 1 {
		t.Fatalf("cache size = %d, want 1", n)
	}
}

func TestComputeValidation(t *testing.T) {
	orch, mc := newTestOrchestrator(t, &stubEngine{})

	cases := []func(*models.BirthInput){
		func(in *models.BirthInput) { in.Latitude = 91 },
		func(in *models.BirthInput) { in.Longitude = 200 },
		func(in *models.BirthInput) { in.Latitude = math.NaN() },
		func(in *models.BirthInput) { in.BirthDate = "not-a-date" },
		func(in *models.BirthInput) { in.BirthTime = "25:99" },
	}
	for i, mutate := range cases {
		in := seoulInput()
		mutate(&in)
		_, err := orch.Compute(context.Background(), in)
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("case %d: error = %v, want ValidationError", i, err)
		}
	}

	// no cache entry was written for any rejected input
	if n, _ := mc.Size(context.Background()); n != 0 {
		t.Fatalf("cache size = %d after rejected inputs, want 0", n)
	}
}

func TestComputeLunarReturnFailureIsolated(t *testing.T) {
	orch, _ := newTestOrchestrator(t, &stubEngine{failLunar: true})

	out, err := orch.Compute(context.Background(), seoulInput())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if out.LunarReturn != nil {
		t.Fatalf("lunar return should be absent")
	}
	if out.Errors["lunar_return"] == "" {
		t.Fatalf("lunar return failure not recorded: %v", out.Errors)
	}
	if out.SolarReturn == nil || out.Progressions == nil || out.AdvancedPoints == nil ||
		out.SoulChart == nil || out.Harmonics == nil || out.Asteroids == nil || out.Eclipses == nil {
		t.Fatalf("other sections must survive the lunar-return failure")
	}
}

func TestComputeNatalFailureGraceful(t *testing.T) {
	orch, mc := newTestOrchestrator(t, &stubEngine{failNatal: true})

	out, err := orch.Compute(context.Background(), seoulInput())
	if err != nil {
		t.Fatalf("natal failure must not propagate, got %v", err)
	}
	if out.Natal != nil || out.AdvancedPoints != nil || out.SolarReturn != nil {
		t.Fatalf("aggregate should be empty of chart sections: %+v", out)
	}
	if out.Summary == "" {
		t.Fatalf("summary must describe the failure")
	}
	if out.Errors["natal"] == "" {
		t.Fatalf("natal error not recorded: %v", out.Errors)
	}

	// failed aggregates are never cached
	if n, _ := mc.Size(context.Background()); n != 0 {
		t.Fatalf("cache size = %d after natal failure, want 0", n)
	}
}

func TestComputeTaskDeadline(t *testing.T) {
	orch, _ := newTestOrchestrator(t, &stubEngine{lunarWait: 80 * time.Millisecond})
	orch.opts.TaskTimeout = 20 * time.Millisecond

	out, err := orch.Compute(context.Background(), seoulInput())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	if out.Errors["returns_progressions"] == "" {
		t.Fatalf("overrunning task should be treated as failed: %v", out.Errors)
	}
	if out.SolarReturn != nil || out.LunarReturn != nil {
		t.Fatalf("timed-out module must contribute no sections")
	}
	if out.AdvancedPoints == nil || out.SoulChart == nil || out.Asteroids == nil {
		t.Fatalf("other modules must be unaffected by the timeout")
	}
}

func TestComputeSajuFailureTolerated(t *testing.T) {
	engine := &stubEngine{}
	log := testLogger(t)
	mc := cache.NewMemoryCache(cache.WithMemoryMaxSize(10), cache.WithMemoryTTL(time.Minute))
	calc := Calculators{
		Natal:          chart.NewNatalCalculator(engine, "placidus"),
		Points:         chart.NewAdvancedPointsCalculator(engine, log),
		Returns:        chart.NewReturnsProgressionsCalculator(engine),
		Specialized:    chart.NewSpecializedChartsCalculator(),
		AsteroidsStars: chart.NewAsteroidsStarsCalculator(engine, log),
	}
	orch := NewOrchestrator(mc, calc, &stubSaju{fail: true}, &stubLocator{name: "Asia/Seoul"}, nopMetrics{}, nil, log, Options{})

	out, err := orch.Compute(context.Background(), seoulInput())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if out.Saju != nil {
		t.Fatalf("saju section should be absent")
	}
	if out.Errors["saju"] == "" {
		t.Fatalf("saju failure not recorded: %v", out.Errors)
	}
	if out.Natal == nil {
		t.Fatalf("chart sections must survive a saju failure")
	}
}

func TestStreamComputeEmitsSections(t *testing.T) {
	orch, _ := newTestOrchestrator(t, &stubEngine{})

	var names []string
	out, err := orch.StreamCompute(context.Background(), seoulInput(), func(name string, payload interface{}) {
		names = append(names, name)
	})
	if err != nil {
		t.Fatalf("stream compute: %v", err)
	}
	if out == nil {
		t.Fatalf("aggregate missing")
	}

	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"natal", "advanced_points", "returns_progressions", "specialized", "asteroids_stars", "saju", "done"} {
		if !seen[want] {
			t.Fatalf("section %q never emitted, got %v", want, names)
		}
	}
	if names[0] != "natal" {
		t.Fatalf("natal must be emitted first, got %v", names)
	}
	if names[len(names)-1] != "done" {
		t.Fatalf("done must be emitted last, got %v", names)
	}
}
