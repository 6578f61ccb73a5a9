package usecase

import (
	"context"
	"math"
	"sync"
	"time"

	"DestinyMap/internal/domain/models"
	domrepo "DestinyMap/internal/domain/repository"
	domsvc "DestinyMap/internal/domain/service"
	"DestinyMap/internal/services/chart"
	"DestinyMap/pkg/cache"
	"DestinyMap/pkg/logger"
	"DestinyMap/pkg/util"
)

// Calculators bundles the chart calculators the orchestrator fans out to.
type Calculators struct {
	Natal          *chart.NatalCalculator
	Points         *chart.AdvancedPointsCalculator
	Returns        *chart.ReturnsProgressionsCalculator
	Specialized    *chart.SpecializedChartsCalculator
	AsteroidsStars *chart.AsteroidsStarsCalculator
}

// Options are the orchestration knobs, threaded in from configuration
// rather than read from process-global state.
type Options struct {
	GeneratorID      string
	FallbackTimezone string
	TaskTimeout      time.Duration
	CacheTTL         time.Duration
	UpcomingEclipses int
	IncludeSolarArc  bool
}

// SectionFunc receives aggregate sections as fan-out tasks settle. Used by
// the streaming endpoint; nil for plain computation.
type SectionFunc func(name string, payload interface{})

// Orchestrator validates birth input, computes the natal baseline, fans out
// to the derived-chart calculators, merges partial results and manages the
// aggregate cache around the whole sequence.
type Orchestrator struct {
	cache   cache.Service
	calc    Calculators
	saju    domsvc.SajuEngine // nil when disabled
	tz      domsvc.TimezoneLocator
	metrics domrepo.Metrics
	records *RecordProcessor // nil when auditing disabled
	log     *logger.Logger
	opts    Options
	now     func() time.Time
}

func NewOrchestrator(
	cacheSvc cache.Service,
	calc Calculators,
	sajuEngine domsvc.SajuEngine,
	tz domsvc.TimezoneLocator,
	metrics domrepo.Metrics,
	records *RecordProcessor,
	log *logger.Logger,
	opts Options,
) *Orchestrator {
	if opts.TaskTimeout <= 0 {
		opts.TaskTimeout = 10 * time.Second
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	if opts.FallbackTimezone == "" {
		opts.FallbackTimezone = "UTC"
	}
	if opts.UpcomingEclipses <= 0 {
		opts.UpcomingEclipses = 5
	}
	return &Orchestrator{
		cache:   cacheSvc,
		calc:    calc,
		saju:    sajuEngine,
		tz:      tz,
		metrics: metrics,
		records: records,
		log:     log,
		opts:    opts,
		now:     time.Now,
	}
}

// Compute produces the destiny-map aggregate for the given birth input. The
// only error it surfaces is a ValidationError for malformed input; every
// runtime failure degrades to absent sections instead.
func (o *Orchestrator) Compute(ctx context.Context, input models.BirthInput) (*models.DestinyMap, error) {
	return o.compute(ctx, input, nil)
}

// StreamCompute behaves like Compute but invokes emit for each section as
// soon as its fan-out task settles, then once more with the full aggregate
// under the name "done".
func (o *Orchestrator) StreamCompute(ctx context.Context, input models.BirthInput, emit SectionFunc) (*models.DestinyMap, error) {
	return o.compute(ctx, input, emit)
}

type birthMoment struct {
	year, month, day int
	hour, minute     int
	timezone         string
	instant          time.Time
}

func (o *Orchestrator) compute(ctx context.Context, input models.BirthInput, emit SectionFunc) (*models.DestinyMap, error) {
	start := o.now()

	moment, err := o.validate(input)
	if err != nil {
		o.metrics.RecordError("validation")
		return nil, err
	}

	key := BuildCacheKey(input)

	var cached *models.DestinyMap
	if err := o.cache.Get(ctx, key, &cached); err == nil && cached != nil {
		o.metrics.RecordCacheLookup("hit")
		o.metrics.RecordComputation("cached")
		o.audit(key, "cached", nil, o.now().Sub(start))
		if emit != nil {
			emit("done", cached)
		}
		return cached, nil
	}
	o.metrics.RecordCacheLookup("miss")

	out := &models.DestinyMap{
		GeneratorID: o.opts.GeneratorID,
		GeneratedAt: o.now(),
		Name:        input.Name,
		Gender:      input.Gender,
		Errors:      map[string]string{},
	}

	natal, err := o.calc.Natal.Compute(ctx, domsvc.ChartParams{
		Year: moment.year, Month: moment.month, Day: moment.day,
		Hour: moment.hour, Minute: moment.minute,
		Latitude: input.Latitude, Longitude: input.Longitude,
		Timezone: moment.timezone,
	})
	if err != nil {
		// The natal baseline is the one hard dependency. Callers still get
		// a well-formed aggregate rather than an error.
		o.log.Error("natal baseline failed", logger.Error(err))
		o.metrics.RecordModuleResult("natal", "failed")
		o.metrics.RecordComputation("failed")
		out.Errors["natal"] = err.Error()
		out.Summary = buildSummary(out)
		o.audit(key, "failed", out.Errors, o.now().Sub(start))
		if emit != nil {
			emit("done", out)
		}
		return out, nil
	}
	out.Natal = natal
	o.metrics.RecordModuleResult("natal", "ok")
	if emit != nil {
		emit("natal", natal)
	}

	o.fanOut(ctx, input, moment, natal, out, emit)

	// The calendar engine is unrelated machinery, invoked inline.
	if o.saju != nil {
		if summary, err := o.saju.Compute(ctx, input); err != nil {
			o.log.Debug("saju section omitted", logger.Error(err))
			out.Errors["saju"] = err.Error()
			o.metrics.RecordModuleResult("saju", "failed")
		} else {
			out.Saju = summary
			o.metrics.RecordModuleResult("saju", "ok")
			if emit != nil {
				emit("saju", summary)
			}
		}
	}

	out.Summary = buildSummary(out)
	if len(out.Errors) == 0 {
		out.Errors = nil
	}

	if err := o.cache.Set(ctx, key, out, o.opts.CacheTTL); err != nil {
		o.log.Warn("aggregate cache store failed", logger.Error(err))
	}

	outcome := "ok"
	if len(out.Errors) > 0 {
		outcome = "degraded"
	}
	o.metrics.RecordComputation(outcome)
	o.metrics.RecordLatency("compute", o.now().Sub(start).Seconds())
	o.audit(key, outcome, out.Errors, o.now().Sub(start))

	if emit != nil {
		emit("done", out)
	}
	return out, nil
}

// validate applies the coordinate and calendar invariants. It fails fast
// before any computation or cache write.
func (o *Orchestrator) validate(input models.BirthInput) (*birthMoment, error) {
	if math.IsNaN(input.Latitude) || math.IsInf(input.Latitude, 0) {
		return nil, models.NewValidationError("latitude", "must be finite")
	}
	if math.IsNaN(input.Longitude) || math.IsInf(input.Longitude, 0) {
		return nil, models.NewValidationError("longitude", "must be finite")
	}
	if input.Latitude < -90 || input.Latitude > 90 {
		return nil, models.NewValidationError("latitude", "must be within [-90, 90]")
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return nil, models.NewValidationError("longitude", "must be within [-180, 180]")
	}

	year, month, day, err := util.ParseBirthDate(input.BirthDate)
	if err != nil {
		return nil, models.NewValidationError("birth_date", err.Error())
	}
	hour, minute, err := util.ParseBirthTime(input.BirthTime)
	if err != nil {
		return nil, models.NewValidationError("birth_time", err.Error())
	}

	tz := o.resolveTimezone(input)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		tz = o.opts.FallbackTimezone
		loc, err = time.LoadLocation(tz)
		if err != nil {
			loc, tz = time.UTC, "UTC"
		}
	}

	return &birthMoment{
		year: year, month: month, day: day,
		hour: hour, minute: minute,
		timezone: tz,
		instant:  util.CivilToInstant(year, month, day, hour, minute, loc),
	}, nil
}

// resolveTimezone prefers the explicit input zone, then the geographic
// lookup, then the configured fallback.
func (o *Orchestrator) resolveTimezone(input models.BirthInput) string {
	if input.Timezone != "" {
		return input.Timezone
	}
	if o.tz != nil {
		if name, err := o.tz.Locate(input.Latitude, input.Longitude); err == nil {
			return name
		} else {
			o.log.Debug("timezone lookup failed", logger.Error(err))
		}
	}
	return o.opts.FallbackTimezone
}

// fanOut runs the four derived-chart calculators concurrently against the
// immutable natal baseline, each under its own deadline. A failed task only
// costs its own sections.
func (o *Orchestrator) fanOut(ctx context.Context, input models.BirthInput, moment *birthMoment, natal *models.NatalBaseline, out *models.DestinyMap, emit SectionFunc) {
	now := o.now()
	age := now.Sub(moment.instant).Hours() / 24 / 365.25

	nightChart := false
	sun := natal.Planet("Sun")
	if sun != nil {
		nightChart = chart.IsNightChart(sun.House)
	}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 4)
	var wg sync.WaitGroup

	run := func(name string, fn func(ctx context.Context) (interface{}, error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			taskCtx, cancel := context.WithTimeout(ctx, o.opts.TaskTimeout)
			defer cancel()
			v, err := fn(taskCtx)
			if err == nil && taskCtx.Err() != nil {
				err = taskCtx.Err()
			}
			ch <- item{name, v, err}
		}()
	}

	run("advanced_points", func(taskCtx context.Context) (interface{}, error) {
		params := chart.AdvancedPointsParams{
			JulianDay:  natal.Meta.JulianDay,
			Houses:     natal.Houses,
			Ascendant:  natal.Ascendant,
			NightChart: nightChart,
			Latitude:   input.Latitude,
			Longitude:  input.Longitude,
		}
		if sun != nil {
			params.SunLon = sun.Longitude
		}
		if moon := natal.Planet("Moon"); moon != nil {
			params.MoonLon = moon.Longitude
		}
		return o.calc.Points.Compute(taskCtx, params), nil
	})

	run("returns_progressions", func(taskCtx context.Context) (interface{}, error) {
		return o.computeReturns(taskCtx, input, natal, now), nil
	})

	run("specialized", func(taskCtx context.Context) (interface{}, error) {
		soul, harmonics, errs := o.calc.Specialized.ComputeAll(taskCtx, natal, age)
		return &specializedResult{soul: soul, harmonics: harmonics, errs: errs}, nil
	})

	run("asteroids_stars", func(taskCtx context.Context) (interface{}, error) {
		asteroids, stars, eclipses := o.calc.AsteroidsStars.ComputeAll(taskCtx, natal, o.opts.UpcomingEclipses)
		return &minorResult{asteroids: asteroids, stars: stars, eclipses: eclipses}, nil
	})

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			o.log.Debug("derived module omitted", logger.String("module", it.name), logger.Error(it.err))
			out.Errors[it.name] = it.err.Error()
			o.metrics.RecordModuleResult(it.name, "failed")
			continue
		}
		o.metrics.RecordModuleResult(it.name, "ok")
		switch it.name {
		case "advanced_points":
			v := it.val.(*models.AdvancedPoints)
			out.AdvancedPoints = v
			if emit != nil {
				emit(it.name, v)
			}
		case "returns_progressions":
			v := it.val.(*returnsResult)
			out.SolarReturn = v.solar
			out.LunarReturn = v.lunar
			out.Progressions = v.progressions
			for k, e := range v.errs {
				out.Errors[k] = e
			}
			if emit != nil {
				emit(it.name, v.sections())
			}
		case "specialized":
			v := it.val.(*specializedResult)
			out.SoulChart = v.soul
			out.Harmonics = v.harmonics
			for k, e := range v.errs {
				out.Errors[k] = e
			}
			if emit != nil {
				emit(it.name, map[string]interface{}{"soul_chart": v.soul, "harmonics": v.harmonics})
			}
		case "asteroids_stars":
			v := it.val.(*minorResult)
			out.Asteroids = v.asteroids
			out.FixedStars = v.stars
			out.Eclipses = v.eclipses
			if emit != nil {
				emit(it.name, map[string]interface{}{
					"asteroids": v.asteroids, "fixed_stars": v.stars, "eclipses": v.eclipses,
				})
			}
		}
	}
}

type returnsResult struct {
	solar        *models.ReturnChart
	lunar        *models.ReturnChart
	progressions *models.Progressions
	errs         map[string]string
}

func (r *returnsResult) sections() map[string]interface{} {
	return map[string]interface{}{
		"solar_return": r.solar,
		"lunar_return": r.lunar,
		"progressions": r.progressions,
	}
}

type specializedResult struct {
	soul      *models.SoulChart
	harmonics *models.HarmonicCharts
	errs      map[string]string
}

type minorResult struct {
	asteroids *models.AsteroidsResult
	stars     []models.FixedStarConjunction
	eclipses  *models.EclipseAnalysis
}

// computeReturns runs the three return/progression operations. Each is
// tolerated individually so a failed lunar return only loses that field.
func (o *Orchestrator) computeReturns(ctx context.Context, input models.BirthInput, natal *models.NatalBaseline, now time.Time) *returnsResult {
	res := &returnsResult{errs: map[string]string{}}
	year, month, _ := now.Date()

	if solar, err := o.calc.Returns.SolarReturn(ctx, natal, input.Latitude, input.Longitude, year); err != nil {
		o.log.Debug("solar return omitted", logger.Error(err))
		res.errs["solar_return"] = err.Error()
	} else {
		res.solar = solar
	}

	if lunar, err := o.calc.Returns.LunarReturn(ctx, natal, input.Latitude, input.Longitude, year, int(month)); err != nil {
		o.log.Debug("lunar return omitted", logger.Error(err))
		res.errs["lunar_return"] = err.Error()
	} else {
		res.lunar = lunar
	}

	if prog, err := o.calc.Returns.AllProgressions(ctx, natal, now, o.opts.IncludeSolarArc); err != nil {
		o.log.Debug("progressions omitted", logger.Error(err))
		res.errs["progressions"] = err.Error()
	} else {
		res.progressions = prog
	}

	return res
}

// audit hands the anonymized computation record to the processor, if any.
func (o *Orchestrator) audit(key, outcome string, moduleErrs map[string]string, took time.Duration) {
	if o.records == nil {
		return
	}
	modules := make(map[string]string, len(moduleErrs))
	for k, v := range moduleErrs {
		modules[k] = v
	}
	o.records.Submit(&models.ComputationRecord{
		KeyHash:     cache.HashKey(key),
		GeneratorID: o.opts.GeneratorID,
		Outcome:     outcome,
		DurationMS:  took.Milliseconds(),
		Modules:     modules,
		CreatedAt:   o.now(),
	})
}
