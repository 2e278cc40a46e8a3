// internal/service/workflow/orchestrator.go

package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"resonance/internal/domain/audience"
	"resonance/internal/domain/content"
	"resonance/internal/domain/optimization"
	"resonance/internal/domain/resonance"
	"resonance/internal/logger"
	"resonance/internal/service/variation"
)

// Common errors
var (
	ErrMissingDependency = errors.New("missing workflow dependency")
	ErrStopped           = errors.New("orchestrator stopped")
	ErrUnknownSegment    = errors.New("unknown audience segment")
)

// Progress recorded when each stage begins
var stageProgress = map[optimization.Status]int{
	optimization.StatusInitialized:           0,
	optimization.StatusAnalyzing:             10,
	optimization.StatusGeneratingSuggestions: 30,
	optimization.StatusCreatingVariations:    60,
	optimization.StatusPredictingPerformance: 80,
	optimization.StatusCompleted:             100,
}

// Config contains configuration for the orchestrator
type Config struct {
	EventsTopic     string
	StageTimeout    time.Duration
	Retention       time.Duration
	JanitorInterval time.Duration
	MonitorInterval time.Duration
	ABTestSize      int
	TopSuggestions  int
}

// DefaultConfig returns the standard orchestrator configuration
func DefaultConfig() Config {
	return Config{
		EventsTopic:     "workflow",
		StageTimeout:    30 * time.Second,
		Retention:       time.Hour,
		JanitorInterval: 5 * time.Minute,
		MonitorInterval: 500 * time.Millisecond,
		ABTestSize:      variation.DefaultABTestSize,
		TopSuggestions:  3,
	}
}

// Suggester produces and groups suggestions for an analysis
type Suggester interface {
	Generate(ctx context.Context, analysis *resonance.Analysis, types []resonance.OptimizationType) ([]resonance.Suggestion, error)
	Format(suggestions []resonance.Suggestion) optimization.FormattedRecommendations
}

// EventPublisher publishes workflow events. *nats.Conn satisfies it.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

// Archiver keeps terminal summaries beyond the store's retention window
type Archiver interface {
	ArchiveSummary(ctx context.Context, summary optimization.Summary) error
	LoadSummary(ctx context.Context, id string) (*optimization.Summary, error)
}

// Dependencies are the collaborators a workflow run calls into.
// Segments, Publisher and Archiver are optional.
type Dependencies struct {
	Engine      resonance.Engine
	Suggestions Suggester
	Variations  optimization.VariationGenerator
	Predictor   optimization.Predictor
	Segments    audience.Store
	Store       Store
	Publisher   EventPublisher
	Archiver    Archiver
	Clock       func() time.Time
}

// Orchestrator sequences analysis, suggestions, variations and predictions for each workflow
type Orchestrator struct {
	engine      resonance.Engine
	suggestions Suggester
	variations  optimization.VariationGenerator
	predictor   optimization.Predictor
	segments    audience.Store
	store       Store
	publisher   EventPublisher
	archiver    Archiver
	monitor     *Monitor
	config      Config
	clock       func() time.Time
	tracer      trace.Tracer
	outcomes    metric.Int64Counter
	logger      *logger.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewOrchestrator creates a new orchestrator and starts its retention janitor
func NewOrchestrator(deps Dependencies, config Config, log *logger.Logger) (*Orchestrator, error) {
	switch {
	case deps.Engine == nil:
		return nil, fmt.Errorf("%w: engine", ErrMissingDependency)
	case deps.Suggestions == nil:
		return nil, fmt.Errorf("%w: suggestions", ErrMissingDependency)
	case deps.Variations == nil:
		return nil, fmt.Errorf("%w: variations", ErrMissingDependency)
	case deps.Predictor == nil:
		return nil, fmt.Errorf("%w: predictor", ErrMissingDependency)
	}

	store := deps.Store
	if store == nil {
		store = NewMemoryStore()
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	if config.StageTimeout <= 0 {
		config.StageTimeout = DefaultConfig().StageTimeout
	}

	outcomes, err := otel.Meter("resonance/workflow").Int64Counter(
		"workflow.outcomes",
		metric.WithDescription("Terminal workflow outcomes by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outcome counter: %w", err)
	}

	log = log.With("service", "workflow")
	ctx, cancel := context.WithCancel(context.Background())

	o := &Orchestrator{
		engine:      deps.Engine,
		suggestions: deps.Suggestions,
		variations:  deps.Variations,
		predictor:   deps.Predictor,
		segments:    deps.Segments,
		store:       store,
		publisher:   deps.Publisher,
		archiver:    deps.Archiver,
		monitor:     NewMonitor(store, config.MonitorInterval, log),
		config:      config,
		clock:       clock,
		tracer:      otel.Tracer("resonance/workflow"),
		outcomes:    outcomes,
		logger:      log,
		ctx:         ctx,
		cancel:      cancel,
	}

	// Start background eviction of finished workflows
	if config.JanitorInterval > 0 && config.Retention > 0 {
		o.wg.Add(1)
		go o.janitor()
	}

	return o, nil
}

// Start records a new workflow and runs it in the background
func (o *Orchestrator) Start(ctx context.Context, req optimization.Request) (optimization.Workflow, error) {
	if o.ctx.Err() != nil {
		return optimization.Workflow{}, ErrStopped
	}

	r := o.newRun(req)
	if err := o.store.Save(ctx, r.result); err != nil {
		return optimization.Workflow{}, fmt.Errorf("error saving workflow: %w", err)
	}

	// The run belongs to its goroutine once started
	initial := r.result.Workflow.Clone()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.execute(o.ctx, r)
	}()

	return initial, nil
}

// Run executes a workflow on the calling goroutine. Failures are reported through the workflow status.
func (o *Orchestrator) Run(ctx context.Context, req optimization.Request) *optimization.Result {
	r := o.newRun(req)
	o.persist(ctx, r)
	o.execute(ctx, r)

	result := cloneResult(r.result)
	return &result
}

// Status returns the current workflow record
func (o *Orchestrator) Status(ctx context.Context, id string) (optimization.Workflow, error) {
	result, err := o.store.Get(ctx, id)
	if err != nil {
		return optimization.Workflow{}, err
	}
	return result.Workflow, nil
}

// Result returns everything a workflow has produced so far
func (o *Orchestrator) Result(ctx context.Context, id string) (*optimization.Result, error) {
	return o.store.Get(ctx, id)
}

// Summary returns the summary of a finished workflow.
// Workflows evicted from the store are looked up in the archive.
func (o *Orchestrator) Summary(ctx context.Context, id string) (*optimization.Summary, error) {
	result, err := o.store.Get(ctx, id)
	if errors.Is(err, optimization.ErrWorkflowNotFound) && o.archiver != nil {
		return o.archiver.LoadSummary(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if !result.Workflow.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s is %s", optimization.ErrNotTerminal, id, result.Workflow.Status)
	}
	summary := Summarize(*result, o.config.TopSuggestions)
	return &summary, nil
}

// Watch streams status changes of a workflow until it finishes, emit fails or the session is stopped
func (o *Orchestrator) Watch(ctx context.Context, id string, emit func(optimization.Workflow) error) *Session {
	return o.monitor.Watch(ctx, id, emit)
}

// Stop cancels running workflows and waits for background goroutines
func (o *Orchestrator) Stop(ctx context.Context) error {
	// Signal all goroutines to stop
	o.cancel()

	c := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(c)
	}()

	select {
	case <-c:
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}

// run is the mutable state of one workflow, owned by the goroutine executing it
type run struct {
	req    optimization.Request
	result optimization.Result
}

func (o *Orchestrator) newRun(req optimization.Request) *run {
	return &run{
		req: req,
		result: optimization.Result{
			Workflow: optimization.Workflow{
				ID:          uuid.New().String(),
				Status:      optimization.StatusInitialized,
				CurrentStep: string(optimization.StatusInitialized),
				Progress:    stageProgress[optimization.StatusInitialized],
				StepTimings: []optimization.StepTiming{},
				Errors:      []string{},
				Warnings:    []string{},
				StartedAt:   o.clock(),
			},
			Suggestions: []resonance.Suggestion{},
			Variations:  []optimization.Variation{},
			Predictions: []optimization.Prediction{},
		},
	}
}

// execute advances one workflow through every stage
func (o *Orchestrator) execute(ctx context.Context, r *run) {
	id := r.result.Workflow.ID
	ctx, span := o.tracer.Start(ctx, "workflow.run", trace.WithAttributes(attribute.String("workflow.id", id)))
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			o.fail(ctx, r, fmt.Sprintf("internal error: %v", rec))
		}
	}()

	sub := r.req.Submission
	opts := r.req.Options

	// Validate input
	if err := sub.Validate(); err != nil {
		o.fail(ctx, r, err.Error())
		return
	}
	segment, err := o.resolveSegment(ctx, r.req)
	if err != nil {
		o.fail(ctx, r, err.Error())
		return
	}

	// Analysis
	o.transition(ctx, r, optimization.StatusAnalyzing)
	analysis, timing, err := runStage(ctx, o, optimization.StatusAnalyzing, func(ctx context.Context) (*resonance.Analysis, error) {
		return o.engine.Analyze(ctx, sub, segment)
	})
	r.record(timing)
	if err != nil {
		o.fail(ctx, r, fmt.Sprintf("analysis failed: %v", err))
		return
	}
	r.result.Analysis = analysis
	if o.cancelled(ctx, r) {
		return
	}

	// Suggestions
	o.transition(ctx, r, optimization.StatusGeneratingSuggestions)
	suggestions, timing, err := runStage(ctx, o, optimization.StatusGeneratingSuggestions, func(ctx context.Context) ([]resonance.Suggestion, error) {
		return o.suggestions.Generate(ctx, analysis, opts.OptimizationTypes)
	})
	r.record(timing)
	if err != nil {
		o.warn(r, fmt.Sprintf("suggestion generation failed: %v", err))
		suggestions = nil
	}
	r.result.Suggestions = nonNil(suggestions)
	r.result.Recommendations = o.suggestions.Format(r.result.Suggestions)
	r.result.Workflow.SuggestionCount = len(r.result.Suggestions)
	o.persist(ctx, r)
	if o.cancelled(ctx, r) {
		return
	}

	// Variations
	if opts.GenerateVariations {
		o.transition(ctx, r, optimization.StatusCreatingVariations)
		variations, timing, err := runStage(ctx, o, optimization.StatusCreatingVariations, func(ctx context.Context) ([]optimization.Variation, error) {
			return o.variations.Generate(ctx, sub, segment, opts.VariationTypes)
		})
		r.record(timing)
		if err != nil {
			o.warn(r, fmt.Sprintf("variation generation failed: %v", err))
			variations = nil
		}
		r.result.Variations = nonNil(variations)
		r.result.Workflow.VariationCount = len(r.result.Variations)

		if len(r.result.Variations) > 0 {
			plan, err := variation.SelectABTest(r.result.Variations, opts.ABTestMetric, o.config.ABTestSize)
			if err != nil {
				o.warn(r, fmt.Sprintf("a/b test selection failed: %v", err))
			} else {
				r.result.ABTest = plan
			}
		}
		o.persist(ctx, r)
	} else {
		o.skip(ctx, r, optimization.StatusCreatingVariations)
	}
	if o.cancelled(ctx, r) {
		return
	}

	// Predictions
	if opts.PredictPerformance {
		o.transition(ctx, r, optimization.StatusPredictingPerformance)
		predictions, timing, err := runStage(ctx, o, optimization.StatusPredictingPerformance, func(ctx context.Context) ([]optimization.Prediction, error) {
			return o.predict(ctx, sub, segment, analysis, opts.PredictPlatforms)
		})
		r.record(timing)
		if err != nil {
			o.warn(r, fmt.Sprintf("performance prediction failed: %v", err))
		}
		r.result.Predictions = nonNil(predictions)
		r.result.Workflow.PredictionCount = len(r.result.Predictions)
		o.persist(ctx, r)
	} else {
		o.skip(ctx, r, optimization.StatusPredictingPerformance)
	}
	if o.cancelled(ctx, r) {
		return
	}

	o.complete(ctx, r)
}

// predict forecasts each platform independently; per-platform failures are joined
func (o *Orchestrator) predict(ctx context.Context, sub content.Submission, segment *audience.Segment, analysis *resonance.Analysis, platforms []content.Platform) ([]optimization.Prediction, error) {
	if len(platforms) == 0 {
		platforms = []content.Platform{sub.Platform}
	}

	predictions := make([]optimization.Prediction, 0, len(platforms))
	var errs []error
	for _, platform := range platforms {
		p, err := o.predictor.Predict(ctx, sub, segment, analysis, platform)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", platform, err))
			continue
		}
		predictions = append(predictions, *p)
	}
	return predictions, errors.Join(errs...)
}

func (o *Orchestrator) resolveSegment(ctx context.Context, req optimization.Request) (*audience.Segment, error) {
	if req.Segment != nil {
		return req.Segment, nil
	}
	if req.SegmentID == "" {
		return nil, nil
	}
	if o.segments == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSegment, req.SegmentID)
	}
	segment, err := o.segments.GetSegment(ctx, req.SegmentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnknownSegment, req.SegmentID, err)
	}
	return segment, nil
}

// runStage runs fn under the stage deadline inside its own span.
// A panic or an expired deadline is returned as an error.
func runStage[T any](ctx context.Context, o *Orchestrator, stage optimization.Status, fn func(context.Context) (T, error)) (T, optimization.StepTiming, error) {
	started := o.clock()

	stageCtx, cancel := context.WithTimeout(ctx, o.config.StageTimeout)
	defer cancel()
	stageCtx, span := o.tracer.Start(stageCtx, "workflow."+string(stage))
	defer span.End()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", rec)}
			}
		}()
		v, err := fn(stageCtx)
		done <- outcome{value: v, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-stageCtx.Done():
		out.err = fmt.Errorf("%s did not finish: %w", stage, stageCtx.Err())
	}

	if out.err != nil {
		span.RecordError(out.err)
		span.SetStatus(codes.Error, out.err.Error())
	}

	finished := o.clock()
	return out.value, optimization.StepTiming{
		Step:       stage,
		StartedAt:  started,
		FinishedAt: finished,
		Elapsed:    finished.Sub(started),
	}, out.err
}

func (r *run) record(timing optimization.StepTiming) {
	r.result.Workflow.StepTimings = append(r.result.Workflow.StepTimings, timing)
}

// transition moves to the next stage and announces it
func (o *Orchestrator) transition(ctx context.Context, r *run, next optimization.Status) {
	wf := &r.result.Workflow
	if !wf.Status.CanTransition(next) {
		o.logger.Warn("Rejected workflow transition", "workflow_id", wf.ID, "from", wf.Status, "to", next)
		return
	}
	wf.Status = next
	wf.CurrentStep = string(next)
	wf.Progress = stageProgress[next]

	o.persist(ctx, r)
	o.publishStatus(*wf)
}

// skip advances progress past a stage that was not requested
func (o *Orchestrator) skip(ctx context.Context, r *run, stage optimization.Status) {
	now := o.clock()
	wf := &r.result.Workflow
	wf.Progress = stageProgress[stage]
	wf.CurrentStep = string(stage) + " (skipped)"
	wf.StepTimings = append(wf.StepTimings, optimization.StepTiming{
		Step:       stage,
		StartedAt:  now,
		FinishedAt: now,
		Skipped:    true,
	})

	o.persist(ctx, r)
	o.publishStatus(*wf)
}

func (o *Orchestrator) warn(r *run, msg string) {
	r.result.Workflow.Warnings = append(r.result.Workflow.Warnings, msg)
	o.logger.Warn("Workflow stage degraded", "workflow_id", r.result.Workflow.ID, "warning", msg)
}

func (o *Orchestrator) cancelled(ctx context.Context, r *run) bool {
	if err := ctx.Err(); err != nil {
		o.fail(ctx, r, fmt.Sprintf("workflow cancelled: %v", err))
		return true
	}
	return false
}

// fail moves the workflow to failed and stops it
func (o *Orchestrator) fail(ctx context.Context, r *run, msg string) {
	wf := &r.result.Workflow
	if wf.Status.Terminal() {
		return
	}
	wf.Errors = append(wf.Errors, msg)
	wf.Status = optimization.StatusFailed
	wf.CurrentStep = string(optimization.StatusFailed)
	o.finish(ctx, r)

	o.logger.Error("Workflow failed", "workflow_id", wf.ID, "error", msg)
}

// complete moves the workflow to completed
func (o *Orchestrator) complete(ctx context.Context, r *run) {
	wf := &r.result.Workflow
	if !wf.Status.CanTransition(optimization.StatusCompleted) {
		return
	}
	wf.Status = optimization.StatusCompleted
	wf.CurrentStep = string(optimization.StatusCompleted)
	wf.Progress = stageProgress[optimization.StatusCompleted]
	o.finish(ctx, r)

	o.logger.Info("Workflow completed",
		"workflow_id", wf.ID,
		"suggestions", wf.SuggestionCount,
		"variations", wf.VariationCount,
		"predictions", wf.PredictionCount,
		"warnings", len(wf.Warnings))
}

// finish persists, publishes and archives a terminal workflow
func (o *Orchestrator) finish(ctx context.Context, r *run) {
	// Terminal bookkeeping must survive a cancelled run
	ctx = context.WithoutCancel(ctx)

	wf := &r.result.Workflow
	completed := o.clock()
	wf.CompletedAt = &completed

	o.persist(ctx, r)
	o.publishStatus(*wf)

	summary := Summarize(r.result, o.config.TopSuggestions)
	o.publishTerminal(summary)

	if o.archiver != nil {
		if err := o.archiver.ArchiveSummary(ctx, summary); err != nil {
			// Log the error but continue
			o.logger.Warn("Error archiving workflow summary", "workflow_id", wf.ID, "error", err)
		}
	}

	o.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(wf.Status))))
}

func (o *Orchestrator) persist(ctx context.Context, r *run) {
	if err := o.store.Save(context.WithoutCancel(ctx), r.result); err != nil {
		// Log the error but continue
		o.logger.Warn("Error saving workflow", "workflow_id", r.result.Workflow.ID, "error", err)
	}
}

// janitor evicts finished workflows older than the retention window
func (o *Orchestrator) janitor() {
	defer o.wg.Done()

	ticker := time.NewTicker(o.config.JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-o.ctx.Done():
			return
		case <-ticker.C:
			o.evictExpired(o.ctx)
		}
	}
}

func (o *Orchestrator) evictExpired(ctx context.Context) int {
	n, err := o.store.EvictBefore(ctx, o.clock().Add(-o.config.Retention))
	if err != nil {
		o.logger.Warn("Error evicting workflows", "error", err)
		return 0
	}
	if n > 0 {
		o.logger.Debug("Evicted finished workflows", "count", n)
	}
	return n
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
