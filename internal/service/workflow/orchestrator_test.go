package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resonance/internal/domain/audience"
	"resonance/internal/domain/content"
	"resonance/internal/domain/optimization"
	"resonance/internal/domain/resonance"
	"resonance/internal/logger"
	"resonance/internal/service/prediction"
	"resonance/internal/service/scoring"
	"resonance/internal/service/suggestion"
	"resonance/internal/service/variation"
)

const post = `Our platform team cut deploy time in half this quarter
We stopped batching releases. We automated every manual check. Reviews now happen within 4 hours. Incidents dropped by 30 percent.`

type engineFunc func(ctx context.Context, sub content.Submission, segment *audience.Segment) (*resonance.Analysis, error)

func (f engineFunc) Analyze(ctx context.Context, sub content.Submission, segment *audience.Segment) (*resonance.Analysis, error) {
	return f(ctx, sub, segment)
}

func (f engineFunc) Lookup(content.Submission, string) (*resonance.Analysis, bool) {
	return nil, false
}

type variationFunc func(ctx context.Context) ([]optimization.Variation, error)

func (f variationFunc) Generate(ctx context.Context, _ content.Submission, _ *audience.Segment, _ []optimization.VariationType) ([]optimization.Variation, error) {
	return f(ctx)
}

type failingPredictor struct{}

func (failingPredictor) Predict(context.Context, content.Submission, *audience.Segment, *resonance.Analysis, content.Platform) (*optimization.Prediction, error) {
	return nil, errors.New("model unavailable")
}

type segmentStore map[string]*audience.Segment

func (s segmentStore) GetSegment(_ context.Context, id string) (*audience.Segment, error) {
	if seg, ok := s[id]; ok {
		return seg, nil
	}
	return nil, audience.ErrSegmentNotFound
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	return nil
}

type mockArchiver struct {
	mock.Mock
}

func (m *mockArchiver) ArchiveSummary(ctx context.Context, summary optimization.Summary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *mockArchiver) LoadSummary(ctx context.Context, id string) (*optimization.Summary, error) {
	args := m.Called(ctx, id)
	summary, _ := args.Get(0).(*optimization.Summary)
	return summary, args.Error(1)
}

func realDependencies(t *testing.T) Dependencies {
	t.Helper()
	engine, err := scoring.NewEngine(scoring.EngineConfig{Scoring: scoring.DefaultConfig()}, logger.NewNop())
	require.NoError(t, err)

	return Dependencies{
		Engine:      engine,
		Suggestions: suggestion.NewGenerator(suggestion.DefaultConfig(), logger.NewNop()),
		Variations:  variation.NewGenerator(logger.NewNop()),
		Predictor:   prediction.NewPredictor(prediction.DefaultConfig(), logger.NewNop()),
		Segments: segmentStore{"seg-eng": {
			ID:          "seg-eng",
			Name:        "Engineering leaders",
			Demographic: audience.DemographicProfile{Industry: "technology", Title: "Engineering Manager"},
		}},
	}
}

func newOrchestrator(t *testing.T, deps Dependencies, mutate ...func(*Config)) *Orchestrator {
	t.Helper()
	cfg := DefaultConfig()
	cfg.JanitorInterval = 0
	cfg.MonitorInterval = 10 * time.Millisecond
	for _, m := range mutate {
		m(&cfg)
	}
	o, err := NewOrchestrator(deps, cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = o.Stop(context.Background()) })
	return o
}

func request(opts optimization.Options) optimization.Request {
	return optimization.Request{
		Submission: content.Submission{Text: post, Platform: content.PlatformLinkedIn},
		SegmentID:  "seg-eng",
		Options:    opts,
	}
}

func TestNewOrchestratorRequiresDependencies(t *testing.T) {
	_, err := NewOrchestrator(Dependencies{}, DefaultConfig(), logger.NewNop())
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestRunSkipsOptionalStages(t *testing.T) {
	o := newOrchestrator(t, realDependencies(t))

	result := o.Run(context.Background(), request(optimization.Options{}))

	wf := result.Workflow
	require.Equal(t, optimization.StatusCompleted, wf.Status, wf.Errors)
	assert.Equal(t, 100, wf.Progress)
	assert.Zero(t, wf.VariationCount)
	assert.Zero(t, wf.PredictionCount)
	assert.Empty(t, result.Variations)
	assert.Empty(t, result.Predictions)
	assert.Nil(t, result.ABTest)
	assert.NotNil(t, result.Analysis)
	assert.Empty(t, wf.Errors)
	require.NotNil(t, wf.CompletedAt)

	var steps []optimization.Status
	var skipped []bool
	for _, st := range wf.StepTimings {
		steps = append(steps, st.Step)
		skipped = append(skipped, st.Skipped)
	}
	assert.Equal(t, []optimization.Status{
		optimization.StatusAnalyzing,
		optimization.StatusGeneratingSuggestions,
		optimization.StatusCreatingVariations,
		optimization.StatusPredictingPerformance,
	}, steps)
	assert.Equal(t, []bool{false, false, true, true}, skipped)
}

func TestRunFullPipeline(t *testing.T) {
	o := newOrchestrator(t, realDependencies(t))

	result := o.Run(context.Background(), request(optimization.Options{
		GenerateVariations: true,
		PredictPerformance: true,
		PredictPlatforms:   []content.Platform{content.PlatformLinkedIn, content.PlatformTwitter},
		ABTestMetric:       optimization.MetricEngagement,
	}))

	wf := result.Workflow
	require.Equal(t, optimization.StatusCompleted, wf.Status, wf.Errors)
	assert.Equal(t, len(result.Suggestions), wf.SuggestionCount)
	assert.Equal(t, len(result.Suggestions), result.Recommendations.Total)
	assert.NotZero(t, wf.VariationCount)
	assert.Equal(t, len(result.Variations), wf.VariationCount)
	assert.Equal(t, 2, wf.PredictionCount)
	require.NotNil(t, result.ABTest)
	assert.Equal(t, post, result.ABTest.Control)
	assert.LessOrEqual(t, len(result.ABTest.Variants), variation.DefaultABTestSize)
	assert.Empty(t, wf.Warnings)

	summary, err := o.Summary(context.Background(), wf.ID)
	require.NoError(t, err)
	assert.Equal(t, optimization.StatusCompleted, summary.Status)
	assert.Equal(t, result.Analysis.OverallScore, summary.OverallScore)
	assert.Equal(t, result.Analysis.Level, summary.Level)
	assert.LessOrEqual(t, len(summary.TopSuggestions), 3)
	assert.NotEmpty(t, summary.BestVariation)
	assert.Equal(t, 2, summary.PredictionCount)
}

func TestRunInvalidSubmissionFails(t *testing.T) {
	o := newOrchestrator(t, realDependencies(t))

	result := o.Run(context.Background(), optimization.Request{
		Submission: content.Submission{Text: "   ", Platform: content.PlatformLinkedIn},
	})

	wf := result.Workflow
	assert.Equal(t, optimization.StatusFailed, wf.Status)
	require.Len(t, wf.Errors, 1)
	assert.Contains(t, wf.Errors[0], "invalid submission")
	assert.Zero(t, wf.Progress)
	assert.Empty(t, wf.StepTimings)
	assert.Nil(t, result.Analysis)
	assert.NotNil(t, wf.CompletedAt)
}

func TestRunUnknownSegmentFails(t *testing.T) {
	o := newOrchestrator(t, realDependencies(t))

	req := request(optimization.Options{})
	req.SegmentID = "missing"
	result := o.Run(context.Background(), req)

	assert.Equal(t, optimization.StatusFailed, result.Workflow.Status)
	require.Len(t, result.Workflow.Errors, 1)
	assert.Contains(t, result.Workflow.Errors[0], ErrUnknownSegment.Error())
}

func TestRunInlineSegmentWinsOverID(t *testing.T) {
	deps := realDependencies(t)
	var seen *audience.Segment
	inner := deps.Engine
	deps.Engine = engineFunc(func(ctx context.Context, sub content.Submission, segment *audience.Segment) (*resonance.Analysis, error) {
		seen = segment
		return inner.Analyze(ctx, sub, segment)
	})
	o := newOrchestrator(t, deps)

	req := request(optimization.Options{})
	req.SegmentID = "missing"
	req.Segment = &audience.Segment{ID: "inline"}
	result := o.Run(context.Background(), req)

	require.Equal(t, optimization.StatusCompleted, result.Workflow.Status, result.Workflow.Errors)
	require.NotNil(t, seen)
	assert.Equal(t, "inline", seen.ID)
}

func TestAnalysisFailureIsFatal(t *testing.T) {
	deps := realDependencies(t)
	deps.Engine = engineFunc(func(context.Context, content.Submission, *audience.Segment) (*resonance.Analysis, error) {
		return nil, errors.New("analyzers unavailable")
	})
	o := newOrchestrator(t, deps)

	result := o.Run(context.Background(), request(optimization.Options{GenerateVariations: true}))

	wf := result.Workflow
	assert.Equal(t, optimization.StatusFailed, wf.Status)
	require.Len(t, wf.Errors, 1)
	assert.Contains(t, wf.Errors[0], "analysis failed: analyzers unavailable")
	assert.Equal(t, 10, wf.Progress)
	require.Len(t, wf.StepTimings, 1)
	assert.Equal(t, optimization.StatusAnalyzing, wf.StepTimings[0].Step)
	assert.Zero(t, wf.VariationCount)
}

func TestLaterStageFailuresDegrade(t *testing.T) {
	deps := realDependencies(t)
	deps.Variations = variationFunc(func(context.Context) ([]optimization.Variation, error) {
		panic("strategy table corrupted")
	})
	deps.Predictor = failingPredictor{}
	o := newOrchestrator(t, deps)

	result := o.Run(context.Background(), request(optimization.Options{
		GenerateVariations: true,
		PredictPerformance: true,
	}))

	wf := result.Workflow
	require.Equal(t, optimization.StatusCompleted, wf.Status, wf.Errors)
	require.Len(t, wf.Warnings, 2)
	assert.Contains(t, wf.Warnings[0], "variation generation failed: panic: strategy table corrupted")
	assert.Contains(t, wf.Warnings[1], "performance prediction failed")
	assert.Contains(t, wf.Warnings[1], "model unavailable")
	assert.Empty(t, result.Variations)
	assert.Empty(t, result.Predictions)
	assert.Zero(t, wf.VariationCount)
	assert.Zero(t, wf.PredictionCount)
	assert.Empty(t, wf.Errors)
}

func TestStageDeadlineDegrades(t *testing.T) {
	deps := realDependencies(t)
	deps.Variations = variationFunc(func(ctx context.Context) ([]optimization.Variation, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	o := newOrchestrator(t, deps, func(c *Config) { c.StageTimeout = 50 * time.Millisecond })

	result := o.Run(context.Background(), request(optimization.Options{GenerateVariations: true}))

	wf := result.Workflow
	require.Equal(t, optimization.StatusCompleted, wf.Status, wf.Errors)
	require.Len(t, wf.Warnings, 1)
	assert.Contains(t, wf.Warnings[0], context.DeadlineExceeded.Error())
}

func TestStatusSequenceIsMonotonic(t *testing.T) {
	deps := realDependencies(t)
	pub := &recordingPublisher{}
	deps.Publisher = pub
	o := newOrchestrator(t, deps)

	result := o.Run(context.Background(), request(optimization.Options{GenerateVariations: true}))
	id := result.Workflow.ID
	require.Equal(t, optimization.StatusCompleted, result.Workflow.Status)

	order := map[optimization.Status]int{
		optimization.StatusInitialized:           0,
		optimization.StatusAnalyzing:             1,
		optimization.StatusGeneratingSuggestions: 2,
		optimization.StatusCreatingVariations:    3,
		optimization.StatusPredictingPerformance: 4,
		optimization.StatusCompleted:             5,
		optimization.StatusFailed:                5,
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()

	last, lastProgress, terminals := -1, -1, 0
	var terminalSubjects []string
	for i, subject := range pub.subjects {
		if subject != "workflow."+id+".status" {
			terminalSubjects = append(terminalSubjects, subject)
			continue
		}
		var event StatusEvent
		require.NoError(t, json.Unmarshal(pub.payloads[i], &event))
		assert.GreaterOrEqual(t, order[event.Status], last, "status went backwards to %s", event.Status)
		assert.GreaterOrEqual(t, event.Progress, lastProgress)
		last, lastProgress = order[event.Status], event.Progress
		if event.Status.Terminal() {
			terminals++
		}
	}

	assert.Equal(t, 1, terminals)
	assert.Equal(t, 100, lastProgress)
	assert.Equal(t, []string{"workflow.completed"}, terminalSubjects)
}

func TestFailedWorkflowPublishesFailure(t *testing.T) {
	deps := realDependencies(t)
	pub := &recordingPublisher{}
	deps.Publisher = pub
	o := newOrchestrator(t, deps)

	o.Run(context.Background(), optimization.Request{Submission: content.Submission{Text: "hi", Platform: "myspace"}})

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.NotEmpty(t, pub.subjects)
	assert.Equal(t, "workflow.failed", pub.subjects[len(pub.subjects)-1])

	var summary optimization.Summary
	require.NoError(t, json.Unmarshal(pub.payloads[len(pub.payloads)-1], &summary))
	assert.Equal(t, optimization.StatusFailed, summary.Status)
	assert.NotEmpty(t, summary.Errors)
}

func TestCompletedWorkflowIsArchived(t *testing.T) {
	deps := realDependencies(t)
	archiver := &mockArchiver{}
	archiver.On("ArchiveSummary", mock.Anything, mock.MatchedBy(func(s optimization.Summary) bool {
		return s.Status == optimization.StatusCompleted && s.WorkflowID != ""
	})).Return(nil).Once()
	deps.Archiver = archiver
	o := newOrchestrator(t, deps)

	result := o.Run(context.Background(), request(optimization.Options{}))

	assert.Equal(t, optimization.StatusCompleted, result.Workflow.Status)
	archiver.AssertExpectations(t)
}

func TestArchiveFailureIsNotFatal(t *testing.T) {
	deps := realDependencies(t)
	archiver := &mockArchiver{}
	archiver.On("ArchiveSummary", mock.Anything, mock.Anything).Return(errors.New("db down"))
	deps.Archiver = archiver
	o := newOrchestrator(t, deps)

	result := o.Run(context.Background(), request(optimization.Options{}))
	assert.Equal(t, optimization.StatusCompleted, result.Workflow.Status)
}

func TestSummaryFallsBackToArchive(t *testing.T) {
	deps := realDependencies(t)
	archiver := &mockArchiver{}
	archived := &optimization.Summary{WorkflowID: "evicted", Status: optimization.StatusCompleted}
	archiver.On("LoadSummary", mock.Anything, "evicted").Return(archived, nil)
	archiver.On("LoadSummary", mock.Anything, "unknown").Return(nil, optimization.ErrWorkflowNotFound)
	deps.Archiver = archiver
	o := newOrchestrator(t, deps)

	summary, err := o.Summary(context.Background(), "evicted")
	require.NoError(t, err)
	assert.Equal(t, archived, summary)

	_, err = o.Summary(context.Background(), "unknown")
	assert.ErrorIs(t, err, optimization.ErrWorkflowNotFound)
}

func TestStartRunsInBackground(t *testing.T) {
	deps := realDependencies(t)
	release := make(chan struct{})
	inner := deps.Engine
	deps.Engine = engineFunc(func(ctx context.Context, sub content.Submission, segment *audience.Segment) (*resonance.Analysis, error) {
		<-release
		return inner.Analyze(ctx, sub, segment)
	})
	o := newOrchestrator(t, deps)
	ctx := context.Background()

	wf, err := o.Start(ctx, request(optimization.Options{PredictPerformance: true}))
	require.NoError(t, err)
	assert.Equal(t, optimization.StatusInitialized, wf.Status)
	assert.NotEmpty(t, wf.ID)

	require.Eventually(t, func() bool {
		st, err := o.Status(ctx, wf.ID)
		return err == nil && st.Status == optimization.StatusAnalyzing
	}, time.Second, 5*time.Millisecond)

	_, err = o.Summary(ctx, wf.ID)
	assert.ErrorIs(t, err, optimization.ErrNotTerminal)

	close(release)

	require.Eventually(t, func() bool {
		st, err := o.Status(ctx, wf.ID)
		return err == nil && st.Status == optimization.StatusCompleted
	}, 2*time.Second, 5*time.Millisecond)

	result, err := o.Result(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Workflow.PredictionCount)

	summary, err := o.Summary(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, wf.ID, summary.WorkflowID)
	assert.GreaterOrEqual(t, summary.Duration, time.Duration(0))
}

func TestStartReturnsInitialRecord(t *testing.T) {
	o := newOrchestrator(t, realDependencies(t))
	ctx := context.Background()

	// Fast runs race the returned record against the running stages
	ids := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		wf, err := o.Start(ctx, request(optimization.Options{GenerateVariations: true, PredictPerformance: true}))
		require.NoError(t, err)
		assert.Equal(t, optimization.StatusInitialized, wf.Status)
		assert.Equal(t, string(optimization.StatusInitialized), wf.CurrentStep)
		assert.Equal(t, 0, wf.Progress)
		assert.Empty(t, wf.StepTimings)
		assert.Nil(t, wf.CompletedAt)
		ids = append(ids, wf.ID)
	}

	for _, id := range ids {
		require.Eventually(t, func() bool {
			st, err := o.Status(ctx, id)
			return err == nil && st.Status == optimization.StatusCompleted
		}, 2*time.Second, 5*time.Millisecond)
	}
}

func TestStatusUnknownWorkflow(t *testing.T) {
	o := newOrchestrator(t, realDependencies(t))

	_, err := o.Status(context.Background(), "nope")
	assert.ErrorIs(t, err, optimization.ErrWorkflowNotFound)

	_, err = o.Summary(context.Background(), "nope")
	assert.ErrorIs(t, err, optimization.ErrWorkflowNotFound)
}

func TestStopCancelsRunningWorkflows(t *testing.T) {
	deps := realDependencies(t)
	deps.Engine = engineFunc(func(ctx context.Context, _ content.Submission, _ *audience.Segment) (*resonance.Analysis, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	o := newOrchestrator(t, deps)
	ctx := context.Background()

	wf, err := o.Start(ctx, request(optimization.Options{}))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		st, err := o.Status(ctx, wf.ID)
		return err == nil && st.Status == optimization.StatusAnalyzing
	}, time.Second, 5*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, o.Stop(stopCtx))

	st, err := o.Status(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, optimization.StatusFailed, st.Status)
	require.NotEmpty(t, st.Errors)
	assert.True(t, strings.Contains(st.Errors[0], "canceled"), st.Errors[0])

	_, err = o.Start(ctx, request(optimization.Options{}))
	assert.ErrorIs(t, err, ErrStopped)
}

func TestEvictExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	deps := realDependencies(t)
	store := NewMemoryStore()
	deps.Store = store
	deps.Clock = func() time.Time { return now }
	o := newOrchestrator(t, deps)

	result := o.Run(context.Background(), request(optimization.Options{}))
	require.Equal(t, 1, store.Len())

	assert.Zero(t, o.evictExpired(context.Background()))

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, o.evictExpired(context.Background()))

	_, err := o.Status(context.Background(), result.Workflow.ID)
	assert.ErrorIs(t, err, optimization.ErrWorkflowNotFound)
}
