// internal/service/scoring/engine.go

package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"resonance/internal/domain/audience"
	"resonance/internal/domain/content"
	"resonance/internal/domain/resonance"
	"resonance/internal/logger"
)

// EngineConfig contains configuration for the scoring engine
type EngineConfig struct {
	Scoring     Config
	Analyzers   []Analyzer
	Suggestions resonance.SuggestionSource
	Clock       func() time.Time
}

// Engine scores submissions against audience segments
type Engine struct {
	config      Config
	analyzers   []Analyzer
	aggregator  *Aggregator
	suggestions resonance.SuggestionSource
	cache       *lru.Cache[string, *resonance.Analysis]
	clock       func() time.Time
	tracer      trace.Tracer
	logger      *logger.Logger
}

// NewEngine creates a new scoring engine
func NewEngine(config EngineConfig, log *logger.Logger) (*Engine, error) {
	analyzers := config.Analyzers
	if len(analyzers) == 0 {
		analyzers = DefaultAnalyzers()
	}

	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	size := config.Scoring.CacheSize
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New[string, *resonance.Analysis](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis cache: %w", err)
	}

	return &Engine{
		config:      config.Scoring,
		analyzers:   analyzers,
		aggregator:  NewAggregator(config.Scoring),
		suggestions: config.Suggestions,
		cache:       cache,
		clock:       clock,
		tracer:      otel.Tracer("resonance/scoring"),
		logger:      log.With("service", "scoring"),
	}, nil
}

// SetSuggestionSource attaches the suggestion generator used to populate analyses
func (e *Engine) SetSuggestionSource(source resonance.SuggestionSource) {
	e.suggestions = source
}

// Analyze produces the resonance analysis for a submission and segment
func (e *Engine) Analyze(ctx context.Context, sub content.Submission, segment *audience.Segment) (*resonance.Analysis, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if segment == nil {
		segment = &audience.Segment{}
	}

	ctx, span := e.tracer.Start(ctx, "scoring.Analyze", trace.WithAttributes(
		attribute.String("platform", string(sub.Platform)),
		attribute.String("segment_id", segment.ID),
	))
	defer span.End()

	now := e.clock()
	in := Input{
		Submission: sub,
		Features:   ExtractFeatures(sub),
		Segment:    segment,
		Now:        now,
	}

	// Fan out to every analyzer; each task isolates its own failure
	results := make([]resonance.ComponentScore, len(e.analyzers))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range e.analyzers {
		i, a := i, a
		g.Go(func() error {
			results[i] = e.runAnalyzer(gctx, a, in)
			// Only cancellation of the whole analysis aborts the group
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, "cancelled")
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	components := make(map[resonance.Component]resonance.ComponentScore, len(results))
	for _, cs := range results {
		cs.Weight = e.config.Weights.For(cs.Component)
		components[cs.Component] = cs
	}

	agg := e.aggregator.Combine(components, sub)

	analysis := &resonance.Analysis{
		ID:                   analysisID(sub, segment, now),
		ContentHash:          sub.Key(),
		SegmentID:            segment.ID,
		Platform:             sub.Platform,
		Components:           components,
		OverallScore:         agg.Overall,
		Level:                agg.Level,
		ConfidenceScore:      agg.Confidence,
		EngagementPrediction: agg.Engagement,
		ViralPotential:       agg.Viral,
		Strengths:            agg.Strengths,
		Gaps:                 agg.Gaps,
		QuickWins:            []string{},
		Suggestions:          []resonance.Suggestion{},
		Compliance:           CheckCompliance(sub, in.Features),
		AnalyzedAt:           now,
	}

	if e.suggestions != nil {
		suggestions, err := e.suggestions.Generate(ctx, analysis, nil)
		if err != nil {
			// Log the error but continue
			e.logger.Warn("Failed to generate suggestions for analysis", "analysis_id", analysis.ID, "error", err)
		} else {
			analysis.Suggestions = suggestions
			analysis.QuickWins = e.quickWins(suggestions)
		}
	}

	if segment.ID != "" {
		e.cache.Add(cacheKey(sub, segment.ID), analysis)
	}

	span.SetAttributes(
		attribute.Float64("overall_score", analysis.OverallScore),
		attribute.String("level", string(analysis.Level)),
	)

	e.logger.Debug("Analysis complete",
		"analysis_id", analysis.ID,
		"overall", analysis.OverallScore,
		"level", analysis.Level,
		"confidence", analysis.ConfidenceScore)

	return analysis, nil
}

// Lookup returns a cached analysis for a (content, audience) pair
func (e *Engine) Lookup(sub content.Submission, segmentID string) (*resonance.Analysis, bool) {
	if segmentID == "" {
		return nil, false
	}
	return e.cache.Get(cacheKey(sub, segmentID))
}

// runAnalyzer runs one analyzer under its own deadline and span
func (e *Engine) runAnalyzer(ctx context.Context, a Analyzer, in Input) resonance.ComponentScore {
	component := a.Component()
	ctx, span := e.tracer.Start(ctx, "scoring."+string(component))
	defer span.End()

	score := e.scoreComponent(ctx, a, in)

	span.SetAttributes(
		attribute.Float64("score", score.Score),
		attribute.Float64("confidence", score.Confidence),
		attribute.Bool("degraded", score.Degraded),
	)
	if score.Degraded {
		span.SetStatus(codes.Error, strings.Join(score.Notes, "; "))
	}

	e.logger.Debug("Analyzer scored",
		"component", component,
		"score", score.Score,
		"confidence", score.Confidence,
		"factors", factorSummary(score.Factors),
		"notes", len(score.Notes))

	return score
}

// scoreComponent converts errors, panics and timeouts into the component's default score
func (e *Engine) scoreComponent(ctx context.Context, a Analyzer, in Input) resonance.ComponentScore {
	component := a.Component()
	weight := e.config.Weights.For(component)

	if e.config.AnalyzerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.AnalyzerTimeout)
		defer cancel()
	}

	type outcome struct {
		score resonance.ComponentScore
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		score, err := a.Analyze(ctx, in)
		done <- outcome{score: score, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			e.logger.Warn("Analyzer failed, using default score", "component", component, "error", out.err)
			return DefaultScore(component, weight, out.err.Error())
		}
		out.score.Component = component
		return out.score
	case <-ctx.Done():
		e.logger.Warn("Analyzer timed out, using default score", "component", component, "error", ctx.Err())
		return DefaultScore(component, weight, ctx.Err().Error())
	}
}

func (e *Engine) quickWins(suggestions []resonance.Suggestion) []string {
	wins := []string{}
	for _, s := range suggestions {
		if s.IsEasy() && s.ImpactScore > e.config.QuickWinImpact {
			wins = append(wins, s.Title)
		}
	}
	return wins
}

// factorSummary renders sub-factors as name=value pairs for debug logs
func factorSummary(factors []resonance.Factor) string {
	parts := make([]string, 0, len(factors))
	for _, f := range factors {
		parts = append(parts, fmt.Sprintf("%s=%.2f", f.Name, f.Value))
	}
	return strings.Join(parts, " ")
}

// analysisNamespace scopes analysis IDs derived from their inputs
var analysisNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("resonance/analysis"))

// analysisID is stable for identical submission, segment and analysis time
func analysisID(sub content.Submission, segment *audience.Segment, now time.Time) string {
	seed := sub.Fingerprint() + "|" + segment.ID + "|" + now.UTC().Format(time.RFC3339Nano)
	if segment.ID == "" {
		// Inline segments are identified by their profile
		if data, err := json.Marshal(segment); err == nil {
			seed += "|" + content.Hash(string(data))
		}
	}
	return uuid.NewSHA1(analysisNamespace, []byte(seed)).String()
}

func cacheKey(sub content.Submission, segmentID string) string {
	return sub.Fingerprint() + "|" + segmentID
}
