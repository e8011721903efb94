package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/semanalyzer/ai"
	"github.com/poiesic/semanalyzer/core"
	"github.com/poiesic/semanalyzer/metrics"
)

// LongTextWords is the word count above which a text gets the longer
// summary window.
const LongTextWords = 50

// FailurePolicy decides what a unit yields when a model-backed stage fails.
type FailurePolicy int

const (
	// PartialResults returns the profile with failed stages left nil and
	// listed in FailedStages, alongside the stage errors.
	PartialResults FailurePolicy = iota
	// FailUnit discards the profile of any unit with a failed stage.
	FailUnit
)

func (p FailurePolicy) String() string {
	switch p {
	case PartialResults:
		return "partial"
	case FailUnit:
		return "fail-unit"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseFailurePolicy converts "partial" or "fail-unit" into a FailurePolicy.
func ParseFailurePolicy(name string) (FailurePolicy, error) {
	switch name {
	case "partial", "":
		return PartialResults, nil
	case "fail-unit":
		return FailUnit, nil
	default:
		return 0, fmt.Errorf("unknown failure policy %q", name)
	}
}

// Outcome is the result of profiling one text of a batch.
type Outcome struct {
	Index   int
	Profile *core.QualitativeProfile
	Err     error
}

// Profiler runs the sentiment, theme, topic and lexical stages over text
// units. The model-backed stages are injected through an ai.AIProvider.
type Profiler struct {
	sentiment  ai.SentimentClassifier
	summarizer ai.Summarizer
	topics     ai.TopicLabeler
	labels     []string

	policy        FailurePolicy
	pool          *ants.Pool
	retryAttempts int
	retryDelay    time.Duration
	progress      io.Writer
	monitor       Monitor
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// Option configures a Profiler.
type Option func(*Profiler) error

// WithFailurePolicy sets how stage failures affect a unit's result.
// Default is PartialResults.
func WithFailurePolicy(policy FailurePolicy) Option {
	return func(p *Profiler) error {
		if policy != PartialResults && policy != FailUnit {
			return fmt.Errorf("unknown failure policy %d", int(policy))
		}
		p.policy = policy
		return nil
	}
}

// WithWorkers profiles up to n units of a batch concurrently.
// Default is 1, which profiles sequentially.
func WithWorkers(n int) Option {
	return func(p *Profiler) error {
		if p.pool != nil {
			p.pool.Release()
			p.pool = nil
		}
		if n <= 1 {
			return nil
		}
		pool, err := ants.NewPool(n)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithRetry retries a failing model stage up to attempts times in total,
// waiting baseDelay before the first retry and doubling after each.
// Default is a single attempt.
func WithRetry(attempts int, baseDelay time.Duration) Option {
	return func(p *Profiler) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.retryAttempts = attempts
		p.retryDelay = baseDelay
		return nil
	}
}

// WithProgress writes batch progress to w.
func WithProgress(w io.Writer) Option {
	return func(p *Profiler) error {
		p.progress = w
		return nil
	}
}

// WithMonitor installs hooks that observe each unit and stage.
func WithMonitor(m Monitor) Option {
	return func(p *Profiler) error {
		if m == nil {
			m = &noopMonitor{}
		}
		p.monitor = m
		return nil
	}
}

// WithMetrics records stage latency, stage failures and unit outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Profiler) error {
		p.metrics = m
		return nil
	}
}

// WithTopicLabels replaces the candidate topic labels.
// Default is ai.TopicLabels.
func WithTopicLabels(labels []string) Option {
	return func(p *Profiler) error {
		if len(labels) == 0 {
			return errors.New("topic labels must not be empty")
		}
		p.labels = append([]string(nil), labels...)
		return nil
	}
}

// WithLogger sets a custom logger.
// If logger is nil, uses slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Profiler) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "profiler")
		return nil
	}
}

// NewProfiler creates a profiler backed by provider's classifiers.
func NewProfiler(provider ai.AIProvider, opts ...Option) (*Profiler, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	p := &Profiler{
		sentiment:     provider.SentimentClassifier(),
		summarizer:    provider.Summarizer(),
		topics:        provider.TopicLabeler(),
		labels:        ai.TopicLabels,
		policy:        PartialResults,
		retryAttempts: 1,
		monitor:       &noopMonitor{},
		logger:        slog.Default().With("component", "profiler"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			p.Release()
			return nil, err
		}
	}
	return p, nil
}

// Release releases the worker pool, if any.
// The profiler should not be used after calling Release.
func (p *Profiler) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// Profile profiles a single text block.
//
// Under PartialResults a failed stage yields a non-nil profile together with
// the joined *core.StageError values; under FailUnit the profile is nil.
func (p *Profiler) Profile(ctx context.Context, text string) (*core.QualitativeProfile, error) {
	return p.ProfileUnit(ctx, core.NewTextUnit(0, text, core.GranularityText))
}

// ProfileUnit profiles one text unit. Blank content is rejected with
// core.ErrEmptyInput before any model is called.
func (p *Profiler) ProfileUnit(ctx context.Context, unit core.TextUnit) (*core.QualitativeProfile, error) {
	if err := core.ValidateText(unit.Content); err != nil {
		return nil, err
	}

	p.monitor.StartUnit(unit)
	profile := &core.QualitativeProfile{Unit: unit}
	var stageErrs []error

	err := p.runStage(ctx, unit, core.StageSentiment, func(ctx context.Context) error {
		label, err := p.sentiment.ClassifySentiment(ctx, unit.Content)
		if err != nil {
			return err
		}
		if err := core.ValidateLabel(label); err != nil {
			return err
		}
		profile.Sentiment = &label
		return nil
	})
	stageErrs = record(profile, core.StageSentiment, err, stageErrs)

	minWords, maxWords := summaryBounds(len(strings.Fields(unit.Content)))
	err = p.runStage(ctx, unit, core.StageTheme, func(ctx context.Context) error {
		summary, err := p.summarizer.Summarize(ctx, unit.Content, minWords, maxWords)
		if err != nil {
			return err
		}
		profile.Theme = &summary
		return nil
	})
	stageErrs = record(profile, core.StageTheme, err, stageErrs)

	err = p.runStage(ctx, unit, core.StageTopic, func(ctx context.Context) error {
		labels, err := p.topics.ClassifyTopics(ctx, unit.Content, p.labels)
		if err != nil {
			return err
		}
		for _, label := range labels {
			if err := core.ValidateLabel(label); err != nil {
				return err
			}
		}
		profile.Topics = sortTopics(labels)
		return nil
	})
	stageErrs = record(profile, core.StageTopic, err, stageErrs)

	profile.Lexical = Lexical(unit.Content)

	err = errors.Join(stageErrs...)
	switch {
	case err == nil:
		p.metrics.UnitProfiled(metrics.UnitComplete)
	case p.policy == FailUnit:
		p.metrics.UnitProfiled(metrics.UnitFailed)
		profile = nil
	default:
		p.metrics.UnitProfiled(metrics.UnitPartial)
	}

	p.monitor.FinishUnit(unit, profile, err)
	return profile, err
}

// ProfileMany profiles each text as an independent unit. The result has one
// Outcome per text in input order; a failing unit never aborts the others.
// The only batch-level error is core.ErrEmptyInput for an empty batch.
func (p *Profiler) ProfileMany(ctx context.Context, texts []string) ([]Outcome, error) {
	if err := core.ValidateTexts(texts, 1); err != nil {
		return nil, err
	}

	units := core.NewTextUnits(texts, core.GranularityText)
	outcomes := make([]Outcome, len(units))

	var tracker *ProgressTracker
	if p.progress != nil {
		tracker = NewProgressTracker(p.progress, len(units), 1)
		tracker.Start()
	}

	profileOne := func(i int) {
		profile, err := p.ProfileUnit(ctx, units[i])
		outcomes[i] = Outcome{Index: i, Profile: profile, Err: err}
		if err != nil {
			p.logger.Warn("unit profiled with errors", "index", i, "err", err)
		}
		if tracker != nil {
			tracker.Increment(1)
		}
	}

	if p.pool == nil {
		for i := range units {
			profileOne(i)
		}
	} else {
		var wg sync.WaitGroup
		for i := range units {
			wg.Add(1)
			idx := i
			if err := p.pool.Submit(func() {
				defer wg.Done()
				profileOne(idx)
			}); err != nil {
				p.logger.Warn("worker pool rejected unit", "index", idx, "err", err)
				profileOne(idx)
				wg.Done()
			}
		}
		wg.Wait()
	}

	if tracker != nil {
		p.logger.Debug("batch profiled", "units", len(units), "elapsed", tracker.Elapsed())
		tracker.Finish()
	}
	return outcomes, nil
}

// runStage runs one model-backed stage with retries, timing and hooks.
// A failure is returned as a *core.StageError.
func (p *Profiler) runStage(ctx context.Context, unit core.TextUnit, stage core.Stage, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := RetryWithBackoff(ctx, fn, p.retryAttempts, p.retryDelay)
	elapsed := time.Since(start)

	p.metrics.ObserveStage(stage, elapsed, err)
	p.monitor.StageFinished(unit, stage, elapsed, err)
	if err != nil {
		p.logger.Debug("stage failed", "stage", stage, "index", unit.Index, "err", err)
		return &core.StageError{Stage: stage, Cause: err}
	}
	return nil
}

// record notes a failed stage on profile and collects its error.
func record(profile *core.QualitativeProfile, stage core.Stage, err error, errs []error) []error {
	if err == nil {
		return errs
	}
	profile.FailedStages = append(profile.FailedStages, stage)
	return append(errs, err)
}

// sortTopics orders labels by descending confidence, ties by label.
func sortTopics(labels []core.Label) []core.Label {
	sorted := append([]core.Label(nil), labels...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.Label < b.Label
	})
	return sorted
}
