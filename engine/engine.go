package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/voxalign/align"
	"github.com/kbukum/voxalign/analytics"
	"github.com/kbukum/voxalign/attribute"
	"github.com/kbukum/voxalign/compose"
	"github.com/kbukum/voxalign/config"
	"github.com/kbukum/voxalign/errors"
	"github.com/kbukum/voxalign/llm/ollama"
	"github.com/kbukum/voxalign/logger"
	"github.com/kbukum/voxalign/observability"
	"github.com/kbukum/voxalign/report"
	"github.com/kbukum/voxalign/resilience"
	"github.com/kbukum/voxalign/similarity"
	"github.com/kbukum/voxalign/tone"
	"github.com/kbukum/voxalign/transcript"
	"github.com/kbukum/voxalign/version"
)

// Input is everything a run reads. Assignments override the configured
// assignments key by key. Companions are single-speaker channels the host
// matched to this session; they are diagnosed and attributed exactly like
// mic channels found among Sources.
type Input struct {
	Sources     []transcript.Source
	Assignments transcript.Assignments
	Companions  []transcript.Source
}

// Engine runs the attribution stages over one session at a time. It keeps
// no per-run state and is safe for concurrent use.
type Engine struct {
	settings   *config.Settings
	log        *logger.Logger
	metrics    *observability.Metrics
	tone       tone.Summarizer
	newRunID   func() string
	diagnoser  *report.Diagnoser
	aligner    *align.Aligner
	attributor *attribute.Attributor
	analyzer   *analytics.Analyzer
}

// New validates settings and builds the stage components. A nil settings
// value uses config.Default.
func New(settings *config.Settings, opts ...Option) (*Engine, error) {
	if settings == nil {
		settings = config.Default()
	}
	settings.ApplyDefaults()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{settings: settings, newRunID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.New(&settings.Logging, settings.Name)
	}
	e.log = e.log.WithComponent("engine")
	if e.tone == nil && settings.Tone.Enabled {
		e.tone = newToneSummarizer(settings.Tone, e.log)
	}

	e.diagnoser = report.NewDiagnoser(report.WithLogger(e.log), report.WithMetrics(e.metrics))
	e.aligner = align.New(
		align.WithScorer(similarity.NewScorer(settings.ScorerOptions()...)),
		align.WithLabels(settings.Labels),
		align.WithWorkers(settings.Alignment.Workers),
		align.WithLogger(e.log),
	)
	e.attributor = attribute.New(attribute.WithLabels(settings.Labels), attribute.WithLogger(e.log))
	analyzerOpts := []analytics.Option{analytics.WithLogger(e.log)}
	if e.tone != nil {
		analyzerOpts = append(analyzerOpts, analytics.WithTone(e.tone))
	}
	e.analyzer = analytics.New(analyzerOpts...)
	return e, nil
}

// newToneSummarizer talks to an Ollama server. The breaker lives as long as
// the engine, so a dead backend stops slowing down later runs.
func newToneSummarizer(cfg config.ToneSettings, log *logger.Logger) *tone.LLMSummarizer {
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Attempts
	breaker := resilience.DefaultCircuitBreakerConfig("tone")
	breaker.MaxFailures = cfg.BreakerFailures
	breaker.Cooldown = cfg.BreakerCooldown
	breaker.OnStateChange = func(name string, from, to resilience.State) {
		log.Info("circuit breaker state changed", logger.Fields("breaker", name, "from", from.String(), "to", to.String()))
	}
	return tone.NewLLMSummarizer(
		ollama.NewProvider(ollama.Config{BaseURL: cfg.BaseURL, Model: cfg.Model}),
		log,
		tone.WithModel(cfg.Model),
		tone.WithMaxChars(cfg.MaxChars),
		tone.WithRetry(retry),
		tone.WithCircuitBreaker(resilience.NewCircuitBreaker(breaker)),
	)
}

// Settings returns the validated settings the engine was built with.
func (e *Engine) Settings() *config.Settings { return e.settings }

// HealthCheckers returns the components that report their own health.
func (e *Engine) HealthCheckers() []observability.HealthChecker {
	var out []observability.HealthChecker
	if hc, ok := e.tone.(observability.HealthChecker); ok {
		out = append(out, hc)
	}
	return out
}

// Diagnose loads and classifies every channel without attributing anything.
// The only error is the context's, wrapped as CANCELED.
func (e *Engine) Diagnose(ctx context.Context, in Input) (report.AnalysisReport, error) {
	ctx, span := observability.StartStage(ctx, string(report.StageDiagnosed))
	defer span.End()

	rep, _, err := e.diagnoser.Diagnose(ctx, in.sources(), e.assignments(in.Assignments))
	if err != nil {
		observability.SetSpanError(ctx, err)
		return report.AnalysisReport{}, errors.Canceled(string(report.StageDiagnosed), err)
	}
	return rep, nil
}

// run carries the intermediate values between stages.
type run struct {
	id          string
	log         *logger.Logger
	assignments transcript.Assignments
	analysis    report.AnalysisReport
	channels    report.Channels
	direct      []attribute.Result
	aligned     align.Result
	transcript  compose.Transcript
	statistics  analytics.Statistics
	failure     error
}

// Run attributes one session. A session without a usable master channel
// still yields a result, with Success false and its single-speaker channels
// attributed. The returned error is non-nil only when ctx ends the run.
func (e *Engine) Run(ctx context.Context, in Input) (*report.AttributionResult, error) {
	start := time.Now()
	r := &run{id: e.newRunID(), assignments: e.assignments(in.Assignments)}
	r.log = e.log.WithFields(logger.Fields(logger.FieldRunID, r.id))

	ctx, span := observability.StartSpan(ctx, "voxalign.run")
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrRunID, r.id)

	stages := []struct {
		stage report.Stage
		fn    func(context.Context, *run) error
	}{
		{report.StageDiagnosed, func(ctx context.Context, r *run) error { return e.diagnose(ctx, r, in.sources()) }},
		{report.StageAligned, e.align},
		{report.StageComposited, e.composite},
		{report.StageAnalyzed, e.analyze},
	}
	for _, s := range stages {
		if err := e.stage(ctx, r, s.stage, s.fn); err != nil {
			if ctx.Err() != nil {
				observability.SetSpanError(ctx, err)
				r.log.Warn("run canceled", logger.MergeWithError(logger.Fields(logger.FieldStage, string(s.stage)), err))
				return nil, errors.Canceled(string(s.stage), err)
			}
			r.failure = errors.Internal(err)
			break
		}
	}

	res := report.BuildResult(report.Build{
		RunID:              r.id,
		EngineVersion:      version.Engine(),
		Analysis:           &r.analysis,
		Transcript:         r.transcript,
		Mode:               r.mode(),
		Statistics:         r.statistics,
		ChannelTranscripts: r.direct,
		UnmatchedPreview:   e.settings.Report.UnmatchedPreview,
		Failure:            r.failure,
	})

	e.metrics.RecordRun(ctx, string(res.Mode), res.Success, time.Since(start))
	e.metrics.RecordUtterances(ctx, res.MatchedUtterances, res.UnmatchedUtterances)
	observability.SetSpanAttribute(ctx, observability.AttrMode, string(res.Mode))

	fields := logger.Fields(
		logger.FieldMode, string(res.Mode),
		"success", res.Success,
		"total", res.TotalUtterances,
		"matched", res.MatchedUtterances,
		"unmatched", res.UnmatchedUtterances,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	)
	if !res.Success {
		fields["reason"] = res.ErrorMessage
		r.log.Warn("run finished without a transcript", fields)
	} else {
		r.log.Info("run finished", fields)
	}
	return res, nil
}

// stage runs fn inside its own span and logs how long it took.
func (e *Engine) stage(ctx context.Context, r *run, stage report.Stage, fn func(context.Context, *run) error) error {
	ctx, span := observability.StartStage(ctx, string(stage))
	defer span.End()

	start := time.Now()
	err := fn(ctx, r)
	if err != nil {
		observability.SetSpanError(ctx, err)
		r.log.Debug("stage failed", logger.MergeWithError(logger.StageFields(string(stage), time.Since(start)), err))
		return err
	}
	r.log.Debug("stage done", logger.StageFields(string(stage), time.Since(start)))
	return nil
}

func (e *Engine) diagnose(ctx context.Context, r *run, sources []transcript.Source) error {
	rep, chans, err := e.diagnoser.Diagnose(ctx, sources, r.assignments)
	if err != nil {
		return err
	}
	r.analysis, r.channels = rep, chans
	observability.SetSpanAttribute(ctx, observability.AttrChannels, len(sources))
	return nil
}

// align attributes every single-speaker channel directly, then the master
// against those same channels.
func (e *Engine) align(ctx context.Context, r *run) error {
	candidates := make([]align.Candidate, 0, len(r.channels.Individuals))
	for _, ch := range r.channels.Individuals {
		res, err := e.attributor.Attribute(ctx, ch, r.assignments)
		if err != nil {
			return err
		}
		r.direct = append(r.direct, res)
		if c, ok := align.NewCandidate(ch, r.assignments, e.settings.Labels); ok {
			candidates = append(candidates, c)
		}
	}

	if !r.analysis.CanAlign() {
		r.failure = errors.NoMasterTranscript()
		r.aligned = align.Result{Mode: align.ModeNone}
		return nil
	}

	res, err := e.aligner.Align(ctx, *r.channels.Master, candidates, r.assignments)
	if err != nil {
		return err
	}
	r.aligned = res
	return nil
}

func (e *Engine) composite(_ context.Context, r *run) error {
	r.transcript = compose.Compose(r.aligned.Lines)
	return nil
}

func (e *Engine) analyze(ctx context.Context, r *run) error {
	stats, err := e.analyzer.Analyze(ctx, r.transcript)
	if err != nil {
		return err
	}
	r.statistics = stats
	return nil
}

func (r *run) mode() align.Mode {
	if r.aligned.Mode == "" {
		return align.ModeNone
	}
	return r.aligned.Mode
}

// assignments layers per-run assignments over the configured ones.
func (e *Engine) assignments(override transcript.Assignments) transcript.Assignments {
	out := e.settings.MicAssignments()
	for idx, name := range override {
		out[idx] = name
	}
	return out
}

func (in Input) sources() []transcript.Source {
	out := make([]transcript.Source, 0, len(in.Sources)+len(in.Companions))
	out = append(out, in.Sources...)
	return append(out, in.Companions...)
}
