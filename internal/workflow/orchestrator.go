package workflow

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/recruitflow/recruitflow/internal/fault"
	"github.com/recruitflow/recruitflow/internal/logger"
	"github.com/recruitflow/recruitflow/internal/matching"
	"github.com/recruitflow/recruitflow/internal/notify"
	"github.com/recruitflow/recruitflow/internal/vectorstore"
)

// State is the orchestrator's position in the pipeline.
type State string

const (
	StateIdle       State = "idle"
	StateExtracting State = "extracting"
	StateMatching   State = "matching"
	StateNotifying  State = "notifying"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// RunRequest names the inputs for one pipeline run.
type RunRequest struct {
	JobDescriptionPath string `json:"job_description_path" mapstructure:"job_description_path"`
	RosterPath         string `json:"roster_path" mapstructure:"roster_path"`
	SendNotifications  bool   `json:"send_notifications" mapstructure:"send_notifications"`
}

// RunResult is the immutable record of one pipeline run. Stage results are
// keyed by stage name; skipped stages are absent.
type RunResult struct {
	RunID      string             `json:"run_id"`
	Success    bool               `json:"success"`
	State      State              `json:"final_state"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Duration   time.Duration      `json:"duration_ns"`
	Stages     map[string]*Result `json:"stages"`

	CandidatesEvaluated int `json:"candidates_evaluated"`
	MatchesFound        int `json:"matches_found"`
	EmailsSent          int `json:"emails_sent"`
}

// StepRequest is one step of a custom workflow: a stage name and its
// loosely-typed input, decoded into the stage's input type before running.
type StepRequest struct {
	Stage string
	Input any
}

// Orchestrator sequences the pipeline stages and tracks run state. A failed
// stage short-circuits the run; later stages never execute. Safe for use from
// one goroutine at a time; state reads are synchronized.
type Orchestrator struct {
	extract Stage
	match   Stage
	notify  Stage
	store   vectorstore.Store
	logger  *zap.Logger

	mu      sync.Mutex
	state   State
	lastRun *RunResult
}

// Option tweaks orchestrator construction.
type Option func(*Orchestrator)

// WithVectorStore enables best-effort export of match embeddings after the
// matching stage. Export failures are logged, never fatal.
func WithVectorStore(store vectorstore.Store) Option {
	return func(o *Orchestrator) { o.store = store }
}

// NewOrchestrator wires the three pipeline stages. Stages are resolved by
// name, so alternative implementations can stand in for any of them.
func NewOrchestrator(extract, match, notify Stage, log *zap.Logger, opts ...Option) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	o := &Orchestrator{
		extract: extract,
		match:   match,
		notify:  notify,
		logger:  log,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the orchestrator's current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastRun returns the most recent run result, or nil before the first run.
func (o *Orchestrator) LastRun() *RunResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastRun
}

// Reset returns the orchestrator to the idle state and clears the last run.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = StateIdle
	o.lastRun = nil
	o.logger.Debug("orchestrator reset")
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// stageFor resolves a stage by name.
func (o *Orchestrator) stageFor(name string) (Stage, bool) {
	switch name {
	case StageExtraction:
		return o.extract, true
	case StageMatching:
		return o.match, true
	case StageNotification:
		return o.notify, true
	default:
		return nil, false
	}
}

// Run executes the full pipeline. It never returns a Go error: failures are
// recorded in the result and leave the orchestrator in the failed state.
func (o *Orchestrator) Run(ctx context.Context, req RunRequest) *RunResult {
	run := &RunResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Stages:    make(map[string]*Result),
	}
	log := logger.WithFields(o.logger, zap.String(logger.FieldRunID, run.RunID))
	log.Info("run started",
		zap.String("job_description", req.JobDescriptionPath),
		zap.String("roster", req.RosterPath),
		zap.Bool("send_notifications", req.SendNotifications),
	)

	if err := validateRequest(req); err != nil {
		run.Stages[StageExtraction] = failed(StageExtraction, err)
		return o.finish(run, StateFailed, log)
	}

	o.setState(StateExtracting)
	extractRes := o.runStage(ctx, o.extract, &ExtractInput{
		JobDescriptionPath: req.JobDescriptionPath,
		RosterPath:         req.RosterPath,
	}, run.RunID)
	run.Stages[StageExtraction] = extractRes
	if !extractRes.Success {
		return o.finish(run, StateFailed, log)
	}
	extracted, ok := extractRes.Payload.(*ExtractOutput)
	if !ok {
		run.Stages[StageExtraction] = failed(StageExtraction,
			fault.Newf(fault.Unknown, "extraction produced %T, want *ExtractOutput", extractRes.Payload))
		return o.finish(run, StateFailed, log)
	}
	run.CandidatesEvaluated = extracted.TotalCandidates

	o.setState(StateMatching)
	matchRes := o.runStage(ctx, o.match, &MatchInput{
		Job:        extracted.Job,
		Candidates: extracted.Candidates,
	}, run.RunID)
	run.Stages[StageMatching] = matchRes
	if !matchRes.Success {
		return o.finish(run, StateFailed, log)
	}
	matched, ok := matchRes.Payload.(*matching.Result)
	if !ok {
		run.Stages[StageMatching] = failed(StageMatching,
			fault.Newf(fault.Unknown, "matching produced %T, want *matching.Result", matchRes.Payload))
		return o.finish(run, StateFailed, log)
	}
	run.MatchesFound = matched.MatchesFound

	o.exportMatches(ctx, run.RunID, matched, log)

	if req.SendNotifications && matched.MatchesFound > 0 {
		o.setState(StateNotifying)
		notifyRes := o.runStage(ctx, o.notify, &NotifyInput{
			Matches: matched.Matches,
			Job: notify.JobDisplay{
				Title:   extracted.Job.Details.Title,
				Company: extracted.Job.Details.Company,
			},
		}, run.RunID)
		run.Stages[StageNotification] = notifyRes
		if !notifyRes.Success {
			return o.finish(run, StateFailed, log)
		}
		if sent, ok := notifyRes.Payload.(*notify.Result); ok {
			run.EmailsSent = sent.EmailsSent
		}
	}

	return o.finish(run, StateCompleted, log)
}

// RunCustom executes an arbitrary stage sequence. Step inputs are decoded
// into each stage's input type, so they may arrive as maps from a parsed
// config or request body. Execution stops at the first failed stage.
func (o *Orchestrator) RunCustom(ctx context.Context, steps []StepRequest) map[string]*Result {
	results := make(map[string]*Result, len(steps))
	for _, step := range steps {
		stage, ok := o.stageFor(step.Stage)
		if !ok {
			results[step.Stage] = failed(step.Stage,
				fault.Newf(fault.Validation, "unknown stage %q", step.Stage))
			return results
		}

		input := stage.NewInput()
		if step.Input != nil && reflect.TypeOf(step.Input) == reflect.TypeOf(input) {
			input = step.Input
		} else if err := decodeInput(step.Input, input); err != nil {
			results[step.Stage] = failed(step.Stage,
				fault.Wrap(fault.Validation, err, fmt.Sprintf("decode %s input", step.Stage)))
			return results
		}

		res := o.runStage(ctx, stage, input, "")
		results[step.Stage] = res
		if !res.Success {
			return results
		}
	}
	return results
}

func (o *Orchestrator) runStage(ctx context.Context, stage Stage, input any, runID string) *Result {
	log := logger.WithRunFields(o.logger, stage.Name(), runID)

	start := time.Now()
	res := o.processStage(ctx, stage, input)
	res.Duration = time.Since(start)
	if res.Success {
		log.Debug("stage succeeded", zap.Duration("took", res.Duration))
	} else {
		log.Error("stage failed",
			zap.String("error_type", res.Failure.Kind),
			zap.String("error", res.Failure.Message),
		)
	}
	return res
}

// processStage converts a panicking stage into a failed result so a single
// bad record cannot take down the whole run.
func (o *Orchestrator) processStage(ctx context.Context, stage Stage, input any) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failed(stage.Name(), fault.Newf(fault.Unknown, "stage panicked: %v", r))
		}
	}()
	return stage.Process(ctx, input)
}

// exportMatches pushes match embeddings to the vector store when one is
// configured. Failures are logged and swallowed.
func (o *Orchestrator) exportMatches(ctx context.Context, runID string, matched *matching.Result, log *zap.Logger) {
	if o.store == nil || matched.MatchesFound == 0 {
		return
	}
	if err := o.store.ExportMatches(ctx, runID, matched.Matches); err != nil {
		log.Warn("vector export failed", zap.Error(err))
	}
}

func (o *Orchestrator) finish(run *RunResult, state State, log *zap.Logger) *RunResult {
	run.Success = state == StateCompleted
	run.State = state
	run.FinishedAt = time.Now().UTC()
	run.Duration = run.FinishedAt.Sub(run.StartedAt)

	o.mu.Lock()
	o.state = state
	o.lastRun = run
	o.mu.Unlock()

	log.Info("run finished",
		zap.Bool("success", run.Success),
		zap.String("state", string(state)),
		zap.Int("candidates_evaluated", run.CandidatesEvaluated),
		zap.Int("matches_found", run.MatchesFound),
		zap.Int("emails_sent", run.EmailsSent),
		zap.Duration("took", run.Duration),
	)
	return run
}

func validateRequest(req RunRequest) error {
	if req.JobDescriptionPath == "" {
		return fault.New(fault.Validation, "job description path is required")
	}
	if req.RosterPath == "" {
		return fault.New(fault.Validation, "roster path is required")
	}
	if _, err := os.Stat(req.JobDescriptionPath); err != nil {
		return fault.Wrap(fault.Validation, err, "job description not readable")
	}
	if _, err := os.Stat(req.RosterPath); err != nil {
		return fault.Wrap(fault.Validation, err, "roster not readable")
	}
	return nil
}

// decodeInput fills a stage input from a loosely-typed value. A value that
// already has the right concrete type passes through untouched.
func decodeInput(raw, target any) error {
	if raw == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
