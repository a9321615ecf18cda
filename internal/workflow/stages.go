package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/recruitflow/recruitflow/internal/extract"
	"github.com/recruitflow/recruitflow/internal/fault"
	"github.com/recruitflow/recruitflow/internal/matching"
	"github.com/recruitflow/recruitflow/internal/notify"
)

const (
	StageExtraction   = "extraction"
	StageMatching     = "matching"
	StageNotification = "notification"
)

// ExtractInput names the source documents for the extraction stage.
type ExtractInput struct {
	JobDescriptionPath string `json:"job_description_path" mapstructure:"job_description_path"`
	RosterPath         string `json:"roster_path" mapstructure:"roster_path"`
}

// ExtractOutput carries the parsed documents into the matching stage.
type ExtractOutput struct {
	Job             *extract.JobRecord        `json:"job"`
	Candidates      []extract.CandidateRecord `json:"candidates"`
	Validation      *extract.Validation       `json:"validation"`
	TotalCandidates int                       `json:"total_candidates"`
}

// ExtractStage parses the job description PDF and the candidate roster CSV.
type ExtractStage struct {
	extractor *extract.Extractor
	logger    *zap.Logger
}

func NewExtractStage(extractor *extract.Extractor, logger *zap.Logger) *ExtractStage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractStage{extractor: extractor, logger: logger}
}

func (s *ExtractStage) Name() string  { return StageExtraction }
func (s *ExtractStage) NewInput() any { return &ExtractInput{} }

func (s *ExtractStage) Process(ctx context.Context, input any) *Result {
	in, ok := input.(*ExtractInput)
	if !ok {
		return failed(s.Name(), fault.Newf(fault.Validation, "extraction expects *ExtractInput, got %T", input))
	}
	if err := ctx.Err(); err != nil {
		return failed(s.Name(), fault.Wrap(fault.Unknown, err, "extraction cancelled"))
	}

	job, err := s.extractor.JobDescription(in.JobDescriptionPath)
	if err != nil {
		return failed(s.Name(), err)
	}
	candidates, err := s.extractor.Roster(in.RosterPath)
	if err != nil {
		return failed(s.Name(), err)
	}

	validation := s.extractor.Validate(job, candidates)
	s.logger.Info("extraction complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("job_words", job.WordCount),
		zap.Bool("valid", validation.JobDescriptionValid && validation.RosterValid),
	)

	return succeeded(s.Name(), &ExtractOutput{
		Job:             job,
		Candidates:      candidates,
		Validation:      validation,
		TotalCandidates: len(candidates),
	})
}

// MatchInput feeds extraction output into the matching engine.
type MatchInput struct {
	Job        *extract.JobRecord        `json:"job" mapstructure:"job"`
	Candidates []extract.CandidateRecord `json:"candidates" mapstructure:"candidates"`
}

// MatchStage embeds, scores, ranks and filters candidates against the job.
type MatchStage struct {
	engine *matching.Engine
	cfg    matching.Config
	logger *zap.Logger
}

func NewMatchStage(engine *matching.Engine, cfg matching.Config, logger *zap.Logger) *MatchStage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchStage{engine: engine, cfg: cfg, logger: logger}
}

func (s *MatchStage) Name() string  { return StageMatching }
func (s *MatchStage) NewInput() any { return &MatchInput{} }

func (s *MatchStage) Process(ctx context.Context, input any) *Result {
	in, ok := input.(*MatchInput)
	if !ok {
		return failed(s.Name(), fault.Newf(fault.Validation, "matching expects *MatchInput, got %T", input))
	}

	result, err := s.engine.Match(ctx, in.Job, in.Candidates, s.cfg)
	if err != nil {
		return failed(s.Name(), err)
	}

	s.logger.Info("matching complete",
		zap.Int("evaluated", result.TotalEvaluated),
		zap.Int("matches", result.MatchesFound),
		zap.Float64("threshold", result.Threshold),
	)
	return succeeded(s.Name(), result)
}

// NotifyInput feeds the surviving matches into the notification stage.
type NotifyInput struct {
	Matches []matching.Match  `json:"matches" mapstructure:"matches"`
	Job     notify.JobDisplay `json:"job" mapstructure:"job"`
}

// NotifyStage emails every match in ranked order.
type NotifyStage struct {
	notifier *notify.Notifier
	logger   *zap.Logger
}

func NewNotifyStage(notifier *notify.Notifier, logger *zap.Logger) *NotifyStage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotifyStage{notifier: notifier, logger: logger}
}

func (s *NotifyStage) Name() string  { return StageNotification }
func (s *NotifyStage) NewInput() any { return &NotifyInput{} }

func (s *NotifyStage) Process(ctx context.Context, input any) *Result {
	in, ok := input.(*NotifyInput)
	if !ok {
		return failed(s.Name(), fault.Newf(fault.Validation, "notification expects *NotifyInput, got %T", input))
	}

	result, err := s.notifier.Notify(ctx, in.Matches, in.Job)
	if err != nil {
		return failed(s.Name(), err)
	}

	s.logger.Info("notification complete",
		zap.Int("sent", result.EmailsSent),
		zap.Int("recipients", len(result.Deliveries)),
	)
	return succeeded(s.Name(), result)
}
