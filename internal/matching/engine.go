package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/recruitflow/recruitflow/internal/embedding"
	"github.com/recruitflow/recruitflow/internal/extract"
	"github.com/recruitflow/recruitflow/internal/fault"
)

const (
	// DefaultThreshold is the minimum similarity a candidate must score to
	// survive filtering.
	DefaultThreshold = 0.7
	// DefaultTopK caps the number of surviving matches.
	DefaultTopK = 10
)

// Config controls ranking and filtering. Values are fixed at run
// construction time and immutable for the run's duration.
type Config struct {
	// Threshold is the minimum similarity score in [0,1] a match must reach.
	// Nil means DefaultThreshold; an explicit 0 disables filtering.
	Threshold *float64 `mapstructure:"threshold"`
	// TopK is the maximum number of matches kept after filtering.
	TopK int `mapstructure:"top-k"`
}

// resolve fills unset fields with the defaults.
func (c Config) resolve() (threshold float64, topK int) {
	threshold = DefaultThreshold
	if c.Threshold != nil {
		threshold = *c.Threshold
	}
	topK = c.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	return threshold, topK
}

// Match pairs a candidate with its similarity against the job. One Match is
// produced per candidate before filtering; only survivors are returned.
type Match struct {
	Candidate extract.CandidateRecord `json:"candidate"`
	// SimilarityScore is the cosine similarity in [-1,1]; with normalized
	// text embeddings it lands in [0,1] in practice.
	SimilarityScore float64 `json:"similarity_score"`
	// Rank is 1-based and dense; ties keep roster order.
	Rank int `json:"rank"`
	// Percentile follows the historical convention: rank 1 receives the
	// highest percentile, (total-rank+1)/total*100.
	Percentile float64 `json:"percentile"`
	// MatchID is deterministic for identical input: match_<index>_<score*1000>.
	MatchID string `json:"match_id"`

	// Embedding is kept for optional vector-index export; it is not part of
	// the serializable report.
	Embedding embedding.Vector `json:"-"`
}

// Result is the matching engine's output for one run.
type Result struct {
	Matches        []Match   `json:"matches"`
	Analysis       *Analysis `json:"analysis"`
	TotalEvaluated int       `json:"total_evaluated"`
	MatchesFound   int       `json:"matches_found"`
	Threshold      float64   `json:"threshold"`

	// JobEmbedding is kept for optional vector-index export only.
	JobEmbedding embedding.Vector `json:"-"`
}

// Engine scores candidates against a job using an embedding provider and
// cosine similarity. It carries no per-run state.
type Engine struct {
	provider embedding.Provider
	logger   *zap.Logger
}

// NewEngine builds a matching engine around the given provider.
func NewEngine(provider embedding.Provider, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{provider: provider, logger: logger}
}

// Match embeds the job and every candidate, scores, ranks, filters and
// analyzes. Candidates must be in roster order; ranking tie-breaks depend on
// it. Provider and scorer errors propagate unchanged; nothing is retried.
func (e *Engine) Match(ctx context.Context, job *extract.JobRecord, candidates []extract.CandidateRecord, cfg Config) (*Result, error) {
	if job == nil || strings.TrimSpace(job.Text) == "" {
		return nil, fault.New(fault.Validation, "job description text is empty")
	}
	if len(candidates) == 0 {
		return nil, fault.New(fault.Validation, "candidate list is empty")
	}

	threshold, topK := cfg.resolve()

	jobEmbedding, err := e.provider.Embed(ctx, jobText(job))
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = candidateText(c)
	}

	candidateEmbeddings, err := e.provider.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(candidateEmbeddings) != len(candidates) {
		return nil, fault.Newf(fault.Embedding, "expected %d candidate embeddings, got %d", len(candidates), len(candidateEmbeddings))
	}

	matches := make([]Match, 0, len(candidates))
	for i, emb := range candidateEmbeddings {
		score, err := embedding.Cosine(jobEmbedding, emb)
		if err != nil {
			return nil, err
		}

		matches = append(matches, Match{
			Candidate:       candidates[i],
			SimilarityScore: score,
			MatchID:         fmt.Sprintf("match_%d_%d", i, int(score*1000)),
			Embedding:       emb,
		})
	}

	rank(matches)
	survivors := filter(matches, threshold, topK)
	analysis := Analyze(survivors, job.SkillsRequired)

	e.logger.Info("matching completed",
		zap.Int("candidates_evaluated", len(candidates)),
		zap.Int("matches_found", len(survivors)),
		zap.Float64("threshold", threshold),
		zap.Int("top_k", topK),
	)

	return &Result{
		Matches:        survivors,
		Analysis:       analysis,
		TotalEvaluated: len(candidates),
		MatchesFound:   len(survivors),
		Threshold:      threshold,
		JobEmbedding:   jobEmbedding,
	}, nil
}

// rank sorts matches by score descending, preserving roster order across
// equal scores, and assigns dense 1-based ranks and percentiles.
func rank(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})

	total := len(matches)
	for i := range matches {
		matches[i].Rank = i + 1
		matches[i].Percentile = float64(total-i) / float64(total) * 100
	}
}

// filter keeps ranked matches meeting the threshold, truncated to topK.
func filter(matches []Match, threshold float64, topK int) []Match {
	survivors := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.SimilarityScore >= threshold {
			survivors = append(survivors, m)
		}
	}

	if len(survivors) > topK {
		survivors = survivors[:topK]
	}
	return survivors
}

func jobText(job *extract.JobRecord) string {
	parts := []string{job.Text}
	if len(job.SkillsRequired) > 0 {
		parts = append(parts, fmt.Sprintf("Required skills: %s", strings.Join(job.SkillsRequired, ", ")))
	}
	if job.Details.Title != "" {
		parts = append(parts, fmt.Sprintf("Job title: %s", job.Details.Title))
	}
	return joinNonEmpty(parts)
}

func candidateText(c extract.CandidateRecord) string {
	parts := []string{c.ProfileSummary}
	if len(c.ExtractedSkills) > 0 {
		parts = append(parts, fmt.Sprintf("Skills: %s", strings.Join(c.ExtractedSkills, ", ")))
	}
	parts = append(parts, c.Experience, c.Education)
	return joinNonEmpty(parts)
}

func joinNonEmpty(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
