package workflow

import (
	"fmt"
	"time"

	"github.com/recruitflow/recruitflow/internal/matching"
)

// Status is a point-in-time snapshot of the orchestrator.
type Status struct {
	State      State     `json:"state"`
	LastRunID  string    `json:"last_run_id,omitempty"`
	LastRunAt  time.Time `json:"last_run_at,omitempty"`
	LastResult string    `json:"last_result,omitempty"`
}

// Status reports the orchestrator's current state and last run outcome.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	status := Status{State: o.state}
	if o.lastRun != nil {
		status.LastRunID = o.lastRun.RunID
		status.LastRunAt = o.lastRun.FinishedAt
		if o.lastRun.Success {
			status.LastResult = "completed"
		} else {
			status.LastResult = "failed"
		}
	}
	return status
}

// StageSummary is the per-stage portion of a run report.
type StageSummary struct {
	Stage    string        `json:"stage"`
	Success  bool          `json:"success"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// Report is the serializable summary of one run, suitable for printing or
// writing to disk.
type Report struct {
	RunID            string           `json:"run_id"`
	GeneratedAt      time.Time        `json:"generated_at"`
	ExecutiveSummary string           `json:"executive_summary"`
	Success          bool             `json:"success"`
	SuccessRate      float64          `json:"success_rate"`
	Duration         time.Duration    `json:"duration_ns"`
	Stages           []StageSummary   `json:"stages"`
	Matching         *matching.Result `json:"matching,omitempty"`
	Recommendations  []string         `json:"recommendations"`
}

// BuildReport summarizes a run result. It accepts the in-memory result of
// Run; a nil run yields a nil report.
func BuildReport(run *RunResult) *Report {
	if run == nil {
		return nil
	}

	report := &Report{
		RunID:       run.RunID,
		GeneratedAt: time.Now().UTC(),
		Success:     run.Success,
		Duration:    run.Duration,
	}

	executed, passed := 0, 0
	for _, name := range []string{StageExtraction, StageMatching, StageNotification} {
		res, ok := run.Stages[name]
		if !ok {
			continue
		}
		summary := StageSummary{
			Stage:    res.Stage,
			Success:  res.Success,
			Duration: res.Duration,
		}
		if res.Failure != nil {
			summary.Error = res.Failure.Message
		}
		report.Stages = append(report.Stages, summary)

		executed++
		if res.Success {
			passed++
		}
	}
	if executed > 0 {
		report.SuccessRate = float64(passed) / float64(executed)
	}

	if matchRes, ok := run.Stages[StageMatching]; ok && matchRes.Success {
		if matched, ok := matchRes.Payload.(*matching.Result); ok {
			report.Matching = matched
			if matched.Analysis != nil {
				report.Recommendations = matched.Analysis.Recommendations
			}
		}
	}

	report.ExecutiveSummary = executiveSummary(run)
	if report.Recommendations == nil {
		report.Recommendations = []string{}
	}
	return report
}

func executiveSummary(run *RunResult) string {
	if !run.Success {
		failedStage := "unknown"
		reason := ""
		for _, name := range []string{StageExtraction, StageMatching, StageNotification} {
			if res, ok := run.Stages[name]; ok && !res.Success {
				failedStage = name
				if res.Failure != nil {
					reason = res.Failure.Message
				}
				break
			}
		}
		if reason != "" {
			return fmt.Sprintf("Run failed during %s: %s", failedStage, reason)
		}
		return fmt.Sprintf("Run failed during %s", failedStage)
	}

	summary := fmt.Sprintf("Evaluated %d candidates and found %d qualified matches",
		run.CandidatesEvaluated, run.MatchesFound)
	if run.EmailsSent > 0 {
		summary += fmt.Sprintf("; notified %d candidates", run.EmailsSent)
	}
	return summary
}
