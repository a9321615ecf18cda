// Package workflow sequences the recruitment pipeline: extraction, matching
// and notification run as named stages under an orchestrator that tracks run
// state and short-circuits on failure.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/recruitflow/recruitflow/internal/fault"
)

// Stage is one pipeline step. NewInput returns a fresh input value for the
// stage so custom workflows can decode loosely-typed step inputs into it.
// Process never returns a Go error; failures are carried in the Result.
type Stage interface {
	Name() string
	NewInput() any
	Process(ctx context.Context, input any) *Result
}

// Failure describes why a stage did not succeed.
type Failure struct {
	Kind      string    `json:"error_type"`
	Message   string    `json:"error"`
	Context   string    `json:"context,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Result is the immutable outcome of one stage execution.
type Result struct {
	Stage    string        `json:"stage"`
	Success  bool          `json:"success"`
	Duration time.Duration `json:"duration_ns"`
	Failure  *Failure      `json:"failure,omitempty"`
	Payload  any           `json:"payload,omitempty"`
}

func succeeded(stage string, payload any) *Result {
	return &Result{Stage: stage, Success: true, Payload: payload}
}

func failed(stage string, err error) *Result {
	failure := &Failure{
		Kind:      string(fault.KindOf(err)),
		Message:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
	var ferr *fault.Error
	if errors.As(err, &ferr) && ferr.Context != "" {
		failure.Context = ferr.Context
	}
	return &Result{Stage: stage, Success: false, Failure: failure}
}
