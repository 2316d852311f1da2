/*
PURPOSE:
  Defines the core data structures used throughout Sandbox Runner.
  These models represent per-iteration timings, per-provider aggregates,
  and the scoring configuration.

REQUIREMENTS:
  User-specified:
  - Record TTI (time to interactive), workload duration, total duration per iteration.
  - Track provider name, success rate, composite score.

  Implementation-discovered:
  - Need JSON tags for the JSONL/report writers.
  - Timing fields are milliseconds as float64 (sub-ms resolution matters for fast providers).

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine, internal/scoring, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - A TimingSample is immutable once appended to a BenchmarkResult.

USAGE:
  sample := model.TimingSample{TTIMs: 410}

SELF-HEALING INSTRUCTIONS:
  - If new metrics are needed, add field and update the output writers.

RELATED FILES:
  - internal/output/csv.go
  - internal/output/json.go
  - internal/scoring/scoring.go

MAINTENANCE:
  - Update when adding new metrics to capture.
*/

package model

import "time"

// CommandResult is the outcome of one remote command, reconstructed from the
// provider's execution transport. Immutable once assembled.
type CommandResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// TimingSample is one benchmark iteration's measurement.
// A non-empty Error marks a failed iteration; timing fields are then zero.
type TimingSample struct {
	Provider   string    `json:"provider"`
	Iteration  int       `json:"iteration"`
	Timestamp  time.Time `json:"timestamp"`
	TTIMs      float64   `json:"tti_ms,omitempty"`
	WorkloadMs float64   `json:"workload_ms,omitempty"`
	TotalMs    float64   `json:"total_ms,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Failed reports whether this iteration failed.
func (s TimingSample) Failed() bool { return s.Error != "" }

// Stats holds the distribution of one timing metric over a provider's
// successful iterations. Zeroed when there were none.
type Stats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Avg    float64 `json:"avg"`
}

// BenchmarkResult aggregates everything measured for one provider.
// The scoring step fills in SuccessRate and CompositeScore after the run.
type BenchmarkResult struct {
	Provider       string         `json:"provider"`
	Samples        []TimingSample `json:"samples"`
	TTIStats       Stats          `json:"tti_stats"`
	WorkloadStats  *Stats         `json:"workload_stats,omitempty"`
	SuccessRate    float64        `json:"success_rate"`
	CompositeScore float64        `json:"composite_score"`
	Skipped        bool           `json:"skipped,omitempty"`
	SkipReason     string         `json:"skip_reason,omitempty"`
}

// ScoringWeights distributes the composite timing score across distribution
// points. Weights are non-negative and intended to sum to 1.0 (not enforced;
// scores are only comparable when they do).
type ScoringWeights struct {
	Median float64 `yaml:"median" json:"median"`
	P95    float64 `yaml:"p95" json:"p95"`
	P99    float64 `yaml:"p99" json:"p99"`
	Min    float64 `yaml:"min" json:"min"`
	Max    float64 `yaml:"max" json:"max"`
}

// DefaultWeights returns the stock weight distribution: the median dominates,
// tail latency (p95/p99/max) keeps flaky providers honest.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{Median: 0.50, P95: 0.20, P99: 0.10, Min: 0.05, Max: 0.15}
}
