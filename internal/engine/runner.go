/*
PURPOSE:
  High-level runner that orchestrates the benchmarking process.
  Loops through providers -> iterations and executes each iteration's
  linear state machine: create -> first command -> optional workload ->
  teardown, with guaranteed best-effort cleanup.

REQUIREMENTS:
  User-specified:
  - Exactly one TimingSample per iteration.
  - Teardown failures never mask the iteration's primary outcome.
  - TTI is wall clock from issuing creation to first-command success.
  - Log samples to CSV/JSONL as they happen.

  Implementation-discovered:
  - All timing fields zero out on failure; a partial TTI from an iteration
    whose workload failed would poison the stats.
  - Iterations run strictly sequentially; iteration i+1 waits for
    iteration i's teardown attempt.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/engine (timeout, providers), internal/scoring,
    internal/output, internal/config

ERROR HANDLING:
  - Iteration failures are recorded in the sample, never thrown to the
    caller; no single failure aborts the multi-provider run.
  - Providers whose every iteration failed are marked skipped instead of
    reporting degenerate zero statistics.

IMPLEMENTATION RULES:
  - Iterate providers; availability check first, warmup next, then timed
    iterations, then scoring.
  - Fixed constants: smoke `echo "benchmark"` at 30s, teardown at 15s.

USAGE:
  results, err := engine.Run(ctx, cfg, providers)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/engine/timeout.go
  - internal/scoring/scoring.go

MAINTENANCE:
  - Update iteration logic if parallelism is ever introduced (today it is
    absent by design: concurrent local work contaminates wall-clock timing).
*/

package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/daryltucker/sandbox-runner/internal/config"
	"github.com/daryltucker/sandbox-runner/internal/model"
	"github.com/daryltucker/sandbox-runner/internal/output"
	"github.com/daryltucker/sandbox-runner/internal/scoring"
)

const (
	// smokeCommand is the fixed first command; its completion marks the
	// sandbox interactive.
	smokeCommand = `echo "benchmark"`

	smokeTimeout           = 30 * time.Second
	teardownTimeout        = 15 * time.Second
	defaultWorkloadTimeout = 120 * time.Second
)

// Run executes the full benchmark suite and returns the ranked results.
func Run(ctx context.Context, cfg *config.Config, providers []Provider) ([]model.BenchmarkResult, error) {
	// Short run ID stamped on the output files so repeated runs never
	// clobber each other.
	runID := uuid.NewString()[:8]

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	jsonPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s.jsonl", cfg.OutputFile, runID))
	jsonWriter, err := output.NewJSONWriter(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init JSONL writer at %s: %w", jsonPath, err)
	}
	defer jsonWriter.Close()

	csvPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s.csv", cfg.OutputFile, runID))
	csvWriter, err := output.NewCSVWriter(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init CSV writer at %s: %w", csvPath, err)
	}
	defer csvWriter.Close()

	output.Logger.Info("Starting benchmark run",
		"run_id", runID, "providers", len(providers), "iterations", cfg.Iterations)

	results := make([]model.BenchmarkResult, 0, len(providers))
	for _, p := range providers {
		results = append(results, runProvider(ctx, cfg, p, jsonWriter, csvWriter))
	}

	scoring.Rank(results)

	summaryPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%s_summary.json", cfg.OutputFile, runID))
	if err := output.WriteSummary(summaryPath, results); err != nil {
		output.Logger.Error("Failed to write summary", "path", summaryPath, "error", err)
	}

	output.PrintResults(results)
	output.Logger.Info("Benchmark run complete",
		"run_id", runID, "samples", jsonPath, "summary", summaryPath)

	return results, nil
}

// runProvider drives every iteration for one provider and finalizes its
// scores. Failures stay inside the returned result.
func runProvider(ctx context.Context, cfg *config.Config, p Provider, jsonWriter *output.JSONWriter, csvWriter *output.CSVWriter) model.BenchmarkResult {
	result := model.BenchmarkResult{Provider: p.Name()}

	if err := p.Available(); err != nil {
		output.Logger.Warn("Skipping provider", "provider", p.Name(), "reason", err.Error())
		result.Skipped = true
		result.SkipReason = err.Error()
		scoring.Finalize(&result, cfg.Weights)
		return result
	}

	output.Logger.Info("Benchmarking provider", "provider", p.Name())

	if cfg.Warmup {
		output.Logger.Info("Warmup iteration (discarded)", "provider", p.Name())
		warm := RunIteration(ctx, p, 0, cfg)
		if warm.Failed() {
			output.Logger.Warn("Warmup failed", "provider", p.Name(), "error", warm.Error)
		}
	}

	for i := 1; i <= cfg.Iterations; i++ {
		sample := RunIteration(ctx, p, i, cfg)

		if sample.Failed() {
			output.Logger.Error("Iteration failed",
				"provider", p.Name(), "iteration", i, "error", sample.Error)
		} else {
			output.Logger.Info("Iteration complete",
				"provider", p.Name(), "iteration", i,
				"tti_ms", fmt.Sprintf("%.0f", sample.TTIMs),
				"total_ms", fmt.Sprintf("%.0f", sample.TotalMs),
			)
		}

		if err := jsonWriter.Write(sample); err != nil {
			output.Logger.Error("Failed to write sample to JSONL", "error", err)
		}
		if err := csvWriter.Write(sample); err != nil {
			output.Logger.Error("Failed to write sample to CSV", "error", err)
		}

		result.Samples = append(result.Samples, sample)
	}

	scoring.Finalize(&result, cfg.Weights)
	return result
}

// RunIteration executes one complete benchmark iteration and produces
// exactly one TimingSample. The state machine is linear: Created ->
// Provisioned -> Interactive -> [SetupDone -> WorkloadDone] -> Teardown.
// Any failure short-circuits to teardown; teardown itself is bounded and
// its failures are swallowed.
func RunIteration(ctx context.Context, p Provider, iteration int, cfg *config.Config) model.TimingSample {
	sample := model.TimingSample{
		Provider:  p.Name(),
		Iteration: iteration,
		Timestamp: time.Now(),
	}

	start := time.Now()

	sbx, err := WithTimeout(ctx, cfg.CreateTimeout, "Sandbox creation timed out",
		func(ctx context.Context) (Sandbox, error) { return p.Create(ctx) })
	if err != nil {
		sample.Error = err.Error()
		return sample
	}

	// Teardown runs on every path below, success or failure, before the
	// sample is finalized. Failures are logged and discarded; they must
	// never override the iteration's primary outcome.
	defer func() {
		_, derr := WithTimeout(ctx, teardownTimeout, "Teardown timed out",
			func(ctx context.Context) (struct{}, error) { return struct{}{}, sbx.Destroy(ctx) })
		if derr != nil {
			output.Logger.Warn("Teardown failed (ignored)",
				"provider", p.Name(), "iteration", iteration, "error", derr.Error())
		}
	}()

	// Provisioned -> Interactive: the fixed smoke command.
	if err := execChecked(ctx, sbx, smokeCommand, smokeTimeout,
		"First command timed out", "First command failed", CommandOptions{}); err != nil {
		sample.Error = err.Error()
		return sample
	}
	tti := time.Since(start)
	interactiveAt := time.Now()

	if !cfg.Workload.Configured() {
		sample.TTIMs = toMs(tti)
		return sample
	}

	workloadTimeout := cfg.Workload.Timeout
	if workloadTimeout <= 0 {
		workloadTimeout = defaultWorkloadTimeout
	}

	if cfg.Workload.Setup != "" {
		if err := execChecked(ctx, sbx, cfg.Workload.Setup, workloadTimeout,
			"Workload setup timed out", "Workload setup failed", CommandOptions{}); err != nil {
			sample.Error = err.Error()
			return sample
		}
	}

	if cfg.Workload.Command != "" {
		if err := execChecked(ctx, sbx, cfg.Workload.Command, workloadTimeout,
			"Workload command timed out", "Workload command failed", CommandOptions{}); err != nil {
			sample.Error = err.Error()
			return sample
		}
	}

	sample.TTIMs = toMs(tti)
	sample.WorkloadMs = toMs(time.Since(interactiveAt))
	sample.TotalMs = toMs(time.Since(start))
	return sample
}

// execChecked runs one command under the deadline wrapper and applies the
// command-success contract: transport/protocol errors and timeouts pass
// through, and a non-zero exit code becomes a *CommandFailure carrying the
// diagnostic tail of stderr (or stdout when stderr is empty).
func execChecked(ctx context.Context, sbx Sandbox, command string, timeout time.Duration, timeoutMsg, failStep string, opts CommandOptions) error {
	res, err := WithTimeout(ctx, timeout, timeoutMsg,
		func(ctx context.Context) (model.CommandResult, error) {
			return sbx.RunCommand(ctx, command, opts)
		})
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		diag := res.Stderr
		if diag == "" {
			diag = res.Stdout
		}
		return &CommandFailure{Step: failStep, ExitCode: res.ExitCode, Output: diag}
	}
	return nil
}

func toMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
