/*
PURPOSE:
  Renders the final ranking report to the terminal: one styled table of
  providers ordered by composite score, plus per-provider distribution
  lines.

REQUIREMENTS:
  User-specified:
  - Human-readable comparison across providers at the end of a run.

  Implementation-discovered:
  - Skipped providers render with their skip reason instead of numbers.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go
  - Consumes: internal/model.BenchmarkResult (already ranked)

ERROR HANDLING:
  - Pure rendering; nothing to fail.

IMPLEMENTATION RULES:
  - Styling via lipgloss; no manual ANSI escapes.

USAGE:
  output.PrintResults(results)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/scoring/scoring.go (ordering contract)

MAINTENANCE:
  - Keep columns in sync with the summary JSON.
*/

package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/daryltucker/sandbox-runner/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5CF6"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A855F7"))
	winnerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22C55E"))
	skippedStyle = lipgloss.NewStyle().Faint(true)
)

// PrintResults renders the ranking table and per-provider summaries.
// Results must already be in ranked order.
func PrintResults(results []model.BenchmarkResult) {
	fmt.Println()
	fmt.Println(titleStyle.Render("=== Provider Rankings ==="))
	fmt.Println(RenderRanking(results))

	for _, r := range results {
		printProviderSummary(r)
	}
}

// RenderRanking builds the ranking table as a string.
func RenderRanking(results []model.BenchmarkResult) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-4s %-12s %8s %9s %10s %10s %10s",
		"#", "Provider", "Score", "Success", "Median", "Min", "Max")))
	b.WriteString("\n")

	for i, r := range results {
		if r.Skipped {
			b.WriteString(skippedStyle.Render(fmt.Sprintf("%-4s %-12s %s",
				"-", r.Provider, "skipped: "+r.SkipReason)))
			b.WriteString("\n")
			continue
		}

		row := fmt.Sprintf("%-4d %-12s %8.2f %8.0f%% %9.0fms %9.0fms %9.0fms",
			i+1, r.Provider, r.CompositeScore, r.SuccessRate*100,
			r.TTIStats.Median, r.TTIStats.Min, r.TTIStats.Max)
		if i == 0 {
			row = winnerStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	return b.String()
}

func printProviderSummary(r model.BenchmarkResult) {
	if r.Skipped {
		fmt.Printf("%s\n  SKIPPED: %s\n\n", headerStyle.Render(r.Provider), r.SkipReason)
		return
	}

	fmt.Printf("%s\n", headerStyle.Render(r.Provider))
	fmt.Printf("  Iterations: %d (success: %.0f%%)\n", len(r.Samples), r.SuccessRate*100)
	fmt.Printf("  TTI - Median: %.0fms | Avg: %.0fms | Min: %.0fms | Max: %.0fms\n",
		r.TTIStats.Median, r.TTIStats.Avg, r.TTIStats.Min, r.TTIStats.Max)
	if r.WorkloadStats != nil {
		fmt.Printf("  Workload - Median: %.0fms | Avg: %.0fms | Min: %.0fms | Max: %.0fms\n",
			r.WorkloadStats.Median, r.WorkloadStats.Avg, r.WorkloadStats.Min, r.WorkloadStats.Max)
	}
	for _, s := range r.Samples {
		if s.Failed() {
			fmt.Printf("  iteration %d FAILED: %s\n", s.Iteration, s.Error)
		}
	}
	fmt.Println()
}
