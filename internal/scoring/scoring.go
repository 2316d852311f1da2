/*
PURPOSE:
  Statistics and composite scoring engine. Reduces a provider's batch of
  timing samples into distribution stats and one comparable 0-100 score.

REQUIREMENTS:
  User-specified:
  - min/max/median/avg per metric; p95/p99 for the composite.
  - Per-metric score: 100 * max(0, 1 - value/10000ms). Absolute, so a
    provider's score never moves when other providers join or leave a run.
  - Composite = weighted timing score * success rate, rounded to 2 decimals.
  - Skipped or zero-success providers score exactly 0.

  Implementation-discovered:
  - Percentile is nearest-rank on the ascending sort; median stays the mean
    of the two central values for even counts.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go after a provider's iterations.
  - Consumes/produces: internal/model types.

ERROR HANDLING:
  - Pure functions; degenerate inputs produce zeroed stats, never panics.

IMPLEMENTATION RULES:
  - Weights are passed in explicitly; no ambient scoring state.

USAGE:
  scoring.Finalize(&result, weights)
  scoring.Rank(results)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - CeilingMs is the only tuning knob; changing it invalidates score
    comparisons with older runs.
*/

package scoring

import (
	"math"
	"sort"

	"github.com/daryltucker/sandbox-runner/internal/model"
)

// CeilingMs is the timing value at or beyond which a metric scores zero.
const CeilingMs = 10000.0

// skipReasonAllFailed marks a provider whose every iteration failed.
const skipReasonAllFailed = "All iterations failed"

// ScoreMetric maps one millisecond value onto 0-100 against the fixed
// ceiling. 0ms scores 100; anything at or past the ceiling scores 0.
func ScoreMetric(valueMs float64) float64 {
	s := 100 * (1 - valueMs/CeilingMs)
	if s < 0 {
		return 0
	}
	return s
}

// Compute derives distribution stats from a set of values.
// Returns the zero Stats when values is empty.
func Compute(values []float64) model.Stats {
	if len(values) == 0 {
		return model.Stats{}
	}
	sorted := ascending(values)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return model.Stats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: median(sorted),
		Avg:    sum / float64(len(sorted)),
	}
}

// TimingScore computes the weighted composite timing score over the
// distribution points of values. Zero when values is empty.
func TimingScore(values []float64, w model.ScoringWeights) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := ascending(values)
	return w.Median*ScoreMetric(median(sorted)) +
		w.P95*ScoreMetric(percentile(sorted, 95)) +
		w.P99*ScoreMetric(percentile(sorted, 99)) +
		w.Min*ScoreMetric(sorted[0]) +
		w.Max*ScoreMetric(sorted[len(sorted)-1])
}

// Composite folds reliability into the timing score, rounded to 2 decimals.
func Composite(timingScore, successRate float64) float64 {
	return math.Round(timingScore*successRate*100) / 100
}

// Finalize fills a BenchmarkResult's derived fields: stats, success rate
// and composite score. TTI is the metric the composite ranks on. A provider
// with zero successful iterations becomes skipped and scores exactly 0.
func Finalize(r *model.BenchmarkResult, w model.ScoringWeights) {
	if r.Skipped {
		r.SuccessRate = 0
		r.CompositeScore = 0
		return
	}

	var ttis, workloads []float64
	for _, s := range r.Samples {
		if s.Failed() {
			continue
		}
		ttis = append(ttis, s.TTIMs)
		if s.WorkloadMs > 0 {
			workloads = append(workloads, s.WorkloadMs)
		}
	}

	if len(r.Samples) == 0 || len(ttis) == 0 {
		r.Skipped = true
		r.SkipReason = skipReasonAllFailed
		r.SuccessRate = 0
		r.CompositeScore = 0
		return
	}

	r.SuccessRate = float64(len(ttis)) / float64(len(r.Samples))
	r.TTIStats = Compute(ttis)
	if len(workloads) > 0 {
		stats := Compute(workloads)
		r.WorkloadStats = &stats
	}
	r.CompositeScore = Composite(TimingScore(ttis, w), r.SuccessRate)
}

// Rank orders providers by descending composite score. Skipped providers
// always sort after every scored provider, keeping their relative order.
func Rank(results []model.BenchmarkResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Skipped != results[j].Skipped {
			return !results[i].Skipped
		}
		if results[i].Skipped {
			return false // ties among skipped keep original order
		}
		return results[i].CompositeScore > results[j].CompositeScore
	})
}

func ascending(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}

// median is the mean of the two central values for even counts.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// percentile is nearest-rank: the value at rank ceil(p/100 * n) on the
// ascending sort, clamped to the last element.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	rank := int(math.Ceil(p / 100 * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}
