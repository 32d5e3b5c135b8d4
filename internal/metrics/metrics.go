// Package metrics aggregates solve-time and iteration-count statistics
// across repeated runs, the Go equivalent of
// original_source/scripts/run_general.py's statistics.mean/statistics.pstdev
// post-processing over a batch of trials. Grounded on that script's
// aggregate-then-report shape; the computation itself is delegated to
// github.com/aclements/go-moremath/stats, the statistics package benchstat
// itself is built on.
package metrics

import (
	"time"

	"github.com/aclements/go-moremath/stats"
)

// Trial is one completed run's outcome, as fed into a Report.
type Trial struct {
	Solved    bool
	Duration  time.Duration
	Iters     int
	CellsLeft int // numCells - cellsFilled, 0 when Solved
}

// Report summarizes a batch of trials.
type Report struct {
	N            int
	SolvedCount  int
	SolveRate    float64
	DurationMean float64 // seconds
	DurationStd  float64 // seconds
	DurationP50  float64 // seconds
	DurationP90  float64 // seconds
	IterMean     float64
	IterStd      float64
}

// Summarize computes a Report over trials. An empty trial set returns a
// zero-valued Report rather than dividing by zero.
func Summarize(trials []Trial) Report {
	r := Report{N: len(trials)}
	if len(trials) == 0 {
		return r
	}

	durations := make([]float64, len(trials))
	iters := make([]float64, len(trials))
	for i, t := range trials {
		durations[i] = t.Duration.Seconds()
		iters[i] = float64(t.Iters)
		if t.Solved {
			r.SolvedCount++
		}
	}
	r.SolveRate = float64(r.SolvedCount) / float64(r.N)

	durSample := stats.Sample{Xs: durations}
	r.DurationMean = durSample.Mean()
	r.DurationStd = durSample.StdDev()
	r.DurationP50 = durSample.Quantile(0.5)
	r.DurationP90 = durSample.Quantile(0.9)

	iterSample := stats.Sample{Xs: iters}
	r.IterMean = iterSample.Mean()
	r.IterStd = iterSample.StdDev()

	return r
}
