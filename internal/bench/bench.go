// Package bench runs a matrix of puzzle instances against a matrix of
// engine configurations and writes the results in the Go benchmark record
// format so benchstat can diff two configurations' solve-time distributions.
// The Go equivalent of original_source/scripts/run_general.py's instance
// sweep, which iterated puzzle files × parameter sets and wrote a CSV; here
// the sweep is the same shape but the sink is golang.org/x/perf/benchfmt.
package bench

import (
	"fmt"
	"io"

	"golang.org/x/perf/benchfmt"

	"sudokuacs/internal/coordinator"
)

// Case is one (instance, configuration) cell of the sweep matrix.
type Case struct {
	InstanceName string
	Config       coordinator.Config
}

// RunFunc executes a single case and returns its outcome. Kept as an
// injected function so Writer doesn't depend on how a case is actually run
// (coordinator.Run vs. singlecolony.Run vs. backtrack.Solve).
type RunFunc func(Case) (solved bool, elapsedSeconds float64, iters int)

// Writer streams benchmark records for a sweep to an underlying
// *benchfmt.Writer.
type Writer struct {
	w *benchfmt.Writer
}

// NewWriter wraps w for writing one benchmark record per sweep case.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: benchfmt.NewWriter(w)}
}

// RunSweep executes every case via run and writes one benchmark record per
// case, named "Solve/<instance>/k=<K>/ants=<Ants>" with a "sec/op" value and
// a "solved" boolean config line, matching how run_general.py tagged each
// CSV row with its instance name and parameter set.
func (bw *Writer) RunSweep(cases []Case, run RunFunc) error {
	for _, c := range cases {
		solved, elapsed, iters := run(c)
		name := fmt.Sprintf("Solve/%s/k=%d/ants=%d", c.InstanceName, c.Config.K, c.Config.Ants)

		result := &benchfmt.Result{
			Config: []benchfmt.Config{
				{Key: "solved", Value: []byte(fmt.Sprintf("%v", solved))},
				{Key: "iters", Value: []byte(fmt.Sprintf("%d", iters))},
			},
			Name:  benchfmt.Name(name),
			Iters: 1,
			Values: []benchfmt.Value{
				{Value: elapsed, Unit: "sec/op"},
			},
		}
		if err := bw.w.Write(result); err != nil {
			return fmt.Errorf("bench: writing record for %s: %w", name, err)
		}
	}
	return nil
}
