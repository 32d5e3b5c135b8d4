// Command sudokuacs is the CLI entry point: it parses a puzzle file and a
// flag set, dispatches to one of the three solving algorithms, prints the
// resulting board, and maps the outcome to an exit code.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sudokuacs/internal/backtrack"
	"sudokuacs/internal/board"
	"sudokuacs/internal/coordinator"
	"sudokuacs/internal/puzzle"
	"sudokuacs/internal/singlecolony"
	"sudokuacs/internal/xrand"
)

const (
	exitSolved       = 0
	exitConfigError  = 1
	exitSearchFailed = 2
)

// AppConfig mirrors the §6 CLI table exactly: every flag, its type, and its
// default.
type AppConfig struct {
	Alg          int
	File         string
	SubColonies  int
	Ants         int
	Timeout      time.Duration
	Q0           float64
	Rho          float64
	RhoComm      float64
	Evap         float64
	Verbose      bool
	AntsParallel bool
}

func main() {
	alg := flag.Int("alg", 0, "0=single-colony ACS, 1=deterministic backtracking, 2=parallel ACS")
	file := flag.String("file", "", "path to a puzzle file")
	subColonies := flag.Int("subcolonies", 4, "K: number of cooperating sub-colonies (--alg 2 only; clamped to >= 3)")
	ants := flag.Int("ants", 10, "M: ants per sub-colony")
	timeoutSec := flag.Float64("timeout", 120, "wall-clock cap in seconds")
	q0 := flag.Float64("q0", 0.9, "exploitation threshold")
	rho := flag.Float64("rho", 0.9, "standard pheromone evaporation")
	rhoComm := flag.Float64("rhocomm", 0.05, "communication pheromone evaporation")
	evap := flag.Float64("evap", 0.005, "bestPher decay per non-communication iteration")
	verbose := flag.Bool("verbose", true, "progress output to stderr")
	antsParallel := flag.Bool("ants-parallel", false, "construct ants within a sub-colony concurrently, bounded by a semaphore")
	flag.Parse()

	cfg := AppConfig{
		Alg:          *alg,
		File:         *file,
		SubColonies:  *subColonies,
		Ants:         *ants,
		Timeout:      time.Duration(*timeoutSec * float64(time.Second)),
		Q0:           *q0,
		Rho:          *rho,
		RhoComm:      *rhoComm,
		Evap:         *evap,
		Verbose:      *verbose,
		AntsParallel: *antsParallel,
	}

	os.Exit(run(context.Background(), cfg, os.Stdout, os.Stderr))
}

func run(ctx context.Context, cfg AppConfig, out, errOut io.Writer) int {
	if cfg.File == "" {
		fmt.Fprintln(errOut, "sudokuacs: --file is required")
		return exitConfigError
	}

	b, err := puzzle.Load(cfg.File)
	if err != nil {
		fmt.Fprintf(errOut, "sudokuacs: %v\n", err)
		return exitConfigError
	}

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	ctx, cancelTimeout := context.WithTimeout(ctx, cfg.Timeout)
	defer cancelTimeout()

	if cfg.Verbose {
		fmt.Fprintf(errOut, "sudokuacs: alg=%d N=%d timeout=%s\n", cfg.Alg, b.N(), cfg.Timeout)
	}

	switch cfg.Alg {
	case 1:
		return runBacktrack(b, out, errOut)
	case 2:
		return runCoordinator(ctx, cfg, b, out, errOut)
	default:
		return runSingleColony(ctx, cfg, b, out, errOut)
	}
}

func runBacktrack(b *board.Board, out, errOut io.Writer) int {
	solved, ok := backtrack.Solve(b)
	fmt.Fprint(out, solved.String())
	if !ok {
		fmt.Fprintln(errOut, "sudokuacs: no solution exists")
		return exitSearchFailed
	}
	return exitSolved
}

func runSingleColony(ctx context.Context, cfg AppConfig, b *board.Board, out, errOut io.Writer) int {
	res := singlecolony.Run(ctx, singlecolony.Config{
		Ants:         cfg.Ants,
		N:            b.N(),
		Q0:           cfg.Q0,
		Rho:          cfg.Rho,
		BestEvap:     cfg.Evap,
		Timeout:      cfg.Timeout,
		Seed:         xrand.MasterSeed(),
		AntsParallel: cfg.AntsParallel,
	}, b)

	fmt.Fprint(out, res.Board.String())
	printOutcome(errOut, cfg.Verbose, res.Solved, res.Elapsed, res.Iters, true)
	if !res.Solved {
		return exitSearchFailed
	}
	return exitSolved
}

func runCoordinator(ctx context.Context, cfg AppConfig, b *board.Board, out, errOut io.Writer) int {
	c := coordinator.New(coordinator.Config{
		K:            cfg.SubColonies,
		Ants:         cfg.Ants,
		N:            b.N(),
		Q0:           cfg.Q0,
		Rho:          cfg.Rho,
		RhoComm:      cfg.RhoComm,
		BestEvap:     cfg.Evap,
		Timeout:      cfg.Timeout,
		MasterSeed:   xrand.MasterSeed(),
		AntsParallel: cfg.AntsParallel,
	}, b)

	res, err := c.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintf(errOut, "sudokuacs: internal error: %v\n", err)
		return exitConfigError
	}

	fmt.Fprint(out, res.Board.String())
	printOutcome(errOut, cfg.Verbose, res.Solved, res.Elapsed, res.Iters[res.WinnerID], true)
	if cfg.Verbose {
		fmt.Fprintf(errOut, "communication: %s\n", yesNo(res.UsedComm))
	}
	if !res.Solved {
		return exitSearchFailed
	}
	return exitSolved
}

// printOutcome writes the status line run_general.py's parser recognizes:
// "solved in <seconds>" / "failed in time <seconds>", followed by an
// "iterations: <n>" line when iteration counts are meaningful for this
// algorithm (--alg 0 and --alg 2, per that script's own comment).
func printOutcome(w io.Writer, verbose, solved bool, elapsed time.Duration, iters int, reportIters bool) {
	if !verbose {
		return
	}
	if solved {
		fmt.Fprintf(w, "solved in %.5f\n", elapsed.Seconds())
	} else {
		fmt.Fprintf(w, "failed in time %.5f\n", elapsed.Seconds())
	}
	if reportIters {
		fmt.Fprintf(w, "iterations: %d\n", iters)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
