// Package singlecolony is the non-parallel ACS baseline (`--alg 0`). It
// reuses internal/acs's Ant and
// SubColony types directly: one colony, no barrier, no exchange, every
// iteration applies UpdatePheromoneStandard followed by DecayBestPher.
package singlecolony

import (
	"context"
	"math/rand"
	"time"

	"sudokuacs/internal/acs"
	"sudokuacs/internal/board"
)

// Config holds the subset of CLI flags a single-colony run uses.
type Config struct {
	Ants         int
	N            int
	Q0           float64
	Rho          float64
	BestEvap     float64
	Timeout      time.Duration
	Seed         int64
	AntsParallel bool
}

// Result mirrors coordinator.Result for a one-colony run.
type Result struct {
	Board   *board.Board
	Score   int
	Solved  bool
	Iters   int
	Elapsed time.Duration
}

// Run iterates a single sub-colony until it solves the puzzle, the timeout
// elapses, or ctx is canceled.
func Run(ctx context.Context, cfg Config, initial *board.Board) *Result {
	rng := rand.New(rand.NewSource(cfg.Seed))
	// rhoComm is unused on this path (UpdatePheromoneWithCommunication is
	// never called), so it is passed as 0.
	sc := acs.NewSubColony(0, cfg.N, cfg.Ants, cfg.Q0, cfg.Rho, 0, cfg.BestEvap, rng)
	if cfg.AntsParallel {
		sc.SetParallelAnts(true, int64(cfg.Ants))
	}

	start := time.Now()
	numCells := cfg.N * cfg.N
	iter := 0
	for {
		iter++
		select {
		case <-ctx.Done():
			return result(sc, numCells, iter, start)
		default:
		}
		if time.Since(start) >= cfg.Timeout {
			return result(sc, numCells, iter, start)
		}

		sc.RunIteration(initial)
		if sc.BestSolScore() == numCells {
			return result(sc, numCells, iter, start)
		}
		sc.UpdatePheromoneStandard()
		sc.DecayBestPher()
	}
}

func result(sc *acs.SubColony, numCells, iter int, start time.Time) *Result {
	return &Result{
		Board:   sc.BestSol().Clone(),
		Score:   sc.BestSolScore(),
		Solved:  sc.BestSolScore() == numCells,
		Iters:   iter,
		Elapsed: time.Since(start),
	}
}
