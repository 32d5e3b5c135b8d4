package acs

import (
	"context"
	"math/rand"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"sudokuacs/internal/board"
)

// SubColony owns one pheromone matrix, a fixed pool of ants, and the running
// iterationBest/bestSol state. It exposes the two mutually exclusive global
// pheromone updates (standard vs. communication) and the two receive hooks
// the coordinator's ring/random exchange call into.
type SubColony struct {
	id   int
	n    int
	ants []*Ant

	matrix *Matrix
	pher0  float64

	q0, rho, rhoComm, bestEvap float64
	rng                        *rand.Rand

	iterationBest      *board.Board
	iterationBestScore int

	bestSol      *board.Board
	bestSolScore int
	bestPher     float64

	receivedIterationBest      *board.Board
	receivedIterationBestScore int

	receivedBestSol      *board.Board
	receivedBestSolScore int

	// scratch buffers for UpdatePheromoneWithCommunication, reused across
	// calls to avoid an allocation per cell per iteration.
	contribScratch []float64
	touchedScratch []bool

	// Optional parallel-ants mode: when sem is non-nil, RunIteration
	// constructs ants concurrently, bounded to sem's weight in-flight at
	// once. The shared pheromone matrix already tolerates concurrent local
	// updates (Matrix's CAS retry loop), so nothing else needs to change
	// for this mode.
	sem *semaphore.Weighted
}

// NewSubColony allocates a sub-colony of numAnts ants for an N×N board.
func NewSubColony(id, n, numAnts int, q0, rho, rhoComm, bestEvap float64, rng *rand.Rand) *SubColony {
	numCells := n * n
	sc := &SubColony{
		id:       id,
		n:        n,
		ants:     make([]*Ant, numAnts),
		matrix:   NewMatrix(numCells, n),
		pher0:    1.0 / float64(numCells),
		q0:       q0,
		rho:      rho,
		rhoComm:  rhoComm,
		bestEvap: bestEvap,
		rng:      rng,

		iterationBest:         board.New(n),
		bestSol:               board.New(n),
		receivedIterationBest: board.New(n),
		receivedBestSol:       board.New(n),

		contribScratch: make([]float64, n+1),
		touchedScratch: make([]bool, n+1),
	}
	for i := range sc.ants {
		sc.ants[i] = NewAnt(i, n, rand.New(rand.NewSource(rng.Int63())))
	}
	return sc
}

// SetParallelAnts enables or disables concurrent ant construction within
// this colony, bounding the number of in-flight ants to maxConcurrent
// (`--ants-parallel`). Disabled by default: RunIteration constructs ants
// sequentially in colony order.
func (sc *SubColony) SetParallelAnts(enabled bool, maxConcurrent int64) {
	if !enabled {
		sc.sem = nil
		return
	}
	sc.sem = semaphore.NewWeighted(maxConcurrent)
}

// ID returns the sub-colony's index.
func (sc *SubColony) ID() int { return sc.id }

// IterationBest returns the best board produced by this colony's most recent
// RunIteration.
func (sc *SubColony) IterationBest() *board.Board { return sc.iterationBest }

// IterationBestScore returns the cell count of IterationBest.
func (sc *SubColony) IterationBestScore() int { return sc.iterationBestScore }

// BestSol returns this colony's best solution seen across all iterations.
func (sc *SubColony) BestSol() *board.Board { return sc.bestSol }

// BestSolScore returns the cell count of BestSol.
func (sc *SubColony) BestSolScore() int { return sc.bestSolScore }

// BestPher returns the pheromone value associated with BestSol, the
// quantity that governs replacement (not the raw score).
func (sc *SubColony) BestPher() float64 { return sc.bestPher }

// RunIteration has every ant construct one candidate solution from initial,
// tracks the best of this round as iterationBest, and replaces bestSol only
// when the new iteration's pheromone value exceeds bestPher, not when its
// raw score is merely higher — preserved verbatim as a deliberate, not
// normalized, replacement rule.
func (sc *SubColony) RunIteration(initial *board.Board) {
	filledPerAnt := sc.constructAnts(initial)

	bestIdx, bestScore := 0, filledPerAnt[0]
	for i, filled := range filledPerAnt {
		if filled > bestScore {
			bestScore = filled
			bestIdx = i
		}
	}
	sc.iterationBest.CopyFrom(sc.ants[bestIdx].Solution())
	sc.iterationBestScore = bestScore

	pherToAdd := pheromoneValue(sc.n*sc.n, bestScore)
	if pherToAdd > sc.bestPher {
		sc.bestSol.CopyFrom(sc.iterationBest)
		sc.bestSolScore = bestScore
		sc.bestPher = pherToAdd
	}
}

// constructAnts runs every ant's construction pass, sequentially by default
// or concurrently (bounded by sc.sem) when parallel-ants mode is enabled,
// and returns each ant's filled-cell count by index.
func (sc *SubColony) constructAnts(initial *board.Board) []int {
	filled := make([]int, len(sc.ants))
	if sc.sem == nil {
		for i, ant := range sc.ants {
			n, _ := ant.Construct(initial, sc.matrix, sc.q0, sc.pher0)
			filled[i] = n
		}
		return filled
	}

	ctx := context.Background()
	g, gctx := errgroup.WithContext(ctx)
	for i, ant := range sc.ants {
		i, ant := i, ant
		g.Go(func() error {
			if err := sc.sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sc.sem.Release(1)
			n, _ := ant.Construct(initial, sc.matrix, sc.q0, sc.pher0)
			filled[i] = n
			return nil
		})
	}
	_ = g.Wait() // ctx.Background() never cancels; Acquire only errors on cancellation.
	return filled
}

// UpdatePheromoneStandard is the non-communication global update: for every
// fixed (cell, digit) pair in bestSol, τ ← (1-ρ)τ + ρ·bestPher. Mutually
// exclusive with UpdatePheromoneWithCommunication within a single iteration.
func (sc *SubColony) UpdatePheromoneStandard() {
	numCells := sc.n * sc.n
	for i := 0; i < numCells; i++ {
		if !sc.bestSol.CellIsFixed(i) {
			continue
		}
		v := sc.bestSol.CellValue(i)
		old := sc.matrix.Get(i, v)
		sc.matrix.Set(i, v, (1-sc.rho)*old+sc.rho*sc.bestPher)
	}
}

// DecayBestPher applies bestPher ← bestPher·(1-bestEvap), called alongside
// UpdatePheromoneStandard on non-exchange iterations.
func (sc *SubColony) DecayBestPher() {
	sc.bestPher *= 1 - sc.bestEvap
}

// UpdatePheromoneWithCommunication is the three-source additive update used
// on exchange iterations, combining this colony's own iterationBest with the
// most recently received iterationBest and bestSol from peers. Any source
// with score <= 0 (never received) contributes nothing.
func (sc *SubColony) UpdatePheromoneWithCommunication() {
	numCells := sc.n * sc.n
	v1 := pheromoneValueOrZero(numCells, sc.iterationBestScore)
	v2 := pheromoneValueOrZero(numCells, sc.receivedIterationBestScore)
	v3 := pheromoneValueOrZero(numCells, sc.receivedBestSolScore)

	for i := 0; i < numCells; i++ {
		for d := 1; d <= sc.n; d++ {
			sc.contribScratch[d] = 0
			sc.touchedScratch[d] = false
		}
		sc.accumulate(i, sc.iterationBest, v1)
		sc.accumulate(i, sc.receivedIterationBest, v2)
		sc.accumulate(i, sc.receivedBestSol, v3)

		for d := 1; d <= sc.n; d++ {
			if !sc.touchedScratch[d] {
				continue
			}
			old := sc.matrix.Get(i, d)
			sc.matrix.Set(i, d, old*(1-sc.rhoComm)+sc.contribScratch[d])
		}
	}
}

func (sc *SubColony) accumulate(cell int, src *board.Board, v float64) {
	if v == 0 || !src.CellIsFixed(cell) {
		return
	}
	d := src.CellValue(cell)
	sc.contribScratch[d] += v
	sc.touchedScratch[d] = true
}

// ReceivedIterationBestScore returns the score of the most recently received
// ring-exchange snapshot (0 if none has arrived yet).
func (sc *SubColony) ReceivedIterationBestScore() int { return sc.receivedIterationBestScore }

// ReceivedBestSolScore returns the score of the most recently received
// random-exchange snapshot (0 if none has arrived yet).
func (sc *SubColony) ReceivedBestSolScore() int { return sc.receivedBestSolScore }

// ReceiveIterationBest stores a peer's iterationBest snapshot delivered by
// the coordinator's ring exchange.
func (sc *SubColony) ReceiveIterationBest(b *board.Board, score int) {
	sc.receivedIterationBest.CopyFrom(b)
	sc.receivedIterationBestScore = score
}

// ReceiveBestSol stores a peer's bestSol snapshot delivered by the
// coordinator's random exchange.
func (sc *SubColony) ReceiveBestSol(b *board.Board, score int) {
	sc.receivedBestSol.CopyFrom(b)
	sc.receivedBestSolScore = score
}
