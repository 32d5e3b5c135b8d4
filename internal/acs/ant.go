package acs

import (
	"math/rand"

	"sudokuacs/internal/board"
)

// Ant constructs one candidate solution per call to Construct, walking the
// board's cells and choosing a value for each unfixed one by the ACS
// exploitation/exploration rule.
type Ant struct {
	id  int
	sol *board.Board
	rng *rand.Rand
}

// NewAnt allocates an ant with its own working board of size n and its own
// private RNG stream, so concurrent ants (the optional parallel-ants mode)
// never share a *rand.Rand.
func NewAnt(id, n int, rng *rand.Rand) *Ant {
	return &Ant{id: id, sol: board.New(n), rng: rng}
}

// Solution returns the ant's current working board.
func (a *Ant) Solution() *board.Board { return a.sol }

// Construct resets the ant to a copy of initial and performs one pass over
// every cell, filling unfixed cells via the ACS rule and applying the local
// pheromone update after each placement. It returns the number of cells
// filled and the number of cells where no candidate remained; the ant
// simply leaves such cells unfixed and continues.
//
// NOTE: the inverted convention — exploitation fires when u > q0, not the
// textbook u <= q0 — is preserved verbatim here as a deliberate choice, not
// normalized (see DESIGN.md).
func (a *Ant) Construct(initial *board.Board, pher *Matrix, q0, pher0 float64) (filled, failedCells int) {
	a.sol.CopyFrom(initial)
	numCells := a.sol.NumCells()
	start := a.rng.Intn(numCells)

	for step := 0; step < numCells; step++ {
		cell := (start + step) % numCells
		if a.sol.CellIsFixed(cell) {
			continue
		}
		cands := a.sol.Candidates(cell)
		if len(cands) == 0 {
			failedCells++
			continue
		}
		v := selectValue(cell, cands, pher, q0, a.rng)
		a.sol.SetCell(cell, v)
		pher.LocalUpdate(cell, v, pher0)
	}
	return a.sol.CellsFilled(), failedCells
}

// selectValue implements the exploitation/exploration branch. u > q0 picks
// the candidate with maximal pheromone (exploitation, ties won by the first
// candidate reached since cands is ascending); otherwise a pheromone-weighted
// roulette wheel over the candidate set (exploration).
func selectValue(cell int, cands []int, pher *Matrix, q0 float64, rng *rand.Rand) int {
	u := rng.Float64()
	if u > q0 {
		best := cands[0]
		bestVal := pher.Get(cell, best)
		for _, v := range cands[1:] {
			if val := pher.Get(cell, v); val > bestVal {
				best, bestVal = v, val
			}
		}
		return best
	}
	return rouletteSelect(cell, cands, pher, rng)
}

func rouletteSelect(cell int, cands []int, pher *Matrix, rng *rand.Rand) int {
	weights := make([]float64, len(cands))
	var sum float64
	for i, v := range cands {
		w := pher.Get(cell, v)
		weights[i] = w
		sum += w
	}
	if sum <= 0 {
		return cands[0]
	}
	r := rng.Float64() * sum
	var cum float64
	for i, w := range weights {
		cum += w
		if r < cum {
			return cands[i]
		}
	}
	return cands[len(cands)-1]
}
