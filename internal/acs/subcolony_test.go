package acs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudokuacs/internal/board"
)

func emptyNineByNine(t *testing.T) *board.Board {
	b := board.New(9)
	require.NoError(t, b.LoadGivens(make([]int, 81)))
	return b
}

func TestSubColonyRunIterationAdvancesBestSol(t *testing.T) {
	sc := NewSubColony(0, 9, 8, 0.9, 0.9, 0.05, 0.005, rand.New(rand.NewSource(1)))
	initial := emptyNineByNine(t)
	sc.RunIteration(initial)
	assert.GreaterOrEqual(t, sc.BestSolScore(), sc.IterationBestScore())
	assert.Greater(t, sc.BestPher(), 0.0)
}

func TestSubColonyAlreadySolvedPuzzleFillsImmediately(t *testing.T) {
	b := board.New(9)
	require.NoError(t, b.LoadGivens(solvedNineByNine()))
	sc := NewSubColony(0, 9, 4, 0.9, 0.9, 0.05, 0.005, rand.New(rand.NewSource(7)))
	sc.RunIteration(b)
	assert.Equal(t, 81, sc.BestSolScore())
}

func TestUpdatePheromoneStandardRaisesFixedCells(t *testing.T) {
	sc := NewSubColony(0, 9, 4, 0.9, 0.9, 0.05, 0.005, rand.New(rand.NewSource(2)))
	sc.RunIteration(emptyNineByNine(t))
	before := sc.matrix.Get(0, sc.bestSol.CellValue(0))
	sc.UpdatePheromoneStandard()
	after := sc.matrix.Get(0, sc.bestSol.CellValue(0))
	assert.NotEqual(t, before, after)
}

func TestDecayBestPherShrinksValue(t *testing.T) {
	sc := NewSubColony(0, 9, 4, 0.9, 0.9, 0.05, 0.005, rand.New(rand.NewSource(3)))
	sc.RunIteration(emptyNineByNine(t))
	before := sc.BestPher()
	sc.DecayBestPher()
	assert.Less(t, sc.BestPher(), before)
}

func TestUpdatePheromoneWithCommunicationUsesThreeSources(t *testing.T) {
	sc := NewSubColony(0, 9, 4, 0.9, 0.9, 0.05, 0.005, rand.New(rand.NewSource(4)))
	sc.RunIteration(emptyNineByNine(t))

	peerA := sc.IterationBest().Clone()
	peerB := sc.BestSol().Clone()
	sc.ReceiveIterationBest(peerA, sc.IterationBestScore())
	sc.ReceiveBestSol(peerB, sc.BestSolScore())

	cell := 0
	for !sc.bestSol.CellIsFixed(cell) {
		cell++
	}
	v := sc.bestSol.CellValue(cell)
	before := sc.matrix.Get(cell, v)
	sc.UpdatePheromoneWithCommunication()
	after := sc.matrix.Get(cell, v)
	assert.NotEqual(t, before, after)
}

func TestReceiveHooksStoreSnapshotsIndependently(t *testing.T) {
	sc := NewSubColony(0, 9, 4, 0.9, 0.9, 0.05, 0.005, rand.New(rand.NewSource(5)))
	peer := emptyNineByNine(t)
	peer.SetCell(0, 3)
	sc.ReceiveIterationBest(peer, 1)
	peer.SetCell(1, 4)
	assert.False(t, sc.receivedIterationBest.CellIsFixed(1))
}

func TestParallelAntsProducesSameKindOfResult(t *testing.T) {
	sc := NewSubColony(0, 9, 8, 0.9, 0.9, 0.05, 0.005, rand.New(rand.NewSource(6)))
	sc.SetParallelAnts(true, 4)
	sc.RunIteration(emptyNineByNine(t))
	assert.Greater(t, sc.IterationBestScore(), 0)
	assert.Greater(t, sc.BestPher(), 0.0)

	sc.SetParallelAnts(false, 0)
	sc.RunIteration(emptyNineByNine(t))
	assert.Greater(t, sc.IterationBestScore(), 0)
}

func solvedNineByNine() []int {
	return []int{
		5, 3, 4, 6, 7, 8, 9, 1, 2,
		6, 7, 2, 1, 9, 5, 3, 4, 8,
		1, 9, 8, 3, 4, 2, 5, 6, 7,
		8, 5, 9, 7, 6, 1, 4, 2, 3,
		4, 2, 6, 8, 5, 3, 7, 9, 1,
		7, 1, 3, 9, 2, 4, 8, 5, 6,
		9, 6, 1, 5, 3, 7, 2, 8, 4,
		2, 8, 7, 4, 1, 9, 6, 3, 5,
		3, 4, 5, 2, 8, 6, 1, 7, 9,
	}
}
