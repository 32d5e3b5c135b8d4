package singlecolony

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudokuacs/internal/board"
)

func TestRunOnAlreadySolvedBoardStopsImmediately(t *testing.T) {
	b := board.New(9)
	require.NoError(t, b.LoadGivens([]int{
		5, 3, 4, 6, 7, 8, 9, 1, 2,
		6, 7, 2, 1, 9, 5, 3, 4, 8,
		1, 9, 8, 3, 4, 2, 5, 6, 7,
		8, 5, 9, 7, 6, 1, 4, 2, 3,
		4, 2, 6, 8, 5, 3, 7, 9, 1,
		7, 1, 3, 9, 2, 4, 8, 5, 6,
		9, 6, 1, 5, 3, 7, 2, 8, 4,
		2, 8, 7, 4, 1, 9, 6, 3, 5,
		3, 4, 5, 2, 8, 6, 1, 7, 9,
	}))
	res := Run(context.Background(), Config{Ants: 4, N: 9, Q0: 0.9, Rho: 0.9, BestEvap: 0.005, Timeout: 2 * time.Second, Seed: 1}, b)
	assert.True(t, res.Solved)
	assert.Equal(t, 81, res.Score)
	assert.Equal(t, 1, res.Iters)
}

func TestRunHonorsTimeoutOnHardInstance(t *testing.T) {
	b := board.New(9)
	require.NoError(t, b.LoadGivens(make([]int, 81)))
	cfg := Config{Ants: 4, N: 9, Q0: 0.9, Rho: 0.9, BestEvap: 0.005, Timeout: 100 * time.Millisecond, Seed: 2}

	start := time.Now()
	res := Run(context.Background(), cfg, b)
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 2*time.Second)
	assert.NotNil(t, res.Board)
}
