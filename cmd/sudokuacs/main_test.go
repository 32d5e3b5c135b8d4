// This is an integration test for package main: it exercises run(), the
// testable core of the CLI that returns an exit code instead of calling
// os.Exit.
package main

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempPuzzle(t *testing.T, contents string) string {
	f, err := os.CreateTemp(t.TempDir(), "puzzle-*.txt")
	require.NoError(t, err)
	_, err = f.WriteString(contents)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

const solvedNineByNinePuzzle = `9
5 3 4 6 7 8 9 1 2
6 7 2 1 9 5 3 4 8
1 9 8 3 4 2 5 6 7
8 5 9 7 6 1 4 2 3
4 2 6 8 5 3 7 9 1
7 1 3 9 2 4 8 5 6
9 6 1 5 3 7 2 8 4
2 8 7 4 1 9 6 3 5
3 4 5 2 8 6 1 7 9
`

const easyNineByNinePuzzle = `9
5 3 0 0 7 0 0 0 0
6 0 0 1 9 5 0 0 0
0 9 8 0 0 0 0 6 0
8 0 0 0 6 0 0 0 3
4 0 0 8 0 3 0 0 1
7 0 0 0 2 0 0 0 6
0 6 0 0 0 0 2 8 0
0 0 0 4 1 9 0 0 5
0 0 0 0 8 0 0 7 9
`

func TestRunMissingFileIsConfigError(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run(context.Background(), AppConfig{}, &out, &errOut)
	assert.Equal(t, exitConfigError, code)
	assert.Contains(t, errOut.String(), "--file is required")
}

func TestRunBadPuzzleFileIsConfigError(t *testing.T) {
	path := writeTempPuzzle(t, "not a puzzle")
	var out, errOut bytes.Buffer
	code := run(context.Background(), AppConfig{File: path}, &out, &errOut)
	assert.Equal(t, exitConfigError, code)
}

func TestRunAlgBacktrackSolvesEasyPuzzle(t *testing.T) {
	path := writeTempPuzzle(t, easyNineByNinePuzzle)
	var out, errOut bytes.Buffer
	code := run(context.Background(), AppConfig{Alg: 1, File: path}, &out, &errOut)
	assert.Equal(t, exitSolved, code)
	assert.NotContains(t, out.String(), "0")
}

func TestRunAlgSingleColonyOnAlreadySolvedPuzzle(t *testing.T) {
	path := writeTempPuzzle(t, solvedNineByNinePuzzle)
	var out, errOut bytes.Buffer
	cfg := AppConfig{
		Alg: 0, File: path, Ants: 4, Q0: 0.9, Rho: 0.9, Evap: 0.005,
		Timeout: 2 * time.Second, Verbose: true,
	}
	code := run(context.Background(), cfg, &out, &errOut)
	assert.Equal(t, exitSolved, code)
	assert.Contains(t, errOut.String(), "solved in")
	assert.Contains(t, errOut.String(), "iterations:")
}

func TestRunAlgCoordinatorOnAlreadySolvedPuzzle(t *testing.T) {
	path := writeTempPuzzle(t, solvedNineByNinePuzzle)
	var out, errOut bytes.Buffer
	cfg := AppConfig{
		Alg: 2, File: path, SubColonies: 3, Ants: 4,
		Q0: 0.9, Rho: 0.9, RhoComm: 0.05, Evap: 0.005,
		Timeout: 2 * time.Second, Verbose: true,
	}
	code := run(context.Background(), cfg, &out, &errOut)
	assert.Equal(t, exitSolved, code)
	assert.Contains(t, errOut.String(), "solved in")
	assert.Contains(t, errOut.String(), "communication:")
}
