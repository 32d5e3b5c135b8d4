// Package puzzle loads a textual puzzle format: a first line giving N, then
// N lines of N whitespace-separated tokens where "0" or "." marks a blank
// cell. Malformed input returns a descriptive error rather than panicking;
// loader failures are configuration errors, never fatal inside the engine.
package puzzle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"sudokuacs/internal/board"
)

// Load reads a puzzle file from path and returns a ready-to-search board.
func Load(path string) (*board.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("puzzle: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the puzzle format from r.
func Parse(r io.Reader) (*board.Board, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	n, err := readSize(scanner)
	if err != nil {
		return nil, err
	}
	if n != 9 && n != 16 && n != 25 {
		return nil, fmt.Errorf("puzzle: unsupported size N=%d (must be 9, 16, or 25)", n)
	}

	givens := make([]int, n*n)
	row := 0
	for row < n {
		if !scanner.Scan() {
			return nil, fmt.Errorf("puzzle: expected %d rows, got %d", n, row)
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) != n {
			return nil, fmt.Errorf("puzzle: row %d has %d tokens, want %d", row, len(tokens), n)
		}
		for c, tok := range tokens {
			v, err := parseToken(tok, n)
			if err != nil {
				return nil, fmt.Errorf("puzzle: row %d col %d: %w", row, c, err)
			}
			givens[row*n+c] = v
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("puzzle: %w", err)
	}

	b := board.New(n)
	if err := b.LoadGivens(givens); err != nil {
		return nil, err
	}
	return b, nil
}

func readSize(scanner *bufio.Scanner) (int, error) {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			return 0, fmt.Errorf("puzzle: first non-blank line must be an integer N, got %q", line)
		}
		return n, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("puzzle: %w", err)
	}
	return 0, fmt.Errorf("puzzle: empty file")
}

func parseToken(tok string, n int) (int, error) {
	if tok == "0" || tok == "." {
		return 0, nil
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("invalid token %q", tok)
	}
	if v < 1 || v > n {
		return 0, fmt.Errorf("value %d out of range 1..%d", v, n)
	}
	return v, nil
}
