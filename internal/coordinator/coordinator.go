// Package coordinator runs K sub-colonies concurrently against the same
// puzzle, synchronizing them at a timeout-aware barrier where a single
// master performs ring and random pheromone exchange before releasing the
// others.
package coordinator

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"sudokuacs/internal/acs"
	"sudokuacs/internal/board"
	"sudokuacs/internal/xrand"
)

// tickInterval is how often the barrier's background broadcaster wakes
// sleeping workers to recheck the wall-clock deadline, since sync.Cond has
// no built-in timed wait.
const tickInterval = 100 * time.Millisecond

// masterRNGWorkerID is the xrand worker ID reserved for the coordinator's
// own exchange-time permutation stream, chosen far outside the range any
// sub-colony ID (0..K-1) could take.
const masterRNGWorkerID = 1 << 20

// Config holds every tunable the CLI exposes for a parallel run.
type Config struct {
	K          int // sub-colonies
	Ants       int // ants per sub-colony
	N          int // puzzle size
	Q0         float64
	Rho        float64
	RhoComm    float64
	BestEvap   float64
	Timeout    time.Duration
	MasterSeed int64

	// AntsParallel and MaxConcurrentAnts configure the optional
	// parallel-ants mode (--ants-parallel): when enabled, each sub-colony
	// constructs up to MaxConcurrentAnts ants concurrently instead of
	// sequentially. MaxConcurrentAnts <= 0 defaults to Ants (unbounded
	// within the colony).
	AntsParallel     bool
	MaxConcurrentAnts int64
}

// Result is what Run reports back to the CLI.
type Result struct {
	Board         *board.Board
	Score         int
	Solved        bool
	WinnerID      int
	Iters         []int // per-colony iteration counts reached
	UsedComm      bool  // whether any communication exchange ever ran
	Elapsed       time.Duration
}

// Coordinator owns the K sub-colonies and the barrier state shared across
// their worker goroutines.
type Coordinator struct {
	cfg         Config
	initial     *board.Board
	subColonies []*acs.SubColony
	masterRNG   *rand.Rand

	mu           sync.Mutex
	cond         *sync.Cond
	barrierCount int
	stopFlag     atomic.Bool
	usedComm     atomic.Bool
	startTime    time.Time
	iters        []int
}

// New builds a coordinator for initial. K < 3 is ill-defined for ring/random
// exchange and is clamped up to 3 with a warning.
func New(cfg Config, initial *board.Board) *Coordinator {
	if cfg.K < 3 {
		fmt.Fprintf(os.Stderr, "warning: --subcolonies=%d is ill-defined for ring/random exchange; clamping to 3\n", cfg.K)
		cfg.K = 3
	}
	c := &Coordinator{
		cfg:         cfg,
		initial:     initial,
		subColonies: make([]*acs.SubColony, cfg.K),
		iters:       make([]int, cfg.K),
	}
	c.cond = sync.NewCond(&c.mu)
	masterBase := cfg.MasterSeed
	for i := 0; i < cfg.K; i++ {
		rng := xrand.New(masterBase, i)
		sc := acs.NewSubColony(i, cfg.N, cfg.Ants, cfg.Q0, cfg.Rho, cfg.RhoComm, cfg.BestEvap, rng)
		if cfg.AntsParallel {
			maxConcurrent := cfg.MaxConcurrentAnts
			if maxConcurrent <= 0 {
				maxConcurrent = int64(cfg.Ants)
			}
			sc.SetParallelAnts(true, maxConcurrent)
		}
		c.subColonies[i] = sc
	}
	// A dedicated stream for the master's exchange-time random permutation,
	// offset far outside the worker ID range so it never collides with a
	// sub-colony's stream (internal/xrand.New's additive construction).
	c.masterRNG = xrand.New(masterBase, masterRNGWorkerID)
	return c
}

// Run launches one worker goroutine per sub-colony and blocks until the
// puzzle is solved, the timeout elapses, or ctx is canceled (e.g. by
// SIGINT), then returns the best board found across all colonies.
func (c *Coordinator) Run(ctx context.Context) (*Result, error) {
	c.startTime = time.Now()

	tickerDone := make(chan struct{})
	go c.broadcastTicker(tickerDone)
	defer close(tickerDone)

	ctxDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			c.requestStop()
		case <-ctxDone:
		}
	}()
	defer close(ctxDone)

	g, _ := errgroup.WithContext(ctx)
	for i := range c.subColonies {
		id := i
		g.Go(func() error {
			return c.worker(id)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c.collectBest(), nil
}

func (c *Coordinator) requestStop() {
	c.mu.Lock()
	c.stopFlag.Store(true)
	c.cond.Broadcast()
	c.mu.Unlock()
}

func (c *Coordinator) broadcastTicker(done <-chan struct{}) {
	t := time.NewTicker(tickInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.mu.Lock()
			c.cond.Broadcast()
			c.mu.Unlock()
		case <-done:
			return
		}
	}
}

// worker is the per-sub-colony loop: run an iteration, decide via
// exchangeInterval whether this is an exchange iteration, and apply exactly
// one of the two mutually exclusive global pheromone updates.
func (c *Coordinator) worker(id int) error {
	sc := c.subColonies[id]
	iter := 1
	for {
		if c.stopFlag.Load() || c.timedOut() {
			c.requestStop()
			return nil
		}

		sc.RunIteration(c.initial)
		c.iters[id] = iter

		if sc.BestSolScore() == c.cfg.N*c.cfg.N {
			c.requestStop()
			return nil
		}

		if iter%exchangeInterval(iter) == 0 {
			c.barrier(id)
			if c.stopFlag.Load() {
				return nil
			}
			sc.UpdatePheromoneWithCommunication()
			c.usedComm.Store(true)
		} else {
			sc.UpdatePheromoneStandard()
			sc.DecayBestPher()
		}
		iter++
	}
}

// exchangeInterval reports how often to exchange: every 100th iteration
// before iteration 200, every 10th after.
func exchangeInterval(iter int) int {
	if iter < 200 {
		return 100
	}
	return 10
}

// barrier implements a deadlock-free timeout-aware join: the Kth arrival
// becomes master, performs both exchanges and the post-exchange solved
// check while holding the mutex (safe because every
// other worker is either blocked in cond.Wait or about to block), then
// releases everyone. Workers that time out while waiting set stopFlag
// themselves so no one blocks forever.
func (c *Coordinator) barrier(id int) {
	if c.stopFlag.Load() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopFlag.Load() {
		c.barrierCount = 0
		c.cond.Broadcast()
		return
	}

	c.barrierCount++
	if c.barrierCount == len(c.subColonies) {
		c.exchangeLocked()
		c.barrierCount = 0
		c.cond.Broadcast()
		return
	}

	for c.barrierCount != 0 && !c.stopFlag.Load() {
		c.cond.Wait()
		if c.barrierCount != 0 && !c.stopFlag.Load() && c.timedOut() {
			c.stopFlag.Store(true)
			c.barrierCount = 0
			c.cond.Broadcast()
		}
	}
}

// exchangeLocked runs the ring and random exchanges and the post-exchange
// "any colony wins" check. Called with c.mu held by the barrier master.
func (c *Coordinator) exchangeLocked() {
	c.ringExchange()
	c.randomExchange()
	for _, sc := range c.subColonies {
		if sc.BestSolScore() == c.cfg.N*c.cfg.N {
			c.stopFlag.Store(true)
			return
		}
	}
}

// ringExchange snapshots every colony's iterationBest before distributing,
// so the round is feed-forward-free: colony i always sends the board it
// produced this round, never one already mutated by this same exchange.
func (c *Coordinator) ringExchange() {
	k := len(c.subColonies)
	snapshots := make([]*board.Board, k)
	scores := make([]int, k)
	for i, sc := range c.subColonies {
		snapshots[i] = sc.IterationBest().Clone()
		scores[i] = sc.IterationBestScore()
	}
	for i := 0; i < k; i++ {
		recv := (i + 1) % k
		c.subColonies[recv].ReceiveIterationBest(snapshots[i], scores[i])
	}
}

// randomExchange permutes the colony indices and has each position receive
// bestSol from the position before it in the permutation, snapshotting
// bestSol up front for the same feed-forward-free reason as ringExchange.
func (c *Coordinator) randomExchange() {
	k := len(c.subColonies)
	perm := c.masterRNG.Perm(k)
	snapshots := make([]*board.Board, k)
	scores := make([]int, k)
	for i, sc := range c.subColonies {
		snapshots[i] = sc.BestSol().Clone()
		scores[i] = sc.BestSolScore()
	}
	for pos := 0; pos < k; pos++ {
		donorPos := (pos - 1 + k) % k
		donor := perm[donorPos]
		recv := perm[pos]
		c.subColonies[recv].ReceiveBestSol(snapshots[donor], scores[donor])
	}
}

func (c *Coordinator) timedOut() bool {
	return time.Since(c.startTime) >= c.cfg.Timeout
}

// collectBest scans every colony's bestSol and returns the highest-scoring
// one, ties broken by lowest colony id.
func (c *Coordinator) collectBest() *Result {
	winner := 0
	bestScore := -1
	for i, sc := range c.subColonies {
		if sc.BestSolScore() > bestScore {
			bestScore = sc.BestSolScore()
			winner = i
		}
	}
	sc := c.subColonies[winner]
	return &Result{
		Board:    sc.BestSol().Clone(),
		Score:    sc.BestSolScore(),
		Solved:   sc.BestSolScore() == c.cfg.N*c.cfg.N,
		WinnerID: winner,
		Iters:    append([]int(nil), c.iters...),
		UsedComm: c.usedComm.Load(),
		Elapsed:  time.Since(c.startTime),
	}
}
