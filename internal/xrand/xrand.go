// Package xrand wraps math/rand sources with distinct-per-worker seeding:
// sub-colony i seeds from a time-derived master seed combined with i, so
// each Ant/SubColony gets its own independent rand.Rand.
package xrand

import "math/rand"

// MasterSeed derives a base seed from wall-clock time. A deterministic run
// passes a fixed seed in place of MasterSeed's result.
func MasterSeed() int64 {
	return timeNowUnixNano()
}

var goldenGammaU64 uint64 = 0x9E3779B97F4A7C15

// New returns a *rand.Rand private to one worker, seeded from base combined
// with workerID so distinct sub-colonies never share a stream.
func New(base int64, workerID int) *rand.Rand {
	return rand.New(rand.NewSource(base + int64(workerID)*int64(goldenGammaU64)))
}
