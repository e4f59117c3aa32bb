package tasktree

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"pitasks/internal/core"
)

// MaxWorkers bounds the worker count so that packing a child index (at most
// core.MaxFanOut) with a worker identity always fits in 32 bits.
const MaxWorkers = 1 << 16

// Config is the immutable definition of a run.
type Config struct {
	// Budget is the maximum number of tasks admitted to do work.
	Budget int64 `json:"budget" yaml:"budget"`
	// Workers is the size of the fixed worker pool.
	Workers int `json:"workers" yaml:"workers"`
	// Lower and Upper bound the precision draw, [Lower, Upper).
	Lower uint64 `json:"lower" yaml:"lower"`
	Upper uint64 `json:"upper" yaml:"upper"`
	// Seed is the root task's seed.
	Seed core.TaskSeed `json:"seed" yaml:"seed"`
}

// Validate reports the first invalid field as a *ConfigError.
func (c Config) Validate() error {
	if c.Budget <= 0 {
		return invalidf("task budget must be > 0 (got %d)", c.Budget)
	}
	if c.Workers <= 0 {
		return invalidf("worker count must be > 0 (got %d)", c.Workers)
	}
	if c.Workers > MaxWorkers {
		return invalidf("worker count must be <= %d (got %d)", MaxWorkers, c.Workers)
	}
	if c.Upper <= c.Lower {
		return invalidf("upper precision must be greater than lower (got [%d, %d))", c.Lower, c.Upper)
	}
	return nil
}

// Normalize clamps Lower to at least 1 so no task is ever asked to integrate
// over zero subintervals. For the range [0, 1) this collapses the draw to
// the single precision 1.
func (c Config) Normalize() Config {
	if c.Lower == 0 {
		c.Lower = 1
	}
	return c
}

// Hash returns a stable fingerprint of the normalized configuration.
func (c Config) Hash() string {
	n := c.Normalize()
	h := sha256.New()
	var buf [8]byte
	for _, v := range []uint64{uint64(n.Budget), uint64(n.Workers), n.Lower, n.Upper, uint64(n.Seed)} {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
