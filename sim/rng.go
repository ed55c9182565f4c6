package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical scenario
// MUST produce bit-for-bit identical results() (spec P4).
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemArrivals seeds per-origin inter-arrival sampling.
	SubsystemArrivals = "arrivals"

	// SubsystemDecision seeds profile and destination draws made by the
	// decision block on each arrival.
	SubsystemDecision = "decision"

	// SubsystemSpeed seeds the per-cyclist base speed draw.
	SubsystemSpeed = "speed"
)

// SubsystemOrigin returns the RNG subsystem name for a single origin's
// arrival generator, so each origin gets an independent, seed-derived stream
// (spec §4.2: "one generator per origin (preferred)").
func SubsystemOrigin(origin NodeID) string {
	return fmt.Sprintf("%s:%s", SubsystemArrivals, origin)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem,
// so that (for example) adding a profile with a new routing draw does not
// perturb the arrival stream's sample sequence.
//
// Derivation: masterSeed XOR fnv1a64(subsystemName) for every subsystem,
// including per-origin arrival streams, so each is isolated by name.
//
// Thread-safety: NOT thread-safe. The scheduler is single-threaded by
// construction (spec §5), so no locking is needed here either.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	derivedSeed := int64(p.key) ^ fnv1a64(name)
	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
