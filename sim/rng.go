package sim

import (
	"hash/fnv"
	"math/rand"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible episode.
// Two episodes with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical trajectories under the same tool
// call sequence.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemEconomy is the RNG stream consumed by the demand model:
	// per-product parameter draws, weather walk, and daily demand noise.
	SubsystemEconomy = "economy"

	// SubsystemSupplier is the RNG stream consumed by the supplier
	// subsystem, currently only for lead-time draws.
	SubsystemSupplier = "supplier"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG streams per subsystem.
// Isolating the streams keeps the economy reproducible regardless of how
// many supplier orders the agent places, and vice versa.
//
// Derivation: masterSeed XOR fnv1a64(subsystemName).
//
// Each stream is seeded exactly once per episode and then consumed
// sequentially; it is never re-seeded mid-episode.
//
// Thread-safety: NOT thread-safe. Episodes are single-threaded.
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
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
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
