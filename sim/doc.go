// Package sim provides the core discrete-event simulation engine for the
// vending-machine business environment.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - state.go: episode state (slots, cash, fees, orders, mail) and the net-worth identity
//   - clock.go / event.go: the minute clock, day boundaries, and the delivery event heap
//   - engine.go: the day-rollover cascade (deliveries, demand, fee, bankruptcy)
//
// # Architecture
//
// The sim package owns all mutable episode state; surrounding concerns live
// in sub-packages:
//   - sim/tools/: the tool runtime, the sole external interface (JSON-schema validated)
//   - sim/policy/: agent policies that drive episodes (random, rule-based shopkeeper)
//   - sim/eval/: the episode runner and per-episode metrics
//   - sim/trace/: step-trace records, SQLite store, and JSONL export
//   - sim/memory/: agent memory aids (KV store, scratchpad) surfaced as tools
//
// # Determinism
//
// Each episode owns a PartitionedRNG seeded once at creation; the economy
// and supplier subsystems draw from independent streams derived from the
// master seed, so a fixed seed and tool-call sequence replays an identical
// state trajectory. Nothing in the package is process-global; independent
// episodes can run side by side in one process.
package sim
