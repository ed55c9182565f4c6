// Package sim provides the core discrete-event simulation engine for cyclesim.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - network.go: Node/Edge graph model, attribute vocabulary, capacity
//   - cyclist.go: Cyclist lifecycle (pending → active → completed) and the pool
//   - scheduler.go: the event heap and the step/run_until loop
//   - event.go: event types that drive the simulation (Arrival, MicroStep, Termination)
//   - agent.go: the per-cyclist trip state machine (spawn to completion)
//   - simulator.go: wires everything together and exposes the control surface
//
// # Architecture
//
// The sim package defines interfaces and the reference implementations of the
// core engine; pluggable extension points live in sub-packages:
//   - sim/workload/: inter-arrival distribution samplers
//   - sim/kinematics/: kinematic models (grade speed, time dilation, density)
//
// Sub-packages register their implementations via init() functions that set
// package-level factory variables (NewKinematicModelFunc), the same pattern
// used elsewhere in this codebase to avoid an import cycle between sim/ (the
// interface owner) and its implementation packages.
//
// # Key Interfaces
//
// The extension points are single-method or small interfaces:
//   - KinematicModel: grade-adjusted speed, safety/lighting time dilation, density factor
//   - ArrivalSampler (sim/workload): inter-arrival time sampling per origin
//
// See SPEC_FULL.md for the full behavioral specification.
package sim
