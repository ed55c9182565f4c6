// Simulator wires the network, population model, router, occupancy index,
// statistics accumulator and scheduler together and exposes the control
// surface of spec §6 (reset/step/run_until/stop/snapshot/results).

package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/cyclesim/cyclesim/sim/workload"
)

// Diagnostics counts non-fatal conditions recorded during a run instead of
// aborting it (spec §7: "Unreachable-pair and agent exceptions are
// non-fatal: they increment Diagnostics counters").
type Diagnostics struct {
	// DiscardedCount counts cyclists with no valid destination to draw
	// (e.g. a single-node network).
	DiscardedCount int `json:"discarded_count"`
	// DisconnectedCount counts cyclists whose drawn origin/destination pair
	// has no path under the router's composite weights (spec §4.3 step 5).
	DisconnectedCount int `json:"disconnected_count"`
	// BugCount counts internal agent-process exceptions (spec §7 "Agent
	// exception"): conditions that should be unreachable given a validated
	// scenario but are recorded rather than panicking mid-run.
	BugCount int `json:"bug_count"`
}

// Simulator is the core discrete-event engine. Construct via NewSimulator;
// a zero-value Simulator is not usable.
type Simulator struct {
	Network     *Network
	Profiles    *ProfileMix // nil when the scenario configures no profiles
	OD          *ODMatrix
	Router      *Router
	Occupancy   *OccupancyIndex
	Statistics  *Statistics
	Pool        *CyclistPool
	Scheduler   *Scheduler
	RNG         *PartitionedRNG
	Kinematics  KinematicModel
	Config      KinematicsConfig
	Diagnostics *Diagnostics

	defaultProfile CyclistProfile
	arrivalGens    map[NodeID]*arrivalGenerator
	active         map[int64]*Cyclist
	started        bool
	stopped        bool
	terminationEvt *scheduledEvent
}

// NewSimulator builds a Simulator from a fully validated Scenario. It never
// returns a partially-constructed value on error (spec §7: "reset() ...
// never partially mutates a simulator on failure").
func NewSimulator(scn *Scenario) (*Simulator, error) {
	if err := scn.Validate(); err != nil {
		return nil, err
	}

	model, err := NewKinematicModel(scn.Kinematics.Model)
	if err != nil {
		return nil, err
	}

	router := NewRouter(scn.Network, scn.Router)

	sim := &Simulator{
		Network:        scn.Network,
		Profiles:       scn.Profiles,
		OD:             scn.OD,
		Router:         router,
		Occupancy:      NewOccupancyIndex(),
		Statistics:     NewStatistics(),
		Pool:           NewCyclistPool(DrainEpsilon),
		Scheduler:      NewScheduler(),
		RNG:            NewPartitionedRNG(NewSimulationKey(scn.Kinematics.Seed)),
		Kinematics:     model,
		Config:         scn.Kinematics,
		Diagnostics:    &Diagnostics{},
		defaultProfile: DefaultProfile(scn.Network.Vocab),
		arrivalGens:    make(map[NodeID]*arrivalGenerator),
		active:         make(map[int64]*Cyclist),
	}

	for _, origin := range scn.Network.NodeIDs() {
		spec := scn.Distributions[origin]
		sampler, err := workload.NewArrivalSampler(spec)
		if err != nil {
			return nil, err
		}
		gen := &arrivalGenerator{origin: origin, sampler: sampler}
		sim.arrivalGens[origin] = gen
		gen.scheduleNext(sim)
	}

	sim.terminationEvt = sim.Scheduler.Schedule(scn.Kinematics.TSim, &TerminationEvent{})

	return sim, nil
}

// Reset builds a fresh Simulator from scn, matching spec §6's reset(scenario,
// seed) naming; scn.Kinematics.Seed selects the run's SimulationKey.
func Reset(scn *Scenario) (*Simulator, error) {
	return NewSimulator(scn)
}

// Step dispatches a single event. Returns the new clock value and the
// number of currently active cyclists (spec §6: "step() — dispatch one
// event; returns (now, active_count)").
func (sim *Simulator) Step() (float64, int) {
	sim.started = true
	sim.Scheduler.Step(sim)
	return sim.Scheduler.Now(), len(sim.active)
}

// RunUntil dispatches events until the clock would pass t or the queue is
// exhausted (spec §6).
func (sim *Simulator) RunUntil(t float64) {
	sim.started = true
	sim.Scheduler.RunUntil(sim, t)
}

// Run dispatches events up to T_sim + DrainEpsilon: the termination process
// fires at T_sim, and in-flight agents drain until the allowance has
// elapsed. Events scheduled later (such as pool releases) stay queued.
func (sim *Simulator) Run() {
	sim.RunUntil(sim.Config.TSim + DrainEpsilon)
}

// Stop raises the cooperative stop flag immediately, as if the termination
// event had fired at the current clock value (spec §4.6, §5).
func (sim *Simulator) Stop() {
	sim.raiseStop()
}

// raiseStop cancels every arrival generator's pending wakeup and marks the
// simulator stopped; in-flight agents drain per their own cancellation
// check (spec §4.5 "Per-cyclist cancellation").
func (sim *Simulator) raiseStop() {
	if sim.stopped {
		return
	}
	sim.stopped = true
	for _, gen := range sim.arrivalGens {
		sim.Scheduler.Cancel(gen.handle)
	}
}

// resumeCyclist looks up an active cyclist by id and resumes its agent
// process at its stored phase. A miss means the cyclist already completed
// and a stray event outlived it; logged, not fatal.
func (sim *Simulator) resumeCyclist(id int64) {
	c, ok := sim.active[id]
	if !ok {
		logrus.Debugf("sim: stray micro-step event for completed cyclist %d", id)
		return
	}
	c.resume(sim)
}

// completeCyclist removes a cyclist from the active set once its trip ends,
// then returns its arena slot to the pool once the retention window has
// elapsed (spec §9 Design Notes: "object pooling of cyclists") — immediately
// if the pool has no retention window configured.
func (sim *Simulator) completeCyclist(c *Cyclist) {
	delete(sim.active, c.ID)
	if sim.Pool.Retention() <= 0 {
		sim.Pool.Release(c.poolIdx)
		return
	}
	sim.Scheduler.Schedule(c.EndTime+sim.Pool.Retention(), &poolReleaseEvent{PoolIdx: c.poolIdx})
}

// ActiveCount returns the number of cyclists currently in the active state.
func (sim *Simulator) ActiveCount() int { return len(sim.active) }

// Now returns the current simulation clock value.
func (sim *Simulator) Now() float64 { return sim.Scheduler.Now() }
