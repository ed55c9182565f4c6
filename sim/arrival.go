// Arrival generator process: a perpetual, per-origin source of new
// cyclists (spec §4.2, §4.4). One generator per origin (spec §4.2:
// "preferred"); the single-global-generator compatibility mode is not
// implemented (see DESIGN.md).

package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/cyclesim/cyclesim/sim/workload"
)

// arrivalGenerator drives one origin's perpetual arrival stream.
type arrivalGenerator struct {
	origin  NodeID
	sampler workload.ArrivalSampler
	handle  *scheduledEvent // the currently pending ArrivalEvent, for Cancel
}

// scheduleNext draws the next inter-arrival time and schedules the
// origin's ArrivalEvent.
func (g *arrivalGenerator) scheduleNext(sim *Simulator) {
	rng := sim.RNG.ForSubsystem(SubsystemOrigin(g.origin))
	dt := g.sampler.Sample(rng)
	g.handle = sim.Scheduler.Schedule(sim.Scheduler.Now()+dt, &ArrivalEvent{Origin: g.origin})
}

// handleArrival executes the decision block for one new cyclist born at
// origin (spec §4.4), then reschedules the origin's next arrival unless the
// stop flag has been raised.
func (sim *Simulator) handleArrival(origin NodeID) {
	sim.Statistics.RecordArrival(origin)

	decisionRNG := sim.RNG.ForSubsystem(SubsystemDecision)

	profile := sim.defaultProfile
	if sim.Profiles != nil {
		profile = sim.Profiles.Sample(decisionRNG)
	}

	dest, ok := sim.OD.Sample(origin, decisionRNG)
	if !ok {
		// Single-node network or no valid destination: nothing to route.
		sim.Diagnostics.DiscardedCount++
		sim.Statistics.RecordDropped()
	} else if route, found := sim.Router.Route(profile, origin, dest); !found {
		sim.Diagnostics.DisconnectedCount++
		sim.Statistics.RecordDropped()
		logrus.Debugf("%v", &RoutingError{Origin: origin, Dest: dest})
	} else {
		sim.spawnCyclist(origin, dest, profile, route)
	}

	if gen, ok := sim.arrivalGens[origin]; ok && !sim.stopped {
		gen.scheduleNext(sim)
	}
}

// spawnCyclist registers a new active cyclist and schedules its agent
// process to begin immediately (spec §4.4 step 5: "Δ=0").
func (sim *Simulator) spawnCyclist(origin, dest NodeID, profile CyclistProfile, route []NodeID) {
	speedRNG := sim.RNG.ForSubsystem(SubsystemSpeed)
	v0 := sim.Config.VMin + speedRNG.Float64()*(sim.Config.VMax-sim.Config.VMin)

	c := sim.Pool.Spawn()
	c.Route = route
	c.EdgeIx = 0
	c.State = CyclistActive
	c.Phase = phaseEdgeEntry
	c.Profile = profile.ID
	c.Origin = origin
	c.Dest = dest
	c.V0 = v0
	c.StartTime = sim.Scheduler.Now()
	if originNode, ok := sim.Network.Node(origin); ok {
		c.X, c.Y = originNode.X, originNode.Y
	}

	sim.active[c.ID] = c
	sim.Scheduler.Schedule(sim.Scheduler.Now(), &MicroStepEvent{CyclistID: c.ID})
}
