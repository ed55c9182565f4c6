// Agent process: the per-cyclist trip state machine, spawn to completion
// (spec §4.5). Modeled as an explicit switch over cyclistPhase rather than a
// goroutine per cyclist — resume() is the sole re-entry point, invoked by
// the scheduler's MicroStepEvent dispatch.

package sim

import "math"

// microStepNominal is the target micro-step duration in seconds (spec §4.5
// step 3: "K = max(1, min(200, round(T/0.5)))").
const microStepNominal = 0.5

const maxMicroSteps = 200

// edgePlan is the fixed-for-the-edge quantities computed at edge entry
// (spec §4.5 step 2), recomputed in part at each 25% boundary (step 3d).
type edgePlan struct {
	vg  float64 // grade-adjusted speed, fixed for the whole edge
	phi float64 // time-dilation factor, fixed for the whole edge
}

// resume is the agent process's single re-entry point, dispatching on the
// cyclist's stored phase (spec §4.5: "phaseEdgeEntry → phaseTraversing →
// phaseEdgeExit → ... → phaseDone").
func (c *Cyclist) resume(sim *Simulator) {
	switch c.Phase {
	case phaseEdgeEntry:
		sim.enterEdge(c)
	case phaseTraversing:
		sim.advanceMicroStep(c)
	case phaseEdgeExit:
		sim.exitEdge(c)
	case phaseDone:
		// No-op: a stray event for an already-completed cyclist.
	}
}

// enterEdge performs spec §4.5 step 1 (edge entry bookkeeping) and step 2
// (traversal plan), then schedules the first micro-step wait.
func (sim *Simulator) enterEdge(c *Cyclist) {
	from, to := c.CurrentEdge()
	edge, ok := sim.Network.Edge(from, to)
	if !ok {
		// Route construction guarantees edge existence; a missing edge here
		// is an agent exception, not a user-facing condition.
		sim.Diagnostics.BugCount++
		c.Phase = phaseDone
		return
	}

	sim.Occupancy.Enter(from, to, c.ID)
	sim.Statistics.RecordEdgeEnter(from, to, sim.Scheduler.Now(), c.ID)
	c.distAtEntry = c.TotalDistance
	c.edgeEntered = sim.Scheduler.Now()

	vg := sim.Kinematics.GradeSpeed(c.V0, edge.Grade, sim.Config.VMin, sim.Config.VMax)
	safetyID, hasSafety := sim.Network.Vocab.Lookup("safety")
	lightID, hasLight := sim.Network.Vocab.Lookup("lighting")
	present := [2]bool{}
	var safety, lighting float64
	if hasSafety && safetyID < len(edge.Present) && edge.Present[safetyID] {
		present[0] = true
		safety = edge.Attrs[safetyID]
	}
	if hasLight && lightID < len(edge.Present) && edge.Present[lightID] {
		present[1] = true
		lighting = edge.Attrs[lightID]
	}
	phi := sim.Kinematics.TimeDilation(safety, lighting, present)

	c.edgeVG = vg
	c.edgePhi = phi

	rho := sim.Kinematics.DensityFactor(sim.Occupancy.Count(from, to), edge.Capacity)
	vEff := vg * rho
	total := edge.Length * phi / vEff

	k := int(math.Round(total / microStepNominal))
	if k < 1 {
		k = 1
	}
	if k > maxMicroSteps {
		k = maxMicroSteps
	}
	dt := total / float64(k)

	c.microStepCnt = k
	c.microStep = 1
	c.microDT = dt
	c.edgeLength = edge.Length

	c.Phase = phaseTraversing
	sim.Scheduler.Schedule(sim.Scheduler.Now()+dt, &MicroStepEvent{CyclistID: c.ID})
}

// advanceMicroStep performs one micro-step: position interpolation,
// trajectory recording, and the 25%-boundary density recompute (spec §4.5
// step 3).
func (sim *Simulator) advanceMicroStep(c *Cyclist) {
	now := sim.Scheduler.Now()
	from, to := c.CurrentEdge()

	alpha := float64(c.microStep) / float64(c.microStepCnt)
	fromNode, _ := sim.Network.Node(from)
	toNode, _ := sim.Network.Node(to)
	c.X = fromNode.X + alpha*(toNode.X-fromNode.X)
	c.Y = fromNode.Y + alpha*(toNode.Y-fromNode.Y)
	c.TotalDistance = c.distAtEntry + alpha*c.edgeLength
	c.recordPosition(now, c.X, c.Y)

	if crossesQuarterBoundary(c.microStep, c.microStepCnt) {
		sim.recomputeDensity(c, from, to, alpha)
	}

	if c.microStep >= c.microStepCnt {
		c.Phase = phaseEdgeExit
		sim.exitEdge(c)
		return
	}

	c.microStep++
	sim.Scheduler.Schedule(now+c.microDT, &MicroStepEvent{CyclistID: c.ID})
}

// crossesQuarterBoundary reports whether completing micro-step i of k
// crosses one of the 0.25/0.50/0.75 cumulative-progress boundaries, or
// whether k < 4 (spec §9 Open Questions: "recompute each step" when k<4).
func crossesQuarterBoundary(i, k int) bool {
	if k < 4 {
		return true
	}
	prevFrac := float64(i-1) / float64(k)
	curFrac := float64(i) / float64(k)
	for _, q := range [3]float64{0.25, 0.50, 0.75} {
		if prevFrac < q && curFrac >= q {
			return true
		}
	}
	return false
}

// recomputeDensity re-derives the effective speed from current occupancy
// and rescales the remaining micro-steps of the edge (spec §4.5 step 3d).
func (sim *Simulator) recomputeDensity(c *Cyclist, from, to NodeID, alpha float64) {
	edge, ok := sim.Network.Edge(from, to)
	if !ok {
		return
	}
	rho := sim.Kinematics.DensityFactor(sim.Occupancy.Count(from, to), edge.Capacity)
	vEff := c.edgeVG * rho
	if vEff <= 0 {
		return
	}
	remainingLength := (1 - alpha) * edge.Length
	remainingTime := remainingLength * c.edgePhi / vEff
	remainingSteps := c.microStepCnt - c.microStep
	if remainingSteps <= 0 {
		return
	}
	c.microDT = remainingTime / float64(remainingSteps)
}

// exitEdge performs spec §4.5 step 4 (edge exit bookkeeping) and step 5
// (trip completion) or advances to the next edge's entry.
func (sim *Simulator) exitEdge(c *Cyclist) {
	now := sim.Scheduler.Now()
	from, to := c.CurrentEdge()

	sim.Occupancy.Exit(from, to, c.ID)
	sim.Statistics.RecordEdgeExit(from, to, now, c.ID)
	c.EdgeElapsed = append(c.EdgeElapsed, now-c.edgeEntered)
	c.TotalDistance = c.distAtEntry + c.edgeLength

	if c.AtFinalEdge() {
		c.State = CyclistCompleted
		c.EndTime = now
		c.X, c.Y = completedSentinel, completedSentinel
		c.Phase = phaseDone
		sim.Statistics.RecordRoute(c.Route)
		sim.Statistics.RecordCompletion(c)
		sim.completeCyclist(c)
		return
	}

	c.EdgeIx++
	c.Phase = phaseEdgeEntry
	if sim.stopped {
		// Per-cyclist cancellation: finish the current micro-step (already
		// done above) and stop advancing; the cyclist stays *active* for
		// reporting (spec §4.5 "Per-cyclist cancellation").
		return
	}
	// Δ=0 reschedule: the next edge's entry happens at the same instant.
	sim.Scheduler.Schedule(now, &MicroStepEvent{CyclistID: c.ID})
}
