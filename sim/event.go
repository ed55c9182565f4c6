// Concrete event types dispatched by the Scheduler (spec §4.2, §4.5, §4.6).

package sim

import "github.com/sirupsen/logrus"

// ArrivalEvent wakes an origin's arrival generator: it spawns one cyclist
// and, unless the stop flag is raised, schedules the next wakeup for that
// origin (spec §4.2: "perpetual source of new cyclists per origin").
type ArrivalEvent struct {
	Origin NodeID
}

func (e *ArrivalEvent) Execute(sim *Simulator) {
	sim.handleArrival(e.Origin)
}

// MicroStepEvent resumes a cyclist's agent process at its stored phase
// (spec §4.5: "resuming re-enters resume at the stored phase").
type MicroStepEvent struct {
	CyclistID int64
}

func (e *MicroStepEvent) Execute(sim *Simulator) {
	logrus.Debugf("[tick %09.3f] resuming cyclist %d", sim.Scheduler.Now(), e.CyclistID)
	sim.resumeCyclist(e.CyclistID)
}

// TerminationEvent fires once at T_sim, raising the stop flag and cancelling
// all arrival generators (spec §4.6).
type TerminationEvent struct{}

func (e *TerminationEvent) Execute(sim *Simulator) {
	logrus.Infof("[tick %09.3f] termination: raising stop flag", sim.Scheduler.Now())
	sim.raiseStop()
}

// poolReleaseEvent returns a completed cyclist's arena slot to the pool's
// free list once the retention window has elapsed, so long runs recycle
// memory instead of growing the arena unbounded (spec §9 Design Notes:
// "object pooling of cyclists").
type poolReleaseEvent struct {
	PoolIdx int
}

func (e *poolReleaseEvent) Execute(sim *Simulator) {
	sim.Pool.Release(e.PoolIdx)
}
