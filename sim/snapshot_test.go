package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResults_ReflectsCompletedCyclistsAndEdges(t *testing.T) {
	scn := newTriangleScenario(t, 1000, 9)
	s, err := NewSimulator(scn)
	require.NoError(t, err)
	// Cancel the background arrivals so c is the only cyclist, without
	// raising the stop flag (which would halt c after its first edge).
	for _, gen := range s.arrivalGens {
		s.Scheduler.Cancel(gen.handle)
	}

	c := newActiveCyclist(s, []NodeID{"a", "b", "c", "a"})
	s.RunUntil(1000)
	require.Equal(t, CyclistCompleted, c.State)

	res := s.Results()
	require.Len(t, res.Cyclists, 1)
	assert.Equal(t, "completed", res.Cyclists[0].State)
	assert.Equal(t, NodeID("a"), res.Cyclists[0].Origin)
	assert.InDelta(t, 300.0, res.Cyclists[0].TotalDistance, 1e-6)

	assert.Equal(t, 1, res.Aggregates.CompletedCount)
	assert.Equal(t, 1, res.Aggregates.TripTime.Count)

	require.Len(t, res.Edges, 3)
	found := false
	for _, e := range res.Edges {
		if e.From == "a" && e.To == "b" {
			found = true
			assert.Equal(t, 1, e.Entries)
			assert.Greater(t, e.Capacity, 0)
		}
	}
	assert.True(t, found)
}

func TestResults_DiagnosticsCarriedThrough(t *testing.T) {
	scn := newTriangleScenario(t, 1000, 10)
	s, err := NewSimulator(scn)
	require.NoError(t, err)

	_ = newActiveCyclist(s, []NodeID{"a", "c"}) // not a real edge
	s.Step()

	res := s.Results()
	assert.Equal(t, 1, res.Diagnostics.BugCount)
}

func TestResults_SnapshotBeforeCompletionIsEmpty(t *testing.T) {
	scn := newTriangleScenario(t, 1000, 11)
	s, err := NewSimulator(scn)
	require.NoError(t, err)

	res := s.Results()
	assert.Empty(t, res.Cyclists)
	assert.Equal(t, 0.0, res.Now)
}

func TestSnapshot_ReflectsActiveCyclistsAndOccupancy(t *testing.T) {
	scn := newTriangleScenario(t, 1000, 12)
	s, err := NewSimulator(scn)
	require.NoError(t, err)

	c := newActiveCyclist(s, []NodeID{"a", "b", "c", "a"})
	s.Step() // enterEdge: occupies a->b

	snap := s.Snapshot()
	require.Len(t, snap.Cyclists, 1)
	assert.Equal(t, c.ID, snap.Cyclists[0].ID)
	assert.NotEmpty(t, snap.Cyclists[0].Color)
	assert.Equal(t, []NodeID{"a", "b", "c", "a"}, snap.Cyclists[0].Route)

	require.Len(t, snap.Edges, 3)
	found := false
	for _, e := range snap.Edges {
		if e.From == "a" && e.To == "b" {
			found = true
			assert.Equal(t, 1, e.Count)
		}
	}
	assert.True(t, found)
}

func TestColorFor_StableForSameProfile(t *testing.T) {
	assert.Equal(t, colorFor("commuter"), colorFor("commuter"))
}

func TestSimulator_Status_Lifecycle(t *testing.T) {
	scn := newTriangleScenario(t, 10, 13)
	s, err := NewSimulator(scn)
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, s.Status())

	// Single-edge route: AtFinalEdge() is already true, so the cyclist
	// completes normally once its traversal finishes, even after Stop().
	newActiveCyclist(s, []NodeID{"a", "b"})
	s.Step()
	assert.Equal(t, StatusRunning, s.Status())

	s.Stop()
	assert.Equal(t, StatusPaused, s.Status()) // cyclist still draining

	s.RunUntil(1000)
	assert.Equal(t, StatusCompleted, s.Status())
}
