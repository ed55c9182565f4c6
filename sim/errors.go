package sim

import "strings"

// ValidationError reports one or more scenario-load problems accumulated
// together, so a caller sees every violation in one pass instead of
// stopping at the first (mirrors the teacher's bundle-validation style).
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "sim: invalid scenario: " + strings.Join(e.Problems, "; ")
}

// RoutingError reports a cyclist that could not be routed from an origin to
// a destination (spec §4.3 step 5: "discarded with a diagnostic").
type RoutingError struct {
	Origin, Dest NodeID
}

func (e *RoutingError) Error() string {
	return "sim: no path from " + string(e.Origin) + " to " + string(e.Dest)
}
