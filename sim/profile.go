// Cyclist profiles: named archetypes with per-attribute routing weights,
// drawn from a normalized mix at arrival time.

package sim

import (
	"fmt"
	"math/rand"
	"sort"
)

// ProfileID names a cyclist profile ("commuter", "leisure", "sport", ...).
type ProfileID string

// CyclistProfile is one archetype: how it perceives edge cost (weights over
// the attribute vocabulary, consulted by the router). Base speed is not a
// profile property — it is drawn uniformly from the scenario's kinematics
// bounds at arrival time, the same for every profile (spec §4.4 step 4).
type CyclistProfile struct {
	ID ProfileID

	// Weights maps attribute vocabulary id to the profile's routing weight
	// for that attribute; missing entries are treated as weight 0.
	Weights map[int]float64
}

// ProfileMix is a normalized probability distribution over CyclistProfiles,
// sampled by searching its cumulative weights (spec §3: "weights
// normalized to sum to 1").
type ProfileMix struct {
	profiles []CyclistProfile
	cum      []float64 // cumulative probability, cum[len-1] == 1
}

// NewProfileMix builds a ProfileMix from profiles and raw (unnormalized)
// weights. len(weights) must equal len(profiles); weights must be
// non-negative and sum to a positive value.
func NewProfileMix(profiles []CyclistProfile, weights []float64) (*ProfileMix, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("sim: profile mix requires at least one profile")
	}
	if len(profiles) != len(weights) {
		return nil, fmt.Errorf("sim: profile mix has %d profiles but %d weights", len(profiles), len(weights))
	}
	total := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("sim: profile mix weight for %q is negative: %v", profiles[i].ID, w)
		}
		total += w
	}
	if total <= 0 {
		return nil, fmt.Errorf("sim: profile mix weights sum to %v, must be > 0", total)
	}

	mix := &ProfileMix{
		profiles: append([]CyclistProfile(nil), profiles...),
		cum:      make([]float64, len(profiles)),
	}
	running := 0.0
	for i, w := range weights {
		running += w / total
		mix.cum[i] = running
	}
	mix.cum[len(mix.cum)-1] = 1.0 // guard against float drift
	return mix, nil
}

// Sample draws one profile according to the mix's normalized weights.
func (m *ProfileMix) Sample(rng *rand.Rand) CyclistProfile {
	r := rng.Float64()
	idx := sort.SearchFloat64s(m.cum, r)
	if idx >= len(m.profiles) {
		idx = len(m.profiles) - 1
	}
	return m.profiles[idx]
}

// Profiles returns the profiles in the mix, in the order supplied to
// NewProfileMix.
func (m *ProfileMix) Profiles() []CyclistProfile {
	return m.profiles
}

// DefaultProfile is the length-only profile used when a scenario configures
// no profiles at all (spec §4.4 step 1).
func DefaultProfile(vocab *AttributeVocabulary) CyclistProfile {
	lengthID, _ := vocab.Lookup("length")
	return CyclistProfile{ID: "default", Weights: map[int]float64{lengthID: 1}}
}

// DefaultProfileMix returns the built-in three-archetype mix used when a
// scenario does not define its own profiles (spec §9 Supplemented Features).
// Weights favor length but give weight to safety/lighting, matching the kind
// of profile mix described informally in original_source's distillation.
func DefaultProfileMix(vocab *AttributeVocabulary) *ProfileMix {
	lengthID, _ := vocab.Lookup("length")
	safetyID, _ := vocab.Lookup("safety")
	lightID, _ := vocab.Lookup("lighting")

	profiles := []CyclistProfile{
		{ID: "commuter", Weights: map[int]float64{lengthID: 1}},
		{ID: "leisure", Weights: map[int]float64{lengthID: 0.4, safetyID: 0.3, lightID: 0.3}},
		{ID: "sport", Weights: map[int]float64{lengthID: 0.8, safetyID: 0.2}},
	}
	mix, err := NewProfileMix(profiles, []float64{0.5, 0.3, 0.2})
	if err != nil {
		// The built-in weights are a compile-time constant; a failure here
		// means the constant itself is broken.
		panic(fmt.Sprintf("sim: default profile mix is invalid: %v", err))
	}
	return mix
}
