// Scenario load: builds a Simulator's derived state from the logical
// record shapes of spec §6, decoded strictly from YAML.

package sim

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cyclesim/cyclesim/sim/workload"
)

// Scenario holds the fully-built, validated derived state a Simulator is
// constructed from (spec §3 "Lifecycles": "Network, profiles, O-D: created
// on scenario load; read-only during run").
type Scenario struct {
	Network       *Network
	Profiles      *ProfileMix // nil when the scenario configures no profiles
	OD            *ODMatrix
	Distributions map[NodeID]workload.DistSpec
	Kinematics    KinematicsConfig
	Router        RouterConfig
}

// Validate accumulates every problem found across the scenario's components
// into a single *ValidationError (spec §9 Open Questions; SPEC_FULL.md:
// "Scenario validation report").
func (s *Scenario) Validate() error {
	var problems []string
	if err := s.Kinematics.Validate(); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			problems = append(problems, ve.Problems...)
		} else {
			problems = append(problems, err.Error())
		}
	}
	if s.Network == nil || len(s.Network.NodeIDs()) == 0 {
		problems = append(problems, "scenario has no nodes")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// yamlScenario is the literal on-disk shape, decoded strictly (unknown
// fields are a load error, spec.md §6's record shapes).
type yamlScenario struct {
	Nodes []struct {
		ID string  `yaml:"id"`
		X  float64 `yaml:"x"`
		Y  float64 `yaml:"y"`
	} `yaml:"nodes"`
	Edges []struct {
		Origin      string             `yaml:"origin"`
		Destination string             `yaml:"destination"`
		Length      float64            `yaml:"length"`
		Attrs       map[string]float64 `yaml:"attrs"`
	} `yaml:"edges"`
	Profiles []struct {
		ID          string             `yaml:"id"`
		Probability float64            `yaml:"probability"`
		Weights     map[string]float64 `yaml:"weights"`
	} `yaml:"profiles"`
	OD            map[string]map[string]float64 `yaml:"od"`
	Distributions map[string]workload.DistSpec   `yaml:"distributions"`
	Kinematics    struct {
		VMin  float64 `yaml:"v_min"`
		VMax  float64 `yaml:"v_max"`
		TSim  float64 `yaml:"t_sim"`
		Seed  int64   `yaml:"seed"`
		Model string  `yaml:"model"`
	} `yaml:"kinematics"`
	Router struct {
		MaxCacheEntries int `yaml:"max_cache_entries"`
	} `yaml:"router"`
}

// routerCacheSizeOrDefault applies DefaultRouteCacheSize when a scenario
// file does not configure router.max_cache_entries.
func routerCacheSizeOrDefault(n int) int {
	if n > 0 {
		return n
	}
	return DefaultRouteCacheSize
}

// LoadScenario reads and strictly decodes a scenario file, then builds the
// derived Network/ProfileMix/ODMatrix state (spec §6).
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sim: opening scenario %s: %w", path, err)
	}
	defer f.Close()

	var raw yamlScenario
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("sim: decoding scenario %s: %w", path, err)
	}

	network := NewNetwork()
	for _, n := range raw.Nodes {
		if err := network.AddNode(Node{ID: NodeID(n.ID), X: n.X, Y: n.Y}); err != nil {
			return nil, fmt.Errorf("sim: scenario %s: %w", path, err)
		}
	}
	for _, e := range raw.Edges {
		if err := network.AddEdge(NodeID(e.Origin), NodeID(e.Destination), e.Length, e.Attrs); err != nil {
			return nil, fmt.Errorf("sim: scenario %s: %w", path, err)
		}
	}

	var profiles *ProfileMix
	if len(raw.Profiles) == 0 {
		// No profiles configured: fall back to the built-in three-archetype
		// mix rather than a trivial single profile (spec §9 Supplemented
		// Features).
		profiles = DefaultProfileMix(network.Vocab)
	} else {
		built := make([]CyclistProfile, len(raw.Profiles))
		weights := make([]float64, len(raw.Profiles))
		for i, p := range raw.Profiles {
			w := make(map[int]float64, len(p.Weights))
			for name, val := range p.Weights {
				w[network.Vocab.idFor(name)] = val
			}
			built[i] = CyclistProfile{ID: ProfileID(p.ID), Weights: w}
			weights[i] = p.Probability
		}
		total := 0.0
		for _, w := range weights {
			total += w
		}
		// spec §6: "Probabilities are normalized to sum 1 on load
		// (tolerance 1e-2 before normalization)".
		if total > 0 && (total < 1-0.01 || total > 1+0.01) {
			logrus.Warnf("sim: profile probabilities sum to %.4f, renormalizing", total)
		}
		profiles, err = NewProfileMix(built, weights)
		if err != nil {
			return nil, fmt.Errorf("sim: scenario %s: %w", path, err)
		}
	}

	if err := network.Finalize(); err != nil {
		return nil, fmt.Errorf("sim: scenario %s: %w", path, err)
	}

	odRows := make(map[NodeID]map[NodeID]float64, len(raw.OD))
	for origin, row := range raw.OD {
		r := make(map[NodeID]float64, len(row))
		for dest, w := range row {
			r[NodeID(dest)] = w
		}
		odRows[NodeID(origin)] = r
	}
	od, err := NewODMatrix(odRows, network)
	if err != nil {
		return nil, fmt.Errorf("sim: scenario %s: %w", path, err)
	}

	distributions := make(map[NodeID]workload.DistSpec, len(network.NodeIDs()))
	for _, id := range network.NodeIDs() {
		if spec, ok := raw.Distributions[string(id)]; ok {
			distributions[id] = spec
		} else {
			distributions[id] = workload.DefaultDistSpec()
		}
	}

	scn := &Scenario{
		Network:       network,
		Profiles:      profiles,
		OD:            od,
		Distributions: distributions,
		Kinematics: KinematicsConfig{
			VMin:  raw.Kinematics.VMin,
			VMax:  raw.Kinematics.VMax,
			TSim:  raw.Kinematics.TSim,
			Seed:  raw.Kinematics.Seed,
			Model: raw.Kinematics.Model,
		},
		Router: RouterConfig{MaxCacheEntries: routerCacheSizeOrDefault(raw.Router.MaxCacheEntries)},
	}
	if err := scn.Validate(); err != nil {
		return nil, err
	}
	return scn, nil
}
