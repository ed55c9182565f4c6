// Package workload provides the inter-arrival distribution samplers
// consulted by sim's arrival generator process (spec §4.2).
package workload

import (
	"fmt"
	"math"
	"math/rand"
)

// DistributionDomainError reports a distribution parameter outside its
// mathematical domain (e.g. a non-positive rate or shape).
type DistributionDomainError struct {
	Distribution string
	Param        string
	Value        float64
}

func (e *DistributionDomainError) Error() string {
	return fmt.Sprintf("workload: %s distribution: parameter %s=%v out of domain", e.Distribution, e.Param, e.Value)
}

// ArrivalSampler generates inter-arrival times for one origin's arrival
// process (spec §4.2).
type ArrivalSampler interface {
	// Sample returns the next inter-arrival time in seconds. Always > 0.
	Sample(rng *rand.Rand) float64
}

// DistSpec is the tagged-union scenario representation of a distribution
// choice, decoded directly off YAML (spec §6: "Distributions: map<node_id,
// {kind, params}>").
type DistSpec struct {
	Kind   string             `yaml:"kind"`
	Params map[string]float64 `yaml:"params"`
}

// DefaultDistSpec is applied when a scenario omits an origin's distribution
// (spec §6: "Default: exponential(λ=0.5) per node if absent").
func DefaultDistSpec() DistSpec {
	return DistSpec{Kind: "exponential", Params: map[string]float64{"lambda": 0.5}}
}

func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("workload: distribution requires parameter %q", k)
		}
	}
	return nil
}

// ExponentialSampler draws inter-arrival times with rate Lambda > 0
// (spec §4.2 table: "-ln(U)/lambda").
type ExponentialSampler struct {
	Lambda float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return -math.Log(uniformOpen(rng)) / s.Lambda
}

// NormalSampler draws inter-arrival times from a normal distribution via an
// explicit Box-Muller transform (spec §4.2 table requires Box-Muller, not
// an implementation-defined normal generator), truncated at 0: a
// non-positive draw is resampled.
type NormalSampler struct {
	Mu, Sigma float64
}

func (s *NormalSampler) Sample(rng *rand.Rand) float64 {
	for {
		v := s.Mu + s.Sigma*boxMuller(rng)
		if v > 0 {
			return v
		}
	}
}

// LognormalSampler draws inter-arrival times as exp(mu + sigma*Z) with Z
// from the same Box-Muller transform as NormalSampler (spec §4.2 table).
type LognormalSampler struct {
	Mu, Sigma float64
}

func (s *LognormalSampler) Sample(rng *rand.Rand) float64 {
	return math.Exp(s.Mu + s.Sigma*boxMuller(rng))
}

// GammaSampler draws inter-arrival times from Gamma(k, theta) via
// Marsaglia-Tsang, with an Ahrens-Dieter reduction for shape < 1
// (spec §4.2 table: "Marsaglia-Tsang").
type GammaSampler struct {
	K, Theta float64
}

func (s *GammaSampler) Sample(rng *rand.Rand) float64 {
	return gammaRand(rng, s.K, s.Theta)
}

// gammaRand samples from Gamma(shape, scale). For shape < 1 it uses the
// Ahrens-Dieter identity Gamma(a) = Gamma(a+1) * U^(1/a); for shape >= 1 it
// uses Marsaglia-Tsang's rejection method.
func gammaRand(rng *rand.Rand, shape, scale float64) float64 {
	if shape < 1.0 {
		u := uniformOpen(rng)
		return gammaRand(rng, shape+1.0, scale) * math.Pow(u, 1.0/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)

	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1.0 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()

		if u < 1.0-0.0331*(x*x)*(x*x) {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// WeibullSampler draws inter-arrival times via the Weibull inverse-CDF
// (spec §4.2 table: "lambda*(-ln(U))^(1/k)").
type WeibullSampler struct {
	K, Lambda float64
}

func (s *WeibullSampler) Sample(rng *rand.Rand) float64 {
	return s.Lambda * math.Pow(-math.Log(uniformOpen(rng)), 1.0/s.K)
}

// boxMuller draws one standard-normal variate using the explicit
// Box-Muller transform (spec §4.2: "normal: Box-Muller").
func boxMuller(rng *rand.Rand) float64 {
	u1 := uniformOpen(rng)
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// uniformOpen returns a uniform sample in (0,1), avoiding the log(0)
// singularity that rng.Float64()'s [0,1) range can produce.
func uniformOpen(rng *rand.Rand) float64 {
	u := rng.Float64()
	if u <= 0 {
		return math.SmallestNonzeroFloat64
	}
	return u
}

// Mean returns the theoretical mean of an ArrivalSampler's distribution,
// used by statistical tests to check sampled means against the closed-form
// value (spec §4.2, P9). Panics on a sampler type it doesn't recognize,
// since every ArrivalSampler built by NewArrivalSampler is one of the cases
// below.
func Mean(s ArrivalSampler) float64 {
	switch d := s.(type) {
	case *ExponentialSampler:
		return 1.0 / d.Lambda
	case *NormalSampler:
		// Mean of the normal truncated to (0, inf), matching Sample's
		// rejection of non-positive draws.
		a := -d.Mu / d.Sigma
		pdf := math.Exp(-a*a/2) / math.Sqrt(2*math.Pi)
		tail := 0.5 * math.Erfc(a/math.Sqrt2)
		return d.Mu + d.Sigma*pdf/tail
	case *LognormalSampler:
		return math.Exp(d.Mu + d.Sigma*d.Sigma/2)
	case *GammaSampler:
		return d.K * d.Theta
	case *WeibullSampler:
		return d.Lambda * math.Gamma(1+1/d.K)
	default:
		panic(fmt.Sprintf("workload: Mean: unrecognized sampler type %T", s))
	}
}

// NewArrivalSampler builds an ArrivalSampler from a DistSpec, validating
// that every parameter is present and within its mathematical domain.
func NewArrivalSampler(spec DistSpec) (ArrivalSampler, error) {
	switch spec.Kind {
	case "exponential":
		if err := requireParam(spec.Params, "lambda"); err != nil {
			return nil, err
		}
		lambda := spec.Params["lambda"]
		if lambda <= 0 {
			return nil, &DistributionDomainError{Distribution: "exponential", Param: "lambda", Value: lambda}
		}
		return &ExponentialSampler{Lambda: lambda}, nil

	case "normal":
		if err := requireParam(spec.Params, "mu", "sigma"); err != nil {
			return nil, err
		}
		sigma := spec.Params["sigma"]
		if sigma <= 0 {
			return nil, &DistributionDomainError{Distribution: "normal", Param: "sigma", Value: sigma}
		}
		return &NormalSampler{Mu: spec.Params["mu"], Sigma: sigma}, nil

	case "lognormal":
		if err := requireParam(spec.Params, "mu", "sigma"); err != nil {
			return nil, err
		}
		sigma := spec.Params["sigma"]
		if sigma <= 0 {
			return nil, &DistributionDomainError{Distribution: "lognormal", Param: "sigma", Value: sigma}
		}
		return &LognormalSampler{Mu: spec.Params["mu"], Sigma: sigma}, nil

	case "gamma":
		if err := requireParam(spec.Params, "k", "theta"); err != nil {
			return nil, err
		}
		k, theta := spec.Params["k"], spec.Params["theta"]
		if k <= 0 {
			return nil, &DistributionDomainError{Distribution: "gamma", Param: "k", Value: k}
		}
		if theta <= 0 {
			return nil, &DistributionDomainError{Distribution: "gamma", Param: "theta", Value: theta}
		}
		return &GammaSampler{K: k, Theta: theta}, nil

	case "weibull":
		if err := requireParam(spec.Params, "k", "lambda"); err != nil {
			return nil, err
		}
		k, lambda := spec.Params["k"], spec.Params["lambda"]
		if k <= 0 {
			return nil, &DistributionDomainError{Distribution: "weibull", Param: "k", Value: k}
		}
		if lambda <= 0 {
			return nil, &DistributionDomainError{Distribution: "weibull", Param: "lambda", Value: lambda}
		}
		return &WeibullSampler{K: k, Lambda: lambda}, nil

	default:
		return nil, fmt.Errorf("workload: unknown distribution kind %q", spec.Kind)
	}
}
