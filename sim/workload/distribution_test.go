package workload

import (
	"math"
	"math/rand"
	"testing"
)

func sampleMean(t *testing.T, s ArrivalSampler, n int, seed int64) float64 {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	sum := 0.0
	for i := 0; i < n; i++ {
		v := s.Sample(rng)
		if v <= 0 {
			t.Fatalf("sample %d: got non-positive inter-arrival time %v", i, v)
		}
		sum += v
	}
	return sum / float64(n)
}

func TestExponentialSampler_MeanMatchesInverseLambda(t *testing.T) {
	s, err := NewArrivalSampler(DistSpec{Kind: "exponential", Params: map[string]float64{"lambda": 2.0}})
	if err != nil {
		t.Fatal(err)
	}
	mean := sampleMean(t, s, 200000, 1)
	want := 0.5
	if math.Abs(mean-want)/want > 0.05 {
		t.Errorf("exponential mean = %.4f, want ≈ %.4f (within 5%%)", mean, want)
	}
}

func TestNormalSampler_TruncatedAtZero(t *testing.T) {
	s, err := NewArrivalSampler(DistSpec{Kind: "normal", Params: map[string]float64{"mu": 0.1, "sigma": 1.0}})
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10000; i++ {
		if v := s.Sample(rng); v <= 0 {
			t.Fatalf("normal sampler produced non-positive value %v", v)
		}
	}
}

func TestLognormalSampler_MeanWithinTolerance(t *testing.T) {
	s, err := NewArrivalSampler(DistSpec{Kind: "lognormal", Params: map[string]float64{"mu": 0, "sigma": 0.25}})
	if err != nil {
		t.Fatal(err)
	}
	mean := sampleMean(t, s, 200000, 3)
	want := Mean(s)
	if math.Abs(mean-want)/want > 0.05 {
		t.Errorf("lognormal mean = %.4f, want ≈ %.4f (within 5%%)", mean, want)
	}
}

func TestGammaSampler_MeanMatchesKTheta(t *testing.T) {
	s, err := NewArrivalSampler(DistSpec{Kind: "gamma", Params: map[string]float64{"k": 2.0, "theta": 1.5}})
	if err != nil {
		t.Fatal(err)
	}
	mean := sampleMean(t, s, 200000, 5)
	want := 2.0 * 1.5
	if math.Abs(mean-want)/want > 0.05 {
		t.Errorf("gamma mean = %.4f, want ≈ %.4f (within 5%%)", mean, want)
	}
}

func TestGammaSampler_ShapeBelowOneUsesAhrensDieterReduction(t *testing.T) {
	s, err := NewArrivalSampler(DistSpec{Kind: "gamma", Params: map[string]float64{"k": 0.4, "theta": 2.0}})
	if err != nil {
		t.Fatal(err)
	}
	mean := sampleMean(t, s, 200000, 9)
	want := 0.4 * 2.0
	if math.Abs(mean-want)/want > 0.08 {
		t.Errorf("gamma(k<1) mean = %.4f, want ≈ %.4f (within 8%%)", mean, want)
	}
}

func TestWeibullSampler_MeanWithinTolerance(t *testing.T) {
	s, err := NewArrivalSampler(DistSpec{Kind: "weibull", Params: map[string]float64{"k": 1.5, "lambda": 2.0}})
	if err != nil {
		t.Fatal(err)
	}
	mean := sampleMean(t, s, 200000, 11)
	want := Mean(s)
	if math.Abs(mean-want)/want > 0.05 {
		t.Errorf("weibull mean = %.4f, want ≈ %.4f (within 5%%)", mean, want)
	}
}

func TestNewArrivalSampler_RejectsMissingParams(t *testing.T) {
	cases := []DistSpec{
		{Kind: "exponential", Params: map[string]float64{}},
		{Kind: "normal", Params: map[string]float64{"mu": 1}},
		{Kind: "gamma", Params: map[string]float64{"k": 1}},
		{Kind: "weibull", Params: map[string]float64{"lambda": 1}},
	}
	for _, c := range cases {
		if _, err := NewArrivalSampler(c); err == nil {
			t.Errorf("NewArrivalSampler(%+v): want error for missing parameter", c)
		}
	}
}

func TestNewArrivalSampler_RejectsNonPositiveDomainParams(t *testing.T) {
	cases := []DistSpec{
		{Kind: "exponential", Params: map[string]float64{"lambda": 0}},
		{Kind: "normal", Params: map[string]float64{"mu": 1, "sigma": -1}},
		{Kind: "gamma", Params: map[string]float64{"k": 0, "theta": 1}},
		{Kind: "weibull", Params: map[string]float64{"k": 1, "lambda": 0}},
	}
	for _, c := range cases {
		if _, err := NewArrivalSampler(c); err == nil {
			t.Errorf("NewArrivalSampler(%+v): want domain error", c)
		}
	}
}

func TestNewArrivalSampler_UnknownKindErrors(t *testing.T) {
	if _, err := NewArrivalSampler(DistSpec{Kind: "bursty"}); err == nil {
		t.Error("NewArrivalSampler(bursty): want error for unknown kind")
	}
}

func TestDefaultDistSpec_IsExponentialHalf(t *testing.T) {
	spec := DefaultDistSpec()
	if spec.Kind != "exponential" || spec.Params["lambda"] != 0.5 {
		t.Errorf("DefaultDistSpec() = %+v, want exponential lambda=0.5", spec)
	}
}
