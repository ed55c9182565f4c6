package kinematics

import "fmt"

// RegressionModel estimates grade and time-dilation factors from linear
// coefficients fitted against field telemetry instead of the closed-form
// spec formulas, for scenarios calibrated to a specific city's e-bike
// fleet. Density factor is unchanged — occupancy/capacity is a network
// property, not a fleet one.
//
// GradeCoeffs: [intercept, slope] applied to grade percent, i.e.
//
//	factor = intercept + slope*gradePercent, clamped to [0.5, 1.3]
//
// DilationCoeffs: [safetyIntercept, safetySlope, lightIntercept, lightSlope].
type RegressionModel struct {
	GradeCoeffs    []float64
	DilationCoeffs []float64
}

// NewRegressionModel validates coefficient shapes and constructs a
// RegressionModel.
func NewRegressionModel(gradeCoeffs, dilationCoeffs []float64) (*RegressionModel, error) {
	if len(gradeCoeffs) != 2 {
		return nil, fmt.Errorf("kinematics: regression model needs 2 grade coefficients, got %d", len(gradeCoeffs))
	}
	if len(dilationCoeffs) != 4 {
		return nil, fmt.Errorf("kinematics: regression model needs 4 dilation coefficients, got %d", len(dilationCoeffs))
	}
	return &RegressionModel{
		GradeCoeffs:    append([]float64(nil), gradeCoeffs...),
		DilationCoeffs: append([]float64(nil), dilationCoeffs...),
	}, nil
}

func (m *RegressionModel) Name() string { return "regression" }

func (m *RegressionModel) GradeSpeed(v0, gradePercent, vMin, vMax float64) float64 {
	factor := clamp(m.GradeCoeffs[0]+m.GradeCoeffs[1]*gradePercent, 0.5, 1.3)
	return clamp(v0*factor, vMin, vMax)
}

func (m *RegressionModel) TimeDilation(safety, lighting float64, present [2]bool) float64 {
	phiSafety := 1.0
	if present[0] {
		phiSafety = m.DilationCoeffs[0] + m.DilationCoeffs[1]*safety
	}
	phiLight := 1.0
	if present[1] {
		phiLight = m.DilationCoeffs[2] + m.DilationCoeffs[3]*lighting
	}
	return clamp(phiSafety*phiLight, 0.5, 2.0)
}

func (m *RegressionModel) DensityFactor(n, c int) float64 {
	return DefaultModel{}.DensityFactor(n, c)
}
