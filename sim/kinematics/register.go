// register.go wires sim/kinematics constructors into the sim package's
// registration variable (NewKinematicModelFunc). This init() runs when any
// package imports sim/kinematics, breaking the import cycle between sim/
// (interface owner) and sim/kinematics/ (implementation). Production code
// imports sim/kinematics directly; test code in package sim uses
// kinematics_import_test.go for the blank import.
package kinematics

import (
	"fmt"

	"github.com/cyclesim/cyclesim/sim"
)

func init() {
	sim.NewKinematicModelFunc = NewKinematicModel
}

// NewKinematicModel resolves a kinematic model by name. "" and "default"
// both select DefaultModel. RegressionModel requires fitted coefficients
// and so is not reachable by name here; construct it directly with
// NewRegressionModel for a calibrated scenario.
func NewKinematicModel(name string) (sim.KinematicModel, error) {
	switch name {
	case "", "default":
		return NewDefaultModel(), nil
	case "regression":
		return nil, fmt.Errorf("kinematics: %q requires fitted coefficients; construct via NewRegressionModel directly", name)
	default:
		return nil, fmt.Errorf("kinematics: unknown model %q", name)
	}
}
