package sim_test

// Blank import triggers sim/kinematics's init(), which registers
// NewKinematicModelFunc. This allows package sim's internal test files to
// create kinematic models without directly importing sim/kinematics (which
// would create an import cycle).
import _ "github.com/cyclesim/cyclesim/sim/kinematics"
