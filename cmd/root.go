// cmd/root.go
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cyclesim/cyclesim/sim"
	_ "github.com/cyclesim/cyclesim/sim/kinematics"
)

var (
	scenarioPath string
	seed         int64
	until        float64
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "cyclesim",
	Short: "Discrete-event simulator for multi-agent cycling networks",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a cycling-network scenario to completion",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		scn, err := sim.LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("loading scenario: %v", err)
		}
		if seed != 0 {
			scn.Kinematics.Seed = seed
		}

		logrus.Infof("starting simulation: scenario=%s seed=%d T_sim=%.1f",
			scenarioPath, scn.Kinematics.Seed, scn.Kinematics.TSim)

		s, err := sim.NewSimulator(scn)
		if err != nil {
			logrus.Fatalf("building simulator: %v", err)
		}

		if until > 0 {
			s.RunUntil(until)
		} else {
			s.Run()
		}

		logrus.Infof("[tick %09.3f] simulation ended", s.Now())
		print(s.Statistics.Summary())
	},
}

func print(s string) {
	os.Stdout.WriteString(s)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a scenario YAML file (required)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Override the scenario's kinematics seed (0 = use scenario value)")
	runCmd.Flags().Float64Var(&until, "until", 0, "Run only until this simulated time (0 = run to completion)")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	runCmd.MarkFlagRequired("scenario")

	rootCmd.AddCommand(runCmd)
}
