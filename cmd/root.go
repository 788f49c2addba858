// cmd/root.go
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	sim "github.com/OpenRailAssociation/popupsim/sim"
)

var (
	scenarioPath string
	horizon      float64
	logLevel     string
	enableTrace  bool
	metricsAddr  string
)

var rootCmd = &cobra.Command{
	Use:   "popupsim",
	Short: "Discrete-event simulator for Pop-Up DAC retrofit workshops",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a retrofit scenario to its horizon and print the KPI report",
	RunE:  runScenario,
}

// Execute is the CLI's single entrypoint, called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a scenario YAML file (required)")
	runCmd.Flags().Float64Var(&horizon, "horizon", 1440, "Simulation horizon in minutes")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&enableTrace, "trace", false, "Emit an OpenTelemetry span covering the whole run to stdout")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "If set, serve Prometheus metrics on this address (e.g. :9090) after the run completes")
	_ = runCmd.MarkFlagRequired("scenario")

	_ = viper.BindPFlag("scenario", runCmd.Flags().Lookup("scenario"))
	_ = viper.BindPFlag("horizon", runCmd.Flags().Lookup("horizon"))
	_ = viper.BindPFlag("log", runCmd.Flags().Lookup("log"))
	viper.SetEnvPrefix("POPUPSIM")
	viper.AutomaticEnv()

	rootCmd.AddCommand(runCmd)
}

func runScenario(_ *cobra.Command, _ []string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	scn, err := LoadScenario(scenarioPath)
	if err != nil {
		return err
	}
	if err := scn.Validate(); err != nil {
		return err
	}

	var shutdownTracing func()
	tracer, shutdownTracing, err := setupTracer(enableTrace)
	if err != nil {
		return err
	}
	defer shutdownTracing()

	logrus.Infof("starting simulation: horizon=%.1fmin tracks=%d workshops=%d locomotives=%d trains=%d",
		horizon, len(scn.Tracks), len(scn.Workshops), len(scn.Locomotives), len(scn.Trains))

	result := sim.Run(scn, horizon, tracer)

	if result.Aborted {
		logrus.Errorf("simulation aborted: %s", result.AbortCause)
	}
	result.KPIs.Print()
	logrus.Infof("simulation complete: %d events logged", len(result.Events))

	if metricsAddr != "" {
		if err := serveMetrics(metricsAddr, result); err != nil {
			return err
		}
	}

	return nil
}
