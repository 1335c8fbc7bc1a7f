package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/serdeslab/pipesim/sim"
	"github.com/serdeslab/pipesim/simulation"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "pipesim",
	Short: "Pipesim runs link-training signaling scenarios of a high-speed " +
		"serial interconnect.",
	Long: `Pipesim runs link-training signaling scenarios of a high-speed ` +
		`serial interconnect. Currently, it supports LFPS polling on the ` +
		`side-band line and training-set handshakes on the symbol stream.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		// A missing .env file is not an error.
		_ = godotenv.Load()

		startProfiling(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("profile", false,
		"write a CPU profile of the run to the working directory")
	rootCmd.PersistentFlags().String("output", "",
		"name of the output files, without extension")
	rootCmd.PersistentFlags().Bool("log-events", false,
		"print every dispatched event to stderr")
}

// attachEventLogger makes the engine print every dispatched event when
// --log-events is set.
func attachEventLogger(cmd *cobra.Command, engine sim.Engine) {
	enabled, _ := cmd.Flags().GetBool("log-events")
	if !enabled {
		return
	}

	engine.AcceptHook(sim.NewEventLogger(log.New(os.Stderr, "", 0)))
}

// startProfiling begins CPU profiling when --profile is set. The stop is
// registered with atexit so that the profile is written even though runs
// end through atexit.Exit.
func startProfiling(cmd *cobra.Command) {
	enabled, _ := cmd.Flags().GetBool("profile")
	if !enabled {
		return
	}

	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."))
	atexit.Register(p.Stop)
}

// outputName resolves the output file prefix: the --output flag first, the
// PIPESIM_OUTPUT environment variable next. An empty name makes the data
// recorder generate a unique one, so reruns never collide.
func outputName(cmd *cobra.Command) string {
	name, _ := cmd.Flags().GetString("output")
	if name != "" {
		return name
	}

	return os.Getenv("PIPESIM_OUTPUT")
}

// buildSimulation assembles a simulation for one run. Monitoring is off
// unless asked for, so batch runs do not bind ports.
func buildSimulation(cmd *cobra.Command) *simulation.Simulation {
	b := simulation.MakeBuilder().
		WithOutputFileName(outputName(cmd))

	monitorOn, _ := cmd.Flags().GetBool("monitor")
	if !monitorOn {
		return b.WithoutMonitoring().Build()
	}

	if port, _ := cmd.Flags().GetInt("monitor-port"); port > 0 {
		b = b.WithMonitorPort(port)
	}

	return b.Build()
}

// addRunFlags declares the flags that every run command shares.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("freq", 100,
		"system clock frequency, in MHz")
	cmd.Flags().Float64("duration", 50,
		"simulated time before the run winds down, in microseconds")
	cmd.Flags().String("scenario", "",
		"YAML scenario file; its fields override the matching flags")
	cmd.Flags().Bool("monitor", false,
		"start the monitoring server for this run")
	cmd.Flags().Int("monitor-port", 0,
		"port of the monitoring server")
}
