package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/serdeslab/pipesim/orderedset"
	"github.com/serdeslab/pipesim/signaling"
	"github.com/serdeslab/pipesim/sim"
	"github.com/serdeslab/pipesim/sim/directconnection"
	"github.com/serdeslab/pipesim/simulation"
	"github.com/serdeslab/pipesim/tracing"
)

var handshakeCmd = &cobra.Command{
	Use:   "handshake",
	Short: "Run a training-set handshake between two signaling units.",
	Long: "`handshake` connects two signaling units through a direct " +
		"connection, has both emit TS2 training sets carrying the " +
		"requested link configuration, and reports what each side " +
		"detected and latched.",
	Run: runHandshake,
}

func init() {
	rootCmd.AddCommand(handshakeCmd)

	addRunFlags(handshakeCmd)
	handshakeCmd.Flags().Int("repeat", 8,
		"repetitions required for detection and emitted per burst")
	handshakeCmd.Flags().Bool("reset", false,
		"set the reset bit in emitted training sets")
	handshakeCmd.Flags().Bool("loopback", false,
		"set the loopback bit in emitted training sets")
	handshakeCmd.Flags().Bool("no-scrambling", false,
		"set the scrambling-disable bit in emitted training sets")
	handshakeCmd.Flags().Bool("trace", false,
		"record detect and emit tasks in the output database")
	handshakeCmd.Flags().Bool("trace-csv", false,
		"record detect and emit tasks in a CSV file")
}

func runHandshake(cmd *cobra.Command, _ []string) {
	sc, err := loadScenario(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		atexit.Exit(1)
	}

	freqMHz, _ := cmd.Flags().GetFloat64("freq")
	if sc.FreqMHz > 0 {
		freqMHz = sc.FreqMHz
	}

	durationUS, _ := cmd.Flags().GetFloat64("duration")
	if sc.DurationUS > 0 {
		durationUS = sc.DurationUS
	}

	repeat, _ := cmd.Flags().GetInt("repeat")
	if sc.RepeatCount > 0 {
		repeat = sc.RepeatCount
	}

	cfg := linkConfigFromFlags(cmd, sc)

	s := buildSimulation(cmd)
	engine := s.GetEngine()
	attachEventLogger(cmd, engine)
	freq := sim.Freq(freqMHz) * sim.MHz

	unitBuilder := signaling.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		WithRepeatCount(repeat)
	unitA := unitBuilder.Build("UnitA")
	unitB := unitBuilder.Build("UnitB")
	s.RegisterComponent(unitA)
	s.RegisterComponent(unitB)

	conn := directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		Build("Conn")
	conn.PlugIn(unitA.TxPort)
	conn.PlugIn(unitA.RxPort)
	conn.PlugIn(unitB.TxPort)
	conn.PlugIn(unitB.RxPort)

	unitA.SetTxDst(unitB.RxPort.AsRemote())
	unitB.SetTxDst(unitA.RxPort.AsRemote())

	if trace, _ := cmd.Flags().GetBool("trace"); trace {
		tracing.CollectTrace(unitA, s.GetVisTracer())
		tracing.CollectTrace(unitB, s.GetVisTracer())
	}

	if traceCSV, _ := cmd.Flags().GetBool("trace-csv"); traceCSV {
		name := ""
		if out := outputName(cmd); out != "" {
			name = out + "_trace"
		}

		writer := tracing.NewCSVTraceWriter(name)
		writer.Init()

		csvTracer := tracing.NewCSVTracer(engine, writer)
		tracing.CollectTrace(unitA, csvTracer)
		tracing.CollectTrace(unitB, csvTracer)
	}

	unitA.SetLinkConfig(cfg)
	unitB.SetLinkConfig(cfg)
	unitA.SetSendOrderedSets(true)
	unitB.SetSendOrderedSets(true)

	stop := &handshakeStop{a: unitA, b: unitB}
	engine.Schedule(sim.NewEventBase(
		sim.VTimeInSec(durationUS*1e-6), stop))

	err = engine.Run()
	if err != nil {
		panic(err)
	}
	engine.Finished()

	recordDetections(s, unitA, unitB)
	reportHandshake("UnitA", unitA)
	reportHandshake("UnitB", unitB)

	atexit.Exit(0)
}

// detectionRow is one detector outcome dumped into the output database at
// the end of a run. Reset, Loopback and Scrambling hold the latched
// link configuration for the training sets that carry one.
type detectionRow struct {
	Time       float64
	Unit       string
	Set        string
	Detected   bool
	Reset      bool
	Loopback   bool
	Scrambling bool
}

func recordDetections(s *simulation.Simulation, units ...*signaling.Comp) {
	recorder := s.GetDataRecorder()
	recorder.CreateTable("detection", detectionRow{})

	now := float64(s.GetEngine().CurrentTime())
	for _, unit := range units {
		rows := []detectionRow{
			{Set: "TSEQ", Detected: unit.TSEQDetected()},
			{Set: "TS1", Detected: unit.TS1Detected()},
			{Set: "TS2", Detected: unit.TS2Detected()},
		}

		for _, row := range rows {
			row.Time = now
			row.Unit = unit.Name()
			if row.Set != "TSEQ" {
				cfg := unit.RxLinkConfig(row.Set)
				row.Reset = cfg.Reset
				row.Loopback = cfg.Loopback
				row.Scrambling = cfg.Scrambling
			}

			recorder.InsertData("detection", row)
		}
	}
}

// linkConfigFromFlags builds the emitted link configuration. A link_config
// section in the scenario file replaces the flags as a whole.
func linkConfigFromFlags(cmd *cobra.Command, sc scenario) orderedset.LinkConfig {
	if sc.LinkConfig != nil {
		return orderedset.LinkConfig{
			Reset:      sc.LinkConfig.Reset,
			Loopback:   sc.LinkConfig.Loopback,
			Scrambling: sc.LinkConfig.Scrambling,
		}
	}

	reset, _ := cmd.Flags().GetBool("reset")
	loopback, _ := cmd.Flags().GetBool("loopback")
	noScrambling, _ := cmd.Flags().GetBool("no-scrambling")

	return orderedset.LinkConfig{
		Reset:      reset,
		Loopback:   loopback,
		Scrambling: !noScrambling,
	}
}

// handshakeStop deasserts ordered-set emission at the scheduled time. The
// burst in flight still completes, so emission ends at a set boundary.
type handshakeStop struct {
	a, b *signaling.Comp
}

func (h *handshakeStop) Handle(_ sim.Event) error {
	h.a.SetSendOrderedSets(false)
	h.b.SetSendOrderedSets(false)

	return nil
}

func reportHandshake(name string, unit *signaling.Comp) {
	fmt.Printf("%s: TSEQ detected=%t, TS1 detected=%t, TS2 detected=%t\n",
		name,
		unit.TSEQDetected(), unit.TS1Detected(), unit.TS2Detected())

	if unit.TS2Detected() {
		cfg := unit.RxLinkConfig("TS2")
		fmt.Printf("%s: latched reset=%t, loopback=%t, scrambling=%t\n",
			name, cfg.Reset, cfg.Loopback, cfg.Scrambling)
	}
}
