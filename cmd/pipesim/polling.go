package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/serdeslab/pipesim/analysis"
	"github.com/serdeslab/pipesim/datarecording"
	"github.com/serdeslab/pipesim/lfps"
	"github.com/serdeslab/pipesim/signaling"
	"github.com/serdeslab/pipesim/sim"
)

var pollingCmd = &cobra.Command{
	Use:   "polling",
	Short: "Run LFPS polling between two signaling units.",
	Long: "`polling` connects the side-band lines of two signaling units " +
		"back to back, lets both poll until the duration elapses, and " +
		"reports whether each unit recognized the polling pattern of its " +
		"peer. Line activity metrics are written to a perf file.",
	Run: runPolling,
}

func init() {
	rootCmd.AddCommand(pollingCmd)

	addRunFlags(pollingCmd)
	pollingCmd.Flags().Float64("lfps-freq", 25,
		"line toggle rate during a burst, in MHz")
	pollingCmd.Flags().Float64("perf-period", 10,
		"line metric aggregation period, in microseconds")
	pollingCmd.Flags().Bool("perf-sqlite", false,
		"write line metrics to an SQLite database instead of a CSV file")
	pollingCmd.Flags().Bool("waveform", false,
		"record the per-tick line waveform in the output database")
}

func runPolling(cmd *cobra.Command, _ []string) {
	sc, err := loadScenario(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		atexit.Exit(1)
	}

	freqMHz, _ := cmd.Flags().GetFloat64("freq")
	if sc.FreqMHz > 0 {
		freqMHz = sc.FreqMHz
	}

	lfpsFreqMHz, _ := cmd.Flags().GetFloat64("lfps-freq")
	if sc.LFPSFreqMHz > 0 {
		lfpsFreqMHz = sc.LFPSFreqMHz
	}

	durationUS, _ := cmd.Flags().GetFloat64("duration")
	if sc.DurationUS > 0 {
		durationUS = sc.DurationUS
	}

	s := buildSimulation(cmd)
	engine := s.GetEngine()
	attachEventLogger(cmd, engine)

	unitBuilder := signaling.MakeBuilder().
		WithEngine(engine).
		WithFreq(sim.Freq(freqMHz) * sim.MHz).
		WithLFPSFreq(sim.Freq(lfpsFreqMHz) * sim.MHz)
	unitA := unitBuilder.Build("UnitA")
	unitB := unitBuilder.Build("UnitB")
	s.RegisterComponent(unitA)
	s.RegisterComponent(unitB)

	unitA.ConnectLine(unitB.Line())
	unitB.ConnectLine(unitA.Line())

	registerLineAnalyzers(cmd, engine, unitA, unitB)

	if waveform, _ := cmd.Flags().GetBool("waveform"); waveform {
		recordWaveform(s.GetDataRecorder(), engine, unitA, unitB)
	}

	unitA.SetPolling(true)
	unitB.SetPolling(true)

	result := &pollingResult{a: unitA, b: unitB}
	engine.Schedule(sim.NewEventBase(
		sim.VTimeInSec(durationUS*1e-6), result))

	err = engine.Run()
	if err != nil {
		panic(err)
	}
	engine.Finished()

	fmt.Printf("UnitA polling detected: %t\n", result.aDetected)
	fmt.Printf("UnitB polling detected: %t\n", result.bDetected)

	atexit.Exit(0)
}

// registerLineAnalyzers attaches a line analyzer to each unit. The perf
// output lands next to the data recorder output when a name is set.
func registerLineAnalyzers(
	cmd *cobra.Command,
	engine sim.Engine,
	units ...*signaling.Comp,
) {
	periodUS, _ := cmd.Flags().GetFloat64("perf-period")

	builder := analysis.MakePerfAnalyzerBuilder().
		WithEngine(engine).
		WithPeriod(sim.VTimeInSec(periodUS * 1e-6))

	if name := outputName(cmd); name != "" {
		builder = builder.WithDBFilename(name + "_perf")
	}

	if useSQLite, _ := cmd.Flags().GetBool("perf-sqlite"); useSQLite {
		builder = builder.WithSQLiteBackend()
	}

	perfAnalyzer := builder.Build()
	for _, u := range units {
		perfAnalyzer.RegisterLine(u)
	}
}

// pollingResult stops polling at the scheduled time and captures what each
// unit saw. Detection must be read before the line quiets down, as the
// receiver drops it once bursts stay away longer than the repeat window.
type pollingResult struct {
	a, b *signaling.Comp

	aDetected, bDetected bool
}

func (r *pollingResult) Handle(_ sim.Event) error {
	r.aDetected = r.a.PollingDetected()
	r.bDetected = r.b.PollingDetected()

	r.a.SetPolling(false)
	r.b.SetPolling(false)

	return nil
}

// waveformRow is one recorded line sample.
type waveformRow struct {
	Time  float64
	Line  string
	Level bool
	Idle  bool
}

// waveformRecorder writes every line sample of the units it hooks into the
// waveform table of the data recorder.
type waveformRecorder struct {
	recorder   datarecording.DataRecorder
	timeTeller sim.TimeTeller
}

func (w *waveformRecorder) Func(ctx sim.HookCtx) {
	if ctx.Pos != lfps.HookPosLineSample {
		return
	}

	sample := ctx.Item.(lfps.LineSample)
	w.recorder.InsertData("waveform", waveformRow{
		Time:  float64(w.timeTeller.CurrentTime()),
		Line:  ctx.Domain.(sim.Named).Name(),
		Level: sample.Level,
		Idle:  sample.Idle,
	})
}

func recordWaveform(
	recorder datarecording.DataRecorder,
	engine sim.Engine,
	units ...*signaling.Comp,
) {
	recorder.CreateTable("waveform", waveformRow{})

	w := &waveformRecorder{recorder: recorder, timeTeller: engine}
	for _, u := range units {
		u.AcceptHook(w)
	}
}
