package analysis

import (
	"math"

	"github.com/serdeslab/pipesim/lfps"
	"github.com/serdeslab/pipesim/sim"
	"github.com/tebeka/atexit"
)

// LineDomain is a named, hookable entity that publishes low-frequency line
// samples, such as a signaling unit.
type LineDomain interface {
	sim.Named
	sim.Hookable
}

// LineAnalyzer is a hook that measures the low-frequency signaling activity
// on a line. It consumes the per-tick line samples that a signaling unit
// publishes and periodically summarizes them into burst statistics.
type LineAnalyzer struct {
	PerfLogger
	sim.TimeTeller

	usePeriod bool
	period    sim.VTimeInSec
	lineName  string

	lastTime sim.VTimeInSec

	tick           int64
	prevLevel      bool
	prevIdle       bool
	lastBurstStart int64

	totalTicks  int64
	activeTicks int64
	highTicks   int64
	transitions int64
	bursts      int64
	spacingSum  int64
	spacings    int64
}

// Func accumulates one line sample into the current period.
func (h *LineAnalyzer) Func(ctx sim.HookCtx) {
	if ctx.Pos != lfps.HookPosLineSample {
		return
	}

	sample, ok := ctx.Item.(lfps.LineSample)
	if !ok {
		return
	}

	now := h.CurrentTime()

	if h.usePeriod {
		lastPeriodEndTime := h.periodEndTime(h.lastTime)
		if now > lastPeriodEndTime {
			h.summarize()
		}
	}

	h.accumulate(sample)

	h.lastTime = now
}

func (h *LineAnalyzer) accumulate(sample lfps.LineSample) {
	h.totalTicks++

	if !sample.Idle {
		h.activeTicks++

		if sample.Level {
			h.highTicks++
		}

		if h.prevIdle {
			h.bursts++

			if h.lastBurstStart >= 0 {
				h.spacingSum += h.tick - h.lastBurstStart
				h.spacings++
			}

			h.lastBurstStart = h.tick
		} else if sample.Level != h.prevLevel {
			h.transitions++
		}
	}

	h.prevIdle = sample.Idle
	h.prevLevel = sample.Level
	h.tick++
}

func (h *LineAnalyzer) summarize() {
	if h.totalTicks == 0 {
		return
	}

	now := h.CurrentTime()

	startTime := sim.VTimeInSec(0)
	endTime := now

	if h.usePeriod {
		startTime = h.periodStartTime(h.lastTime)
		endTime = h.periodEndTime(h.lastTime)

		if endTime > now {
			endTime = now
		}
	}

	entry := PerfAnalyzerEntry{
		Start: startTime,
		End:   endTime,
		Where: h.lineName,
	}

	entry.What = "Activity"
	entry.Value = float64(h.activeTicks) / float64(h.totalTicks)
	entry.Unit = "ratio"
	h.PerfLogger.AddDataEntry(entry)

	if h.activeTicks > 0 {
		entry.What = "DutyCycle"
		entry.Value = float64(h.highTicks) / float64(h.activeTicks)
		entry.Unit = "ratio"
		h.PerfLogger.AddDataEntry(entry)
	}

	if h.transitions > 0 {
		entry.What = "BurstClockCycle"
		entry.Value = 2 * float64(h.activeTicks) / float64(h.transitions)
		entry.Unit = "tick"
		h.PerfLogger.AddDataEntry(entry)
	}

	if h.bursts > 0 {
		entry.What = "BurstLength"
		entry.Value = float64(h.activeTicks) / float64(h.bursts)
		entry.Unit = "tick"
		h.PerfLogger.AddDataEntry(entry)
	}

	if h.spacings > 0 {
		entry.What = "RepeatPeriod"
		entry.Value = float64(h.spacingSum) / float64(h.spacings)
		entry.Unit = "tick"
		h.PerfLogger.AddDataEntry(entry)
	}

	h.resetPeriod()
}

// resetPeriod clears the period tallies. The tick counter and the burst
// tracking state carry over so that spacing can span period boundaries.
func (h *LineAnalyzer) resetPeriod() {
	h.totalTicks = 0
	h.activeTicks = 0
	h.highTicks = 0
	h.transitions = 0
	h.bursts = 0
	h.spacingSum = 0
	h.spacings = 0
}

func (h *LineAnalyzer) periodStartTime(t sim.VTimeInSec) sim.VTimeInSec {
	return sim.VTimeInSec(math.Floor(float64(t/h.period))) * h.period
}

func (h *LineAnalyzer) periodEndTime(t sim.VTimeInSec) sim.VTimeInSec {
	return h.periodStartTime(t) + h.period
}

// LineAnalyzerBuilder can build a LineAnalyzer.
type LineAnalyzerBuilder struct {
	perfLogger PerfLogger
	timeTeller sim.TimeTeller
	usePeriod  bool
	period     sim.VTimeInSec
	lineName   string
}

// MakeLineAnalyzerBuilder creates a LineAnalyzerBuilder.
func MakeLineAnalyzerBuilder() LineAnalyzerBuilder {
	return LineAnalyzerBuilder{}
}

// WithPerfLogger sets the logger to be used by the LineAnalyzer.
func (b LineAnalyzerBuilder) WithPerfLogger(l PerfLogger) LineAnalyzerBuilder {
	b.perfLogger = l
	return b
}

// WithTimeTeller sets the TimeTeller to be used by the LineAnalyzer.
func (b LineAnalyzerBuilder) WithTimeTeller(
	t sim.TimeTeller,
) LineAnalyzerBuilder {
	b.timeTeller = t
	return b
}

// WithPeriod sets the period to be used by the LineAnalyzer.
func (b LineAnalyzerBuilder) WithPeriod(
	p sim.VTimeInSec,
) LineAnalyzerBuilder {
	b.usePeriod = true
	b.period = p

	return b
}

// WithLineName sets the name that identifies the line in the output.
func (b LineAnalyzerBuilder) WithLineName(name string) LineAnalyzerBuilder {
	b.lineName = name
	return b
}

// Build creates a LineAnalyzer.
func (b LineAnalyzerBuilder) Build() *LineAnalyzer {
	if b.perfLogger == nil {
		panic("LineAnalyzer requires a PerfLogger")
	}

	if b.timeTeller == nil {
		panic("LineAnalyzer requires a TimeTeller")
	}

	if b.lineName == "" {
		panic("LineAnalyzer requires a line name")
	}

	a := &LineAnalyzer{
		PerfLogger:     b.perfLogger,
		TimeTeller:     b.timeTeller,
		usePeriod:      b.usePeriod,
		period:         b.period,
		lineName:       b.lineName,
		lastBurstStart: -1,
		prevIdle:       true,
	}

	atexit.Register(func() { a.summarize() })

	return a
}
