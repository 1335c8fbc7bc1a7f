package lfps

import (
	"log"

	"github.com/serdeslab/pipesim/sim"
)

// A Transmitter drives the line with repeated LFPS bursts while polling is
// requested. A burst already in flight always completes, even after polling
// stops.
type Transmitter struct {
	burst *BurstTransmitter

	burstTicks  int
	repeatTicks int

	polling   bool
	repeatPos int
}

// SetPolling starts or stops the polling pattern.
func (t *Transmitter) SetPolling(enable bool) {
	t.polling = enable
}

// Tick advances the transmitter by one system clock tick.
func (t *Transmitter) Tick() {
	if t.polling {
		if t.repeatPos == 0 {
			t.burst.Start(t.burstTicks)
		}
		t.repeatPos = (t.repeatPos + 1) % t.repeatTicks
	} else {
		t.repeatPos = 0
	}

	t.burst.Tick()
}

// Level returns the electrical level driven on the line.
func (t *Transmitter) Level() bool {
	return t.burst.Level()
}

// Idle returns true when the line is not driven.
func (t *Transmitter) Idle() bool {
	return t.burst.Idle()
}

// TransmitterBuilder can build LFPS transmitters.
type TransmitterBuilder struct {
	sysClkFreq   sim.Freq
	lfpsClkFreq  sim.Freq
	burstTiming  Timing
	repeatTiming Timing
}

// MakeTransmitterBuilder creates a builder with polling timings as default.
func MakeTransmitterBuilder() TransmitterBuilder {
	return TransmitterBuilder{
		sysClkFreq:   100 * sim.MHz,
		lfpsClkFreq:  25 * sim.MHz,
		burstTiming:  PollingBurst,
		repeatTiming: PollingRepeat,
	}
}

// WithSysClkFreq sets the system clock frequency.
func (b TransmitterBuilder) WithSysClkFreq(f sim.Freq) TransmitterBuilder {
	b.sysClkFreq = f
	return b
}

// WithLFPSClkFreq sets the rate at which the line toggles during a burst.
func (b TransmitterBuilder) WithLFPSClkFreq(f sim.Freq) TransmitterBuilder {
	b.lfpsClkFreq = f
	return b
}

// WithBurstTiming sets the burst duration.
func (b TransmitterBuilder) WithBurstTiming(t Timing) TransmitterBuilder {
	b.burstTiming = t
	return b
}

// WithRepeatTiming sets the burst-to-burst period.
func (b TransmitterBuilder) WithRepeatTiming(t Timing) TransmitterBuilder {
	b.repeatTiming = t
	return b
}

// Build creates the transmitter.
func (b TransmitterBuilder) Build() *Transmitter {
	burstTicks := int(b.sysClkFreq.Cycle(b.burstTiming.Typ))
	repeatTicks := int(b.sysClkFreq.Cycle(b.repeatTiming.Typ))

	if burstTicks == 0 {
		log.Panic("burst must span at least one system clock tick")
	}

	if repeatTicks <= burstTicks {
		log.Panic("repeat period must be longer than the burst")
	}

	return &Transmitter{
		burst:       NewBurstTransmitter(b.sysClkFreq, b.lfpsClkFreq),
		burstTicks:  burstTicks,
		repeatTicks: repeatTicks,
	}
}
