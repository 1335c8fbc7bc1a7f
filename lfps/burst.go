package lfps

import (
	"log"
	"math"

	"github.com/serdeslab/pipesim/sim"
)

// A BurstTransmitter toggles the line at the LFPS clock rate for a requested
// number of system clock ticks.
type BurstTransmitter struct {
	cycleTicks int
	highTicks  int

	cyclePos  int
	remaining int
	level     bool
	idle      bool
	done      bool
}

// NewBurstTransmitter creates a burst transmitter that runs on the system
// clock sysClk and toggles the line at lfpsClk.
func NewBurstTransmitter(sysClk, lfpsClk sim.Freq) *BurstTransmitter {
	if sysClk <= 0 || lfpsClk <= 0 {
		log.Panic("clock frequencies must be positive")
	}

	cycleTicks := int(math.Round(float64(sysClk) / float64(lfpsClk)))
	if cycleTicks < 2 {
		log.Panic("system clock must run at least twice as fast as the LFPS clock")
	}

	return &BurstTransmitter{
		cycleTicks: cycleTicks,
		highTicks:  cycleTicks / 2,
		idle:       true,
	}
}

// Start begins a burst that spans n system clock ticks. Starting while a
// burst is in flight restarts the toggle pattern.
func (t *BurstTransmitter) Start(n int) {
	if n < 0 {
		log.Panic("burst length cannot be negative")
	}

	t.remaining = n
	t.cyclePos = 0
}

// Tick advances the transmitter by one system clock tick.
func (t *BurstTransmitter) Tick() {
	t.done = false

	if t.remaining == 0 {
		t.idle = true
		t.level = false
		return
	}

	t.idle = false
	t.level = t.cyclePos < t.highTicks
	t.cyclePos = (t.cyclePos + 1) % t.cycleTicks
	t.remaining--
	t.done = t.remaining == 0
}

// Level returns the electrical level driven on the line.
func (t *BurstTransmitter) Level() bool {
	return t.level
}

// Idle returns true when the line is not driven.
func (t *BurstTransmitter) Idle() bool {
	return t.idle
}

// Done is true for the single tick on which a burst completes.
func (t *BurstTransmitter) Done() bool {
	return t.done
}
