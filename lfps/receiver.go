package lfps

import (
	"log"

	"github.com/serdeslab/pipesim/sim"
)

// A Receiver watches line activity and recognizes the polling LFPS pattern
// from burst lengths and burst-to-burst spacing.
type Receiver struct {
	burstMin  int
	burstMax  int
	repeatMin int
	repeatMax int

	detectCount int

	tick       int
	inBurst    bool
	burstStart int
	burstLen   int
	conforming int
	detected   bool
}

// Observe feeds the receiver the line state for one system clock tick.
func (r *Receiver) Observe(idle bool) {
	active := !idle

	switch {
	case active && !r.inBurst:
		r.inBurst = true
		r.burstLen = 1
		if r.burstStart >= 0 {
			spacing := r.tick - r.burstStart
			if spacing < r.repeatMin || spacing > r.repeatMax {
				r.conforming = 0
				r.detected = false
			}
		}
		r.burstStart = r.tick
	case active:
		r.burstLen++
	case r.inBurst:
		r.inBurst = false
		if r.burstLen >= r.burstMin && r.burstLen <= r.burstMax {
			r.conforming++
			if r.conforming >= r.detectCount {
				r.detected = true
			}
		} else {
			r.conforming = 0
			r.detected = false
		}
	default:
		if r.burstStart >= 0 && r.tick-r.burstStart > r.repeatMax {
			r.conforming = 0
			r.detected = false
			r.burstStart = -1
		}
	}

	r.tick++
}

// PollingDetected returns true while the polling pattern is present on the
// line.
func (r *Receiver) PollingDetected() bool {
	return r.detected
}

// Armed reports whether the receiver saw line activity within the repeat
// window and is still expecting another burst.
func (r *Receiver) Armed() bool {
	return r.inBurst || r.burstStart >= 0
}

// ReceiverBuilder can build LFPS receivers.
type ReceiverBuilder struct {
	sysClkFreq   sim.Freq
	burstTiming  Timing
	repeatTiming Timing
	detectCount  int
}

// MakeReceiverBuilder creates a builder with polling timings as default.
func MakeReceiverBuilder() ReceiverBuilder {
	return ReceiverBuilder{
		sysClkFreq:   100 * sim.MHz,
		burstTiming:  PollingBurst,
		repeatTiming: PollingRepeat,
		detectCount:  2,
	}
}

// WithSysClkFreq sets the system clock frequency.
func (b ReceiverBuilder) WithSysClkFreq(f sim.Freq) ReceiverBuilder {
	b.sysClkFreq = f
	return b
}

// WithBurstTiming sets the acceptable burst duration.
func (b ReceiverBuilder) WithBurstTiming(t Timing) ReceiverBuilder {
	b.burstTiming = t
	return b
}

// WithRepeatTiming sets the acceptable burst-to-burst period.
func (b ReceiverBuilder) WithRepeatTiming(t Timing) ReceiverBuilder {
	b.repeatTiming = t
	return b
}

// WithDetectCount sets how many conforming bursts in a row assert detection.
func (b ReceiverBuilder) WithDetectCount(n int) ReceiverBuilder {
	b.detectCount = n
	return b
}

// Build creates the receiver.
func (b ReceiverBuilder) Build() *Receiver {
	if b.detectCount < 1 {
		log.Panic("detect count must be at least 1")
	}

	return &Receiver{
		burstMin:    int(b.sysClkFreq.Cycle(b.burstTiming.Min)),
		burstMax:    int(b.sysClkFreq.Cycle(b.burstTiming.Max)),
		repeatMin:   int(b.sysClkFreq.Cycle(b.repeatTiming.Min)),
		repeatMax:   int(b.sysClkFreq.Cycle(b.repeatTiming.Max)),
		detectCount: b.detectCount,
		burstStart:  -1,
	}
}
