package signaling

import (
	"github.com/serdeslab/pipesim/lfps"
	"github.com/serdeslab/pipesim/orderedset"
	"github.com/serdeslab/pipesim/sim"
)

// Builder can build signaling units.
type Builder struct {
	engine      sim.Engine
	freq        sim.Freq
	lfpsFreq    sim.Freq
	emitSet     orderedset.Set
	repeatCount int
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:        100 * sim.MHz,
		lfpsFreq:    25 * sim.MHz,
		emitSet:     orderedset.TS2,
		repeatCount: 8,
	}
}

// WithEngine sets the engine that drives the unit.
func (b Builder) WithEngine(e sim.Engine) Builder {
	b.engine = e
	return b
}

// WithFreq sets the system clock frequency of the unit.
func (b Builder) WithFreq(f sim.Freq) Builder {
	b.freq = f
	return b
}

// WithLFPSFreq sets the rate at which the line toggles during an LFPS
// burst.
func (b Builder) WithLFPSFreq(f sim.Freq) Builder {
	b.lfpsFreq = f
	return b
}

// WithEmitSet sets the ordered set that the unit emits.
func (b Builder) WithEmitSet(set orderedset.Set) Builder {
	b.emitSet = set
	return b
}

// WithRepeatCount sets the repetitions required for detection and emitted
// per burst.
func (b Builder) WithRepeatCount(n int) Builder {
	b.repeatCount = n
	return b
}

// Build creates a signaling unit.
func (b Builder) Build(name string) *Comp {
	c := &Comp{}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.detectors = []*orderedset.Detector{
		orderedset.NewDetector(orderedset.TSEQ, b.repeatCount),
		orderedset.NewDetector(orderedset.TS1, b.repeatCount),
		orderedset.NewDetector(orderedset.TS2, b.repeatCount),
	}
	c.detectTaskIDs = make([]string, len(c.detectors))

	c.emitter = orderedset.NewEmitter(b.emitSet, b.repeatCount)

	c.lfpsTx = lfps.MakeTransmitterBuilder().
		WithSysClkFreq(b.freq).
		WithLFPSClkFreq(b.lfpsFreq).
		Build()
	c.lfpsRx = lfps.MakeReceiverBuilder().
		WithSysClkFreq(b.freq).
		Build()

	c.RxPort = sim.NewPort(c, 4, 4, name+".RxPort")
	c.TxPort = sim.NewPort(c, 4, 4, name+".TxPort")
	c.AddPort("Rx", c.RxPort)
	c.AddPort("Tx", c.TxPort)

	return c
}
