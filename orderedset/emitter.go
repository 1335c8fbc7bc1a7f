package orderedset

import (
	"github.com/serdeslab/pipesim/pipe"
)

// An Emitter drives an ordered set, repeated n times per burst, into a
// symbol stream. Once a burst starts it always completes the whole number
// of repetitions; deasserting send takes effect at the next burst
// boundary.
type Emitter struct {
	set Set
	n   int

	adr   int
	count satCounter
	send  bool
	run   bool
	cfg   LinkConfig
}

// NewEmitter creates an emitter that sends n repetitions of the given set
// per burst. The emitter starts done, with nothing to send.
func NewEmitter(set Set, n int) *Emitter {
	if n < 1 {
		panic("repeat count must be at least 1")
	}

	e := &Emitter{
		set:   set,
		n:     n,
		count: satCounter{max: set.Depth()*n - 1},
	}
	e.count.saturate()

	return e
}

// SetSend requests burst emission. While send is asserted, bursts restart
// back to back.
func (e *Emitter) SetSend(send bool) {
	e.send = send
}

// SetLinkConfig sets the live configuration substituted into word 1.
func (e *Emitter) SetLinkConfig(cfg LinkConfig) {
	if !e.set.HasLinkConfig() {
		panic("ordered set " + e.set.Name() + " carries no link configuration")
	}

	e.cfg = cfg
}

// Output returns the symbol currently driven and whether it is valid.
func (e *Emitter) Output() (pipe.Symbol, bool) {
	valid := e.send || !e.count.atMax()

	data := e.set.Word(e.adr)
	if e.adr == 1 && e.set.HasLinkConfig() {
		data = data&0xFFFF00FF | uint32(e.cfg.asByte())<<8
	}

	sym := pipe.Symbol{
		Data: data,
		Ctrl: e.set.CtrlAt(e.adr),
	}

	return sym, valid
}

// Tick advances the emitter by one tick. accepted reports whether the
// consumer took the current symbol; the cursor advances only on accepted
// valid symbols and otherwise returns to word 0.
func (e *Emitter) Tick(accepted bool) {
	valid := e.send || !e.count.atMax()
	done := e.count.atMax()

	if valid && accepted {
		e.adr = (e.adr + 1) % e.set.Depth()
	} else {
		e.adr = 0
	}

	switch {
	case e.send && done:
		e.run = true
		e.count.restart()
	case done:
		e.run = false
	default:
		e.count.increment()
	}
}

// Done reports whether the emitter is at a burst boundary. It is the
// caller's synchronization point to safely stop or restart.
func (e *Emitter) Done() bool {
	return e.count.atMax()
}

// Running reports whether a burst is in flight.
func (e *Emitter) Running() bool {
	return e.run
}

// Set returns the ordered set this emitter sends.
func (e *Emitter) Set() Set {
	return e.set
}
