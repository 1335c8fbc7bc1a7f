package orderedset

import (
	"github.com/serdeslab/pipesim/pipe"
)

// A Detector matches a symbol stream word-by-word against one ordered set
// and asserts Detected once the set has repeated enough times without
// interruption.
type Detector struct {
	set Set
	n   int

	adr   int
	count satCounter
	cfg   LinkConfig
}

// NewDetector creates a detector that asserts Detected after n
// uninterrupted repetitions of the given set.
func NewDetector(set Set, n int) *Detector {
	if n < 1 {
		panic("repeat count must be at least 1")
	}

	return &Detector{
		set:   set,
		n:     n,
		count: satCounter{max: set.Depth()*n - 1},
	}
}

// Input consumes one received symbol. The link configuration is latched
// before the cursor advances, so a read always reflects the word that
// carried it.
func (d *Detector) Input(sym pipe.Symbol) {
	word := d.set.Word(d.adr)
	mask := d.set.Mask(d.adr)

	err := false

	if d.adr == 0 && sym.Ctrl != d.set.FirstCtrl() {
		err = true
	}

	if d.adr != 0 && sym.Ctrl != 0 {
		err = true
	}

	if sym.Data&mask != word&mask {
		err = true
	}

	if !err && d.adr == 1 && d.set.HasLinkConfig() {
		d.cfg = linkConfigFromWord(sym.Data)
	}

	if err {
		d.adr = 0
		d.count.restart()

		return
	}

	d.adr = (d.adr + 1) % d.set.Depth()
	d.count.increment()
}

// Detected reports whether the required repetitions have been seen. It
// stays asserted until a mismatch restarts the match.
func (d *Detector) Detected() bool {
	return d.count.atMax()
}

// Progress returns the number of consecutive matching symbols seen so far.
func (d *Detector) Progress() int {
	return d.count.value
}

// LinkConfig returns the most recently latched link configuration.
func (d *Detector) LinkConfig() LinkConfig {
	return d.cfg
}

// Set returns the ordered set this detector matches.
func (d *Detector) Set() Set {
	return d.set
}
