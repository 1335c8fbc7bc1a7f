package lfps

import "github.com/serdeslab/pipesim/sim"

// Timing bounds the duration of an LFPS feature.
type Timing struct {
	Min sim.VTimeInSec
	Typ sim.VTimeInSec
	Max sim.VTimeInSec
}

// Polling LFPS timings, USB 3.0 specification Table 6-30.
var (
	PollingBurst  = Timing{Min: 0.6e-6, Typ: 1.0e-6, Max: 1.4e-6}
	PollingRepeat = Timing{Min: 6e-6, Typ: 10e-6, Max: 14e-6}
)
