// Package lfps generates and detects low-frequency periodic signaling on a
// link that is otherwise electrically idle.
package lfps

import "github.com/serdeslab/pipesim/sim"

// A Line exposes the state of one direction of a link at the current tick.
type Line interface {
	// Level returns the electrical level driven on the line.
	Level() bool

	// Idle returns true when the line is not driven.
	Idle() bool
}

// LineSample records the state of a line at one tick.
type LineSample struct {
	Level bool
	Idle  bool
}

// HookPosLineSample is the hook position where components report line
// samples.
var HookPosLineSample = &sim.HookPos{Name: "Line Sample"}
