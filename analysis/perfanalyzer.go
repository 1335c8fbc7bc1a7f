// Package analysis provides tools to monitor signaling performance over time.
package analysis

import (
	"github.com/serdeslab/pipesim/sim"
)

// PerfAnalyzerEntry is a single performance metric, measured over a time
// period, at a location in the simulated link.
type PerfAnalyzerEntry struct {
	Start sim.VTimeInSec
	End   sim.VTimeInSec
	Where string
	What  string
	Value float64
	Unit  string
}

// PerfLogger is the interface that provides the service that can record
// performance data entries.
type PerfLogger interface {
	AddDataEntry(entry PerfAnalyzerEntry)
}

// PerfAnalyzer can be used to analyze the performance of a simulation. It
// periodically writes metric entries to a backend.
type PerfAnalyzer struct {
	usePeriod bool
	period    sim.VTimeInSec
	engine    sim.Engine
	backend   PerfAnalyzerBackend
}

// RegisterEngine registers the engine that provides the simulation time.
func (p *PerfAnalyzer) RegisterEngine(e sim.Engine) {
	p.engine = e
}

// RegisterLine attaches a LineAnalyzer to the given domain so that the line
// activity is periodically summarized into the analyzer's backend.
func (p *PerfAnalyzer) RegisterLine(domain LineDomain) {
	builder := MakeLineAnalyzerBuilder().
		WithTimeTeller(p.engine).
		WithPerfLogger(p).
		WithLineName(domain.Name())

	if p.usePeriod {
		builder = builder.WithPeriod(p.period)
	}

	lineAnalyzer := builder.Build()

	domain.AcceptHook(lineAnalyzer)
}

// AddDataEntry adds a data entry to the backend.
func (p *PerfAnalyzer) AddDataEntry(entry PerfAnalyzerEntry) {
	p.backend.AddDataEntry(entry)
}

// PerfAnalyzerBuilder is a builder that can build a PerfAnalyzer.
type PerfAnalyzerBuilder struct {
	usePeriod    bool
	period       sim.VTimeInSec
	dbFilename   string
	useSQLite    bool
	engine       sim.Engine
	backendToUse PerfAnalyzerBackend
}

// MakePerfAnalyzerBuilder creates a PerfAnalyzerBuilder.
func MakePerfAnalyzerBuilder() PerfAnalyzerBuilder {
	return PerfAnalyzerBuilder{
		dbFilename: "perf",
	}
}

// WithPeriod sets the period of the PerfAnalyzer so that metrics are
// aggregated once per period.
func (b PerfAnalyzerBuilder) WithPeriod(
	period sim.VTimeInSec,
) PerfAnalyzerBuilder {
	b.usePeriod = true
	b.period = period
	return b
}

// WithSQLiteBackend sets the backend of the PerfAnalyzer to a SQLite
// database. The default backend writes a CSV file.
func (b PerfAnalyzerBuilder) WithSQLiteBackend() PerfAnalyzerBuilder {
	b.useSQLite = true
	return b
}

// WithDBFilename sets the filename of the output file, without the
// extension.
func (b PerfAnalyzerBuilder) WithDBFilename(filename string) PerfAnalyzerBuilder {
	b.dbFilename = filename
	return b
}

// WithEngine sets the engine that provides the simulation time.
func (b PerfAnalyzerBuilder) WithEngine(engine sim.Engine) PerfAnalyzerBuilder {
	b.engine = engine
	return b
}

// WithBackend sets the backend that stores the data entries.
func (b PerfAnalyzerBuilder) WithBackend(
	backend PerfAnalyzerBackend,
) PerfAnalyzerBuilder {
	b.backendToUse = backend
	return b
}

// Build creates a PerfAnalyzer.
func (b PerfAnalyzerBuilder) Build() *PerfAnalyzer {
	backend := b.backendToUse
	if backend == nil {
		if b.useSQLite {
			backend = NewSQLitePerfAnalyzerBackend(b.dbFilename)
		} else {
			backend = NewCSVPerfAnalyzerBackend(b.dbFilename)
		}
	}

	return &PerfAnalyzer{
		usePeriod: b.usePeriod,
		period:    b.period,
		engine:    b.engine,
		backend:   backend,
	}
}
