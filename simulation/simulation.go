// Package simulation provides the service that assembles the engine, the
// data recorder, the monitor, and the components of one simulation run.
package simulation

import (
	"github.com/serdeslab/pipesim/datarecording"
	"github.com/serdeslab/pipesim/monitoring"
	"github.com/serdeslab/pipesim/sim"
	"github.com/serdeslab/pipesim/tracing"
)

// A Simulation provides the service requires to define a simulation.
type Simulation struct {
	id     string
	engine sim.Engine

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	visTracer    *tracing.DBTracer

	components    []sim.Component
	compNameIndex map[string]int
	ports         []sim.Port
	portNameIndex map[string]int
}

// ID returns the ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDataRecorder returns the data recorder used in the simulation.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetVisTracer returns the tracer used in the simulation.
func (s *Simulation) GetVisTracer() *tracing.DBTracer {
	return s.visTracer
}

// RegisterComponent registers a component with the simulation.
func (s *Simulation) RegisterComponent(c sim.Component) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1

	for _, p := range c.Ports() {
		s.registerPort(p)
	}

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}
}

// registerPort registers a port with the simulation.
func (s *Simulation) registerPort(p sim.Port) {
	portName := p.Name()
	if _, found := s.portNameIndex[portName]; found {
		panic("port " + portName + " already registered")
	}

	s.ports = append(s.ports, p)
	s.portNameIndex[portName] = len(s.ports) - 1
}

// Components returns all the registered components.
func (s *Simulation) Components() []sim.Component {
	return s.components
}

// GetComponentByName returns the component with the given name.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	return s.components[s.compNameIndex[name]]
}

// GetPortByName returns the port with the given name.
func (s *Simulation) GetPortByName(name string) sim.Port {
	return s.ports[s.portNameIndex[name]]
}

// Terminate terminates the simulation.
func (s *Simulation) Terminate() {
	s.dataRecorder.Close()
}
