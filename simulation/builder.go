package simulation

import (
	"github.com/rs/xid"
	"github.com/serdeslab/pipesim/datarecording"
	"github.com/serdeslab/pipesim/monitoring"
	"github.com/serdeslab/pipesim/sim"
	"github.com/serdeslab/pipesim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn      bool
	monitorPort    int
	launchBrowser  bool
	outputFileName string
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		monitorOn: true,
	}
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowserLaunch makes the monitor open the dashboard in the default
// browser when the simulation starts.
func (b Builder) WithBrowserLaunch() Builder {
	b.launchBrowser = true
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.monitorOn && b.launchBrowser {
		panic("browser launch requires monitoring to be enabled")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		compNameIndex: make(map[string]int),
		portNameIndex: make(map[string]int),
	}

	s.id = xid.New().String()

	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "pipesim_sim_" + s.id
	}
	s.dataRecorder = datarecording.NewDataRecorder(outputPath)

	s.engine = sim.NewSerialEngine()

	s.visTracer = tracing.NewDBTracer(s.engine, s.dataRecorder)

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		if b.launchBrowser {
			s.monitor.WithBrowserLaunch()
		}
		s.monitor.RegisterEngine(s.engine)
		s.monitor.RegisterVisTracer(s.visTracer)
		s.monitor.StartServer()
	}

	return s
}
