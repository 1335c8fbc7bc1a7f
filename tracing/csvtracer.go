package tracing

import (
	"sync"

	"github.com/serdeslab/pipesim/sim"
)

// CSVTracer is a tracer that writes completed tasks into a CSV file.
type CSVTracer struct {
	timeTeller sim.TimeTeller
	writer     *CSVTraceWriter

	lock          sync.Mutex
	inflightTasks map[string]Task
}

// NewCSVTracer creates a CSVTracer that writes through the given writer. The
// writer must already be initialized.
func NewCSVTracer(
	timeTeller sim.TimeTeller,
	writer *CSVTraceWriter,
) *CSVTracer {
	return &CSVTracer{
		timeTeller:    timeTeller,
		writer:        writer,
		inflightTasks: make(map[string]Task),
	}
}

// StartTask records the task start time.
func (t *CSVTracer) StartTask(task Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	t.lock.Lock()
	t.inflightTasks[task.ID] = task
	t.lock.Unlock()
}

// StepTask does nothing.
func (t *CSVTracer) StepTask(_ Task) {
	// Do nothing
}

// EndTask writes the completed task to the CSV file.
func (t *CSVTracer) EndTask(task Task) {
	t.lock.Lock()

	originalTask, ok := t.inflightTasks[task.ID]
	if !ok {
		t.lock.Unlock()
		return
	}

	originalTask.EndTime = t.timeTeller.CurrentTime()
	delete(t.inflightTasks, task.ID)

	t.lock.Unlock()

	t.writer.Write(originalTask)
}
