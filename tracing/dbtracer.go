package tracing

import (
	"sync"

	"github.com/tebeka/atexit"

	"github.com/serdeslab/pipesim/datarecording"
	"github.com/serdeslab/pipesim/sim"
)

type taskTableEntry struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Where     string
	StartTime float64
	EndTime   float64
}

// DBTracer stores tasks into a database through a DataRecorder.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder

	startTime, endTime sim.VTimeInSec

	tracingTasks map[string]Task
	terminated   bool
}

// NewDBTracer creates a new DBTracer.
func NewDBTracer(
	timeTeller sim.TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable("trace", taskTableEntry{})

	t := &DBTracer{
		timeTeller:   timeTeller,
		backend:      dataRecorder,
		tracingTasks: make(map[string]Task),
	}

	atexit.Register(func() { t.Terminate() })

	return t
}

// SetTimeRange sets the time range of the tracer. Tasks that fall completely
// outside the range are not recorded.
func (t *DBTracer) SetTimeRange(startTime, endTime sim.VTimeInSec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = startTime
	t.endTime = endTime
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startingTaskMustBeValid(task)

	task.StartTime = t.timeTeller.CurrentTime()
	if t.endTime > 0 && task.StartTime > t.endTime {
		return
	}

	t.tracingTasks[task.ID] = task
}

func (t *DBTracer) startingTaskMustBeValid(task Task) {
	if task.ID == "" {
		panic("task ID must be set")
	}

	if task.Kind == "" {
		panic("task kind must be set")
	}

	if task.What == "" {
		panic("task what must be set")
	}

	if task.Where == "" {
		panic("task where must be set")
	}
}

// StepTask does nothing for now.
func (t *DBTracer) StepTask(_ Task) {
	// Do nothing
}

// EndTask marks the end of a task.
func (t *DBTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task.EndTime = t.timeTeller.CurrentTime()

	if t.startTime > 0 && task.EndTime < t.startTime {
		delete(t.tracingTasks, task.ID)
		return
	}

	originalTask, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	originalTask.EndTime = task.EndTime
	delete(t.tracingTasks, task.ID)

	t.backend.InsertData("trace", taskTableEntry{
		ID:        originalTask.ID,
		ParentID:  originalTask.ParentID,
		Kind:      originalTask.Kind,
		What:      originalTask.What,
		Where:     originalTask.Where,
		StartTime: float64(originalTask.StartTime),
		EndTime:   float64(originalTask.EndTime),
	})
}

// Terminate drops the tasks that have not ended and flushes the backend.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.terminated {
		return
	}

	t.tracingTasks = nil
	t.backend.Flush()
	t.terminated = true
}
