package tracing

import (
	"sync"

	"github.com/serdeslab/pipesim/sim"
)

// AverageTimeTracer can collect the average time of executing a certain type
// of task.
type AverageTimeTracer struct {
	timeTeller    sim.TimeTeller
	filter        TaskFilter
	lock          sync.Mutex
	averageTime   sim.VTimeInSec
	inflightTasks map[string]Task
	taskCount     uint64
}

// NewAverageTimeTracer creates a new AverageTimeTracer.
func NewAverageTimeTracer(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *AverageTimeTracer {
	t := &AverageTimeTracer{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightTasks: make(map[string]Task),
	}

	return t
}

// AverageTime returns the average time that has been spent on one traced
// task.
func (t *AverageTimeTracer) AverageTime() sim.VTimeInSec {
	t.lock.Lock()
	time := t.averageTime
	t.lock.Unlock()

	return time
}

// TotalCount returns the total number of completed tasks.
func (t *AverageTimeTracer) TotalCount() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.taskCount
}

// StartTask records the task start time.
func (t *AverageTimeTracer) StartTask(task Task) {
	task.StartTime = t.timeTeller.CurrentTime()

	if t.filter != nil && !t.filter(task) {
		return
	}

	t.lock.Lock()
	t.inflightTasks[task.ID] = task
	t.lock.Unlock()
}

// StepTask does nothing.
func (t *AverageTimeTracer) StepTask(_ Task) {
	// Do nothing
}

// EndTask records the end of the task.
func (t *AverageTimeTracer) EndTask(task Task) {
	task.EndTime = t.timeTeller.CurrentTime()

	t.lock.Lock()
	originalTask, ok := t.inflightTasks[task.ID]
	if !ok {
		t.lock.Unlock()
		return
	}

	taskTime := task.EndTime - originalTask.StartTime
	t.averageTime = sim.VTimeInSec(
		(float64(t.averageTime)*float64(t.taskCount) + float64(taskTime)) /
			float64(t.taskCount+1))
	delete(t.inflightTasks, task.ID)
	t.taskCount++
	t.lock.Unlock()
}
