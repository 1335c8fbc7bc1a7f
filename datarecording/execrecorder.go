package datarecording

import (
	"os"
	"strings"
	"time"
)

type execInfo struct {
	Property string
	Value    string
}

// execRecorder stores metadata about the current run next to the recorded
// data.
type execRecorder struct {
	tableName string
	recorder  DataRecorder
}

func newExecRecorder(recorder DataRecorder) *execRecorder {
	e := &execRecorder{
		tableName: "exec_info",
		recorder:  recorder,
	}

	e.recorder.CreateTable(e.tableName, execInfo{})

	return e
}

func (e *execRecorder) start() {
	startTime := time.Now().Format("2006-01-02 15:04:05.000000000")
	e.recorder.InsertData(e.tableName, execInfo{"Start Time", startTime})

	cmd := strings.Join(os.Args, " ")
	e.recorder.InsertData(e.tableName, execInfo{"Command", cmd})

	wd, err := os.Getwd()
	if err == nil {
		e.recorder.InsertData(e.tableName, execInfo{"Working Directory", wd})
	}
}

func (e *execRecorder) end() {
	endTime := time.Now().Format("2006-01-02 15:04:05.000000000")
	e.recorder.InsertData(e.tableName, execInfo{"End Time", endTime})
}
