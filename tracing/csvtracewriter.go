package tracing

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// CSVTraceWriter stores tasks into a CSV file.
type CSVTraceWriter struct {
	path string
	file *os.File

	tasks      []Task
	bufferSize int
}

// NewCSVTraceWriter creates a new CSVTraceWriter. When path is empty, a
// unique name is generated.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Init creates the tracing csv file. It panics if the file already exists.
func (t *CSVTraceWriter) Init() {
	if t.path == "" {
		t.path = "pipesim_trace_" + xid.New().String()
	}

	filename := t.path + ".csv"
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	t.file = file

	fmt.Fprintf(file, "ID, ParentID, Kind, What, Where, Start, End\n")

	atexit.Register(func() {
		t.Flush()
		err := t.file.Close()
		if err != nil {
			panic(err)
		}
	})
}

// Path returns the path of the CSV file, without the .csv suffix.
func (t *CSVTraceWriter) Path() string {
	return t.path
}

// Write buffers a task to be written to the CSV file.
func (t *CSVTraceWriter) Write(task Task) {
	t.tasks = append(t.tasks, task)
	if len(t.tasks) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes the buffered tasks to the CSV file.
func (t *CSVTraceWriter) Flush() {
	for _, task := range t.tasks {
		fmt.Fprintf(t.file, "%s, %s, %s, %s, %s, %.10f, %.10f\n",
			task.ID,
			task.ParentID,
			task.Kind,
			task.What,
			task.Where,
			task.StartTime,
			task.EndTime,
		)
	}

	t.tasks = nil
}
