// Package datarecording stores simulation measurements in SQLite databases.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data.
type DataRecorder interface {
	// CreateTable creates a new table that stores entries shaped like
	// sampleEntry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData writes one entry into a table that already exists.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all the tables created so far.
	ListTables() []string

	// Flush writes all the buffered entries into the database.
	Flush()

	// Close flushes the buffered entries and closes the database.
	Close()
}

// NewDataRecorder creates a DataRecorder that writes into an SQLite database
// at path. When path is empty, a unique name is generated.
func NewDataRecorder(path string) DataRecorder {
	w := &sqliteWriter{
		dbName:    path,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	w.init()

	exec := newExecRecorder(w)
	exec.start()
	w.exec = exec

	atexit.Register(func() { w.Close() })

	return w
}

type table struct {
	entries []any
}

// sqliteWriter writes data into an SQLite database.
type sqliteWriter struct {
	*sql.DB
	statement *sql.Stmt

	dbName     string
	tables     map[string]*table
	batchSize  int
	entryCount int

	exec   *execRecorder
	closed bool
}

func (t *sqliteWriter) init() {
	if t.dbName == "" {
		t.dbName = "pipesim_data_recording_" + xid.New().String()
	}

	filename := t.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	t.DB = db
}

func (t *sqliteWriter) isAllowedType(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func (t *sqliteWriter) checkStructFields(entry any) error {
	types := reflect.TypeOf(entry)

	for i := 0; i < types.NumField(); i++ {
		field := types.Field(i)

		if !t.isAllowedType(field.Type.Kind()) {
			return fmt.Errorf("field %s cannot be stored", field.Name)
		}
	}

	return nil
}

func structFieldNames(entry any) []string {
	types := reflect.TypeOf(entry)
	names := make([]string, 0, types.NumField())

	for i := 0; i < types.NumField(); i++ {
		names = append(names, types.Field(i).Name)
	}

	return names
}

func (t *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	err := t.checkStructFields(sampleEntry)
	if err != nil {
		panic(err)
	}

	fields := strings.Join(structFieldNames(sampleEntry), ", \n\t")

	createTableSQL := `CREATE TABLE ` + tableName +
		` (` + "\n\t" + fields + "\n" + `);`
	t.mustExecute(createTableSQL)

	t.tables[tableName] = &table{}
}

func (t *sqliteWriter) InsertData(tableName string, entry any) {
	table, exists := t.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	table.entries = append(table.entries, entry)

	t.entryCount++
	if t.entryCount >= t.batchSize {
		t.Flush()
	}
}

func (t *sqliteWriter) ListTables() []string {
	tables := make([]string, 0, len(t.tables))
	for table := range t.tables {
		tables = append(tables, table)
	}

	return tables
}

func (t *sqliteWriter) Flush() {
	if t.closed || t.entryCount == 0 {
		return
	}

	t.mustExecute("BEGIN TRANSACTION")
	defer t.mustExecute("COMMIT TRANSACTION")

	for tableName, table := range t.tables {
		if len(table.entries) == 0 {
			continue
		}

		t.prepareStatement(tableName, table.entries[0])

		for _, entry := range table.entries {
			values := []any{}

			fields := reflect.ValueOf(entry)
			for i := 0; i < fields.NumField(); i++ {
				values = append(values, fields.Field(i).Interface())
			}

			_, err := t.statement.Exec(values...)
			if err != nil {
				panic(err)
			}
		}

		table.entries = nil

		t.statement.Close()
		t.statement = nil
	}

	t.entryCount = 0
}

func (t *sqliteWriter) Close() {
	if t.closed {
		return
	}

	t.exec.end()
	t.Flush()
	t.closed = true

	err := t.DB.Close()
	if err != nil {
		panic(err)
	}
}

func (t *sqliteWriter) mustExecute(query string) sql.Result {
	res, err := t.Exec(query)
	if err != nil {
		fmt.Printf("Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

func (t *sqliteWriter) prepareStatement(tableName string, entry any) {
	placeholders := structFieldNames(entry)
	for i := range placeholders {
		placeholders[i] = "?"
	}

	sqlStr := "INSERT INTO " + tableName +
		" VALUES (" + strings.Join(placeholders, ", ") + ")"

	stmt, err := t.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	t.statement = stmt
}
