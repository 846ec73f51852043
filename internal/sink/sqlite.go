package sink

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/LdDl/slot-tracker/internal/monitoring"
	"github.com/LdDl/slot-tracker/mot"
)

// RunInfo describes a single tracking run stored in the runs table
type RunInfo struct {
	ID              uuid.UUID
	ExpectedObjects int
	Algorithm       mot.MatchingAlgorithm
}

const runsSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	expected_objects INTEGER NOT NULL,
	algorithm TEXT NOT NULL,
	started_at TEXT NOT NULL
)`

type sqliteTable struct {
	name       string
	columnType string
	columns    []string
	insert     string
}

func newSQLiteTable(name, columnType string, header []string) sqliteTable {
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ToLower(h)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)+1), ", ")
	return sqliteTable{
		name:       name,
		columnType: columnType,
		columns:    columns,
		insert:     "INSERT INTO " + name + " (run_id, " + strings.Join(columns, ", ") + ") VALUES (" + placeholders + ")",
	}
}

func (table sqliteTable) schema() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS " + table.name + " (\n\trun_id TEXT NOT NULL REFERENCES runs(run_id),\n\tframe INTEGER NOT NULL")
	for _, column := range table.columns[1:] {
		b.WriteString(",\n\t" + column + " " + table.columnType)
	}
	b.WriteString(",\n\tPRIMARY KEY (run_id, frame)\n)")
	return b.String()
}

// SQLiteSink stores logs as wide tables: one row per frame, columns follow CSV headers
type SQLiteSink struct {
	db     *sql.DB
	run    RunInfo
	guard  frameGuard
	tables [3]sqliteTable
}

// NewSQLiteSink opens (or creates) database at path and registers the run
func NewSQLiteSink(path string, run RunInfo) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open database %q", path)
	}
	// Single writer: the tracking loop
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "failed to execute %q", pragma)
		}
	}

	sink := &SQLiteSink{
		db:    db,
		run:   run,
		guard: frameGuard{expected: run.ExpectedObjects},
		tables: [3]sqliteTable{
			newSQLiteTable("positions", "INTEGER NOT NULL", mot.PositionColumns(run.ExpectedObjects)),
			newSQLiteTable("radii", "INTEGER NOT NULL", mot.RadiusColumns(run.ExpectedObjects)),
			newSQLiteTable("distances", "REAL NOT NULL", mot.DistanceColumns(run.ExpectedObjects)),
		},
	}
	if err := sink.init(); err != nil {
		db.Close()
		return nil, err
	}
	monitoring.Logf("run %s registered in %s", run.ID, path)
	return sink, nil
}

func (sink *SQLiteSink) init() error {
	if _, err := sink.db.Exec(runsSchema); err != nil {
		return errors.Wrap(err, "can't create runs table")
	}
	for _, table := range sink.tables {
		if _, err := sink.db.Exec(table.schema()); err != nil {
			return errors.Wrapf(err, "can't create %s table", table.name)
		}
		existing, err := sink.columnsOf(table.name)
		if err != nil {
			return err
		}
		want := append([]string{"run_id"}, table.columns...)
		if strings.Join(existing, ",") != strings.Join(want, ",") {
			return errors.Errorf("table %s has columns %v, expected %v: database was created for another object count", table.name, existing, want)
		}
	}
	_, err := sink.db.Exec(
		"INSERT INTO runs (run_id, expected_objects, algorithm, started_at) VALUES (?, ?, ?, ?)",
		sink.run.ID.String(), sink.run.ExpectedObjects, sink.run.Algorithm.String(), time.Now().UTC().Format(time.RFC3339Nano),
	)
	return errors.Wrapf(err, "can't register run %s", sink.run.ID)
}

func (sink *SQLiteSink) columnsOf(table string) ([]string, error) {
	rows, err := sink.db.Query("SELECT name FROM pragma_table_info(?) ORDER BY cid", table)
	if err != nil {
		return nil, errors.Wrapf(err, "can't inspect table %s", table)
	}
	defer rows.Close()
	columns := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrapf(err, "can't inspect table %s", table)
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

// DB returns underlying database handle
func (sink *SQLiteSink) DB() *sql.DB {
	return sink.db
}

// WriteFrame implements Sink. All three rows are written in one transaction:
// either every log holds the frame or none does.
func (sink *SQLiteSink) WriteFrame(record mot.FrameRecord) error {
	if err := sink.guard.check(record); err != nil {
		return err
	}
	positions := make([]any, 0, 2+2*len(record.Positions))
	positions = append(positions, sink.run.ID.String(), record.Frame)
	for _, pos := range record.Positions {
		positions = append(positions, pos.X, pos.Y)
	}
	radii := make([]any, 0, 2+len(record.Radii))
	radii = append(radii, sink.run.ID.String(), record.Frame)
	for _, rad := range record.Radii {
		radii = append(radii, rad)
	}
	distances := make([]any, 0, 2+len(record.Distances))
	distances = append(distances, sink.run.ID.String(), record.Frame)
	for _, dist := range record.Distances {
		distances = append(distances, dist)
	}

	tx, err := sink.db.Begin()
	if err != nil {
		return errors.Wrap(err, "can't begin transaction")
	}
	for i, args := range [][]any{positions, radii, distances} {
		if _, err := tx.Exec(sink.tables[i].insert, args...); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "can't insert frame %d into %s", record.Frame, sink.tables[i].name)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrapf(err, "can't commit frame %d", record.Frame)
	}
	sink.guard.commit(record)
	return nil
}

// Close implements Sink
func (sink *SQLiteSink) Close() error {
	return sink.db.Close()
}
