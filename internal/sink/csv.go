package sink

import (
	"encoding/csv"
	"os"

	"github.com/pkg/errors"

	"github.com/LdDl/slot-tracker/mot"
)

// CSVPaths lists files of each log. Empty path disables that log.
type CSVPaths struct {
	Positions string
	Radii     string
	Distances string
}

type csvLog struct {
	file   *os.File
	writer *csv.Writer
	row    func(mot.FrameRecord) []string
}

func openCSVLog(path string, header []string, row func(mot.FrameRecord) []string) (*csvLog, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't create %q", path)
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "can't write header to %q", path)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "can't write header to %q", path)
	}
	return &csvLog{file: file, writer: writer, row: row}, nil
}

func (l *csvLog) write(record mot.FrameRecord) error {
	if err := l.writer.Write(l.row(record)); err != nil {
		return errors.Wrapf(err, "can't write frame %d to %q", record.Frame, l.file.Name())
	}
	l.writer.Flush()
	return errors.Wrapf(l.writer.Error(), "can't flush frame %d to %q", record.Frame, l.file.Name())
}

func (l *csvLog) close() error {
	l.writer.Flush()
	flushErr := l.writer.Error()
	closeErr := l.file.Close()
	if flushErr != nil {
		return errors.Wrapf(flushErr, "can't flush %q", l.file.Name())
	}
	return errors.Wrapf(closeErr, "can't close %q", l.file.Name())
}

// CSVSink writes three CSV logs. Files are truncated and receive header on open.
// It is not atomic across logs, see Sink.
type CSVSink struct {
	guard frameGuard
	logs  []*csvLog
}

// NewCSVSink creates enabled logs for expected number of objects
func NewCSVSink(expected int, paths CSVPaths) (*CSVSink, error) {
	sink := &CSVSink{
		guard: frameGuard{expected: expected},
	}
	specs := []struct {
		path   string
		header []string
		row    func(mot.FrameRecord) []string
	}{
		{paths.Positions, mot.PositionColumns(expected), mot.FrameRecord.PositionRow},
		{paths.Radii, mot.RadiusColumns(expected), mot.FrameRecord.RadiusRow},
		{paths.Distances, mot.DistanceColumns(expected), mot.FrameRecord.DistanceRow},
	}
	for _, spec := range specs {
		if spec.path == "" {
			continue
		}
		l, err := openCSVLog(spec.path, spec.header, spec.row)
		if err != nil {
			sink.Close()
			return nil, err
		}
		sink.logs = append(sink.logs, l)
	}
	return sink, nil
}

// WriteFrame implements Sink. Rows are flushed log by log: on error the frame may be
// present in the logs written before the failing one.
func (sink *CSVSink) WriteFrame(record mot.FrameRecord) error {
	if err := sink.guard.check(record); err != nil {
		return err
	}
	for _, l := range sink.logs {
		if err := l.write(record); err != nil {
			return err
		}
	}
	sink.guard.commit(record)
	return nil
}

// Close implements Sink
func (sink *CSVSink) Close() error {
	var firstErr error
	for _, l := range sink.logs {
		if err := l.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	sink.logs = nil
	return firstErr
}
