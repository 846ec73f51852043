package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	"github.com/LdDl/slot-tracker/mot"
)

const maxLineSize = 1024 * 1024

type jsonDetection struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Radius int `json:"radius"`
}

type jsonFrame struct {
	Frame      int             `json:"frame"`
	Detections []jsonDetection `json:"detections"`
}

type scanResult struct {
	line []byte
	err  error
}

// JSONLinesSource reads one frame per line:
//
//	{"frame": 7, "detections": [{"x": 510, "y": 505, "radius": 62}]}
//
// "frame" is optional; when omitted frames are numbered sequentially starting from 1.
//
// Lines are read by a background goroutine, so Next returns as soon as ctx is done
// even if the producer is idle.
type JSONLinesSource struct {
	scanner   *bufio.Scanner
	closer    io.Closer
	lines     chan scanResult
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
	line      int
	lastFrame int
}

func newJSONLinesSource(reader io.Reader, closer io.Closer) *JSONLinesSource {
	return &JSONLinesSource{
		scanner: newScanner(reader),
		closer:  closer,
		lines:   make(chan scanResult),
		done:    make(chan struct{}),
	}
}

// NewJSONLinesSource wraps reader. If reader is io.Closer it is closed by Close.
func NewJSONLinesSource(reader io.Reader) *JSONLinesSource {
	closer, _ := reader.(io.Closer)
	return newJSONLinesSource(reader, closer)
}

// OpenJSONLines opens file at path, "-" stands for stdin
func OpenJSONLines(path string) (*JSONLinesSource, error) {
	if path == "-" {
		return newJSONLinesSource(os.Stdin, nil), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open detections file %q", path)
	}
	return NewJSONLinesSource(file), nil
}

func newScanner(reader io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return scanner
}

// readLines feeds lines to Next until input ends or the source is closed
func (src *JSONLinesSource) readLines() {
	defer close(src.lines)
	for src.scanner.Scan() {
		line := append([]byte(nil), src.scanner.Bytes()...)
		select {
		case src.lines <- scanResult{line: line}:
		case <-src.done:
			return
		}
	}
	if err := src.scanner.Err(); err != nil {
		select {
		case src.lines <- scanResult{err: err}:
		case <-src.done:
		}
	}
}

// Next implements DetectionSource
func (src *JSONLinesSource) Next(ctx context.Context) (Frame, error) {
	src.startOnce.Do(func() {
		go src.readLines()
	})
	for {
		if err := ctx.Err(); err != nil {
			return Frame{}, err
		}
		var result scanResult
		var ok bool
		select {
		case <-ctx.Done():
			return Frame{}, ctx.Err()
		case <-src.done:
			return Frame{}, io.EOF
		case result, ok = <-src.lines:
		}
		if !ok {
			return Frame{}, io.EOF
		}
		if result.err != nil {
			return Frame{}, errors.Wrapf(result.err, "can't read line %d", src.line+1)
		}
		src.line++
		raw := bytes.TrimSpace(result.line)
		if len(raw) == 0 {
			continue
		}
		var parsed jsonFrame
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return Frame{}, errors.Wrapf(err, "malformed frame at line %d", src.line)
		}
		number := parsed.Frame
		if number == 0 {
			number = src.lastFrame + 1
		}
		if number <= src.lastFrame {
			return Frame{}, errors.Errorf("frame %d at line %d does not follow frame %d", number, src.line, src.lastFrame)
		}
		src.lastFrame = number
		detections := make([]mot.Detection, len(parsed.Detections))
		for i, det := range parsed.Detections {
			detections[i] = mot.NewDetection(det.X, det.Y, det.Radius)
		}
		return Frame{
			Number:     number,
			Detections: detections,
		}, nil
	}
}

// Close implements DetectionSource. It stops the reading goroutine; a read already
// blocked on stdin is abandoned and ends with the process.
func (src *JSONLinesSource) Close() error {
	var err error
	src.closeOnce.Do(func() {
		close(src.done)
		if src.closer != nil {
			err = src.closer.Close()
		}
	})
	return err
}
