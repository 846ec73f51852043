package sink

import (
	stderrors "errors"

	"github.com/pkg/errors"

	"github.com/LdDl/slot-tracker/mot"
)

// ErrFrameOrder is returned when frame numbers stop increasing
var ErrFrameOrder = errors.New("frame number does not increase")

// Sink persists one row per tracked frame for positions, radii and distances.
//
// A frame is written atomically across the three logs only by SQLiteSink. CSVSink and
// Multi write log by log, so a failed WriteFrame may leave the frame in some logs only.
type Sink interface {
	WriteFrame(record mot.FrameRecord) error
	Close() error
}

// frameGuard validates rows before they are written
type frameGuard struct {
	expected  int
	lastFrame int
	started   bool
}

func (guard *frameGuard) check(record mot.FrameRecord) error {
	if guard.started && record.Frame <= guard.lastFrame {
		return errors.Wrapf(ErrFrameOrder, "frame %d after frame %d", record.Frame, guard.lastFrame)
	}
	pairs := len(mot.PairIndices(guard.expected))
	if len(record.Positions) != guard.expected || len(record.Radii) != guard.expected || len(record.Distances) != pairs {
		return errors.Errorf(
			"frame %d has %d positions, %d radii, %d distances (expected %d, %d, %d)",
			record.Frame, len(record.Positions), len(record.Radii), len(record.Distances), guard.expected, guard.expected, pairs,
		)
	}
	return nil
}

func (guard *frameGuard) commit(record mot.FrameRecord) {
	guard.lastFrame = record.Frame
	guard.started = true
}

// Multi writes every frame to all underlying sinks
type Multi []Sink

// WriteFrame implements Sink. It stops at the first failing sink; sinks before it
// already hold the frame.
func (sinks Multi) WriteFrame(record mot.FrameRecord) error {
	for _, s := range sinks {
		if err := s.WriteFrame(record); err != nil {
			return err
		}
	}
	return nil
}

// Close implements Sink. Every sink is closed even if some of them fail.
func (sinks Multi) Close() error {
	var errs []error
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
