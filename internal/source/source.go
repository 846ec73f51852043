package source

import (
	"context"
	"io"

	"github.com/LdDl/slot-tracker/mot"
)

// Frame is unordered detector output for a single frame
type Frame struct {
	// 1-based frame number. Every frame read counts, tracked or not.
	Number     int
	Detections []mot.Detection
}

// DetectionSource yields frames in increasing order. Next returns io.EOF when input is exhausted.
type DetectionSource interface {
	Next(ctx context.Context) (Frame, error)
	Close() error
}

// SliceSource replays frames held in memory
type SliceSource struct {
	frames []Frame
	pos    int
}

// NewSliceSource creates source over frames. Frames with zero Number are numbered sequentially.
func NewSliceSource(frames []Frame) *SliceSource {
	numbered := make([]Frame, len(frames))
	last := 0
	for i, frame := range frames {
		if frame.Number == 0 {
			frame.Number = last + 1
		}
		last = frame.Number
		numbered[i] = frame
	}
	return &SliceSource{frames: numbered}
}

// Next implements DetectionSource
func (src *SliceSource) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if src.pos >= len(src.frames) {
		return Frame{}, io.EOF
	}
	frame := src.frames[src.pos]
	src.pos++
	return frame, nil
}

// Close implements DetectionSource
func (src *SliceSource) Close() error {
	return nil
}
