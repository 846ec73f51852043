package pipeline

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/LdDl/slot-tracker/internal/metrics"
	"github.com/LdDl/slot-tracker/internal/monitoring"
	"github.com/LdDl/slot-tracker/internal/sink"
	"github.com/LdDl/slot-tracker/internal/source"
	"github.com/LdDl/slot-tracker/mot"
)

// Options configures a tracking run
type Options struct {
	// Number of tracked objects, fixed for the run
	Expected int
	Matcher  mot.Matcher
	Source   source.DetectionSource
	Sink     sink.Sink
	// Optional
	Metrics *metrics.Metrics
}

// Summary counts frames handled by Run
type Summary struct {
	FramesRead    int
	FramesTracked int
	FramesSkipped int
	// Identity-ordered state of the last tracked frame
	LastState mot.FrameState
}

// Run processes frames one by one until source is exhausted or ctx is cancelled.
//
// For every frame: gate on detection count, match against the last tracked frame,
// compute pairwise distances and write the record to the sink. Frames with unexpected
// detection count are skipped and do not touch the state.
//
// Cancellation is a normal stop: Run returns the summary and nil error. Closing source
// and sink is up to the caller.
func Run(ctx context.Context, opts Options) (Summary, error) {
	summary := Summary{}
	if opts.Expected < 1 {
		return summary, errors.Errorf("expected number of objects must be positive, got %d", opts.Expected)
	}
	if opts.Source == nil || opts.Sink == nil {
		return summary, errors.New("source and sink must be set")
	}
	matcher := opts.Matcher
	if matcher == nil {
		matcher = mot.GreedyMatcher{}
	}

	state := mot.FrameState{}
	for {
		frame, err := opts.Source.Next(ctx)
		if err == io.EOF {
			return summary, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			monitoring.Logf("stopping after frame %d: %v", summary.FramesRead, err)
			return summary, nil
		}
		if err != nil {
			return summary, errors.Wrap(err, "can't read next frame")
		}
		summary.FramesRead++
		if opts.Metrics != nil {
			opts.Metrics.FramesRead.Inc()
		}

		next, tracked, err := mot.Advance(state, frame.Detections, opts.Expected, matcher)
		if err != nil {
			return summary, errors.Wrapf(err, "frame %d", frame.Number)
		}
		if !tracked {
			summary.FramesSkipped++
			if opts.Metrics != nil {
				opts.Metrics.FramesSkipped.Inc()
			}
			monitoring.Debugf("frame %d skipped: %d detections, expected %d", frame.Number, len(frame.Detections), opts.Expected)
			continue
		}

		if err := opts.Sink.WriteFrame(mot.NewFrameRecord(frame.Number, next)); err != nil {
			return summary, errors.Wrapf(err, "can't persist frame %d", frame.Number)
		}
		if opts.Metrics != nil {
			opts.Metrics.FramesTracked.Inc()
			observeDisplacement(opts.Metrics, state, next)
		}
		state = next
		summary.FramesTracked++
		summary.LastState = state
	}
}

func observeDisplacement(m *metrics.Metrics, previous, current mot.FrameState) {
	if previous.Empty() {
		return
	}
	for k := range current.Positions {
		m.SlotDisplacement.Observe(mot.Distance(previous.Positions[k], current.Positions[k]))
	}
}
