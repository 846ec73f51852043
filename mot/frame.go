package mot

import (
	"image"

	"github.com/pkg/errors"
)

// FrameState is identity-ordered belief for a single frame: index k of both slices is slot k.
// It is replaced wholesale on every successfully matched frame and never mutated in place.
type FrameState struct {
	Positions []image.Point
	Radii     []int
}

// Empty returns true when no frame has been matched yet
func (state FrameState) Empty() bool {
	return len(state.Positions) == 0
}

// Len returns number of slots
func (state FrameState) Len() int {
	return len(state.Positions)
}

// Eligible reports whether frame could be tracked: detector must report exactly expected candidates.
func Eligible(detections []Detection, expected int) bool {
	return expected > 0 && len(detections) == expected
}

// Advance gates detections and matches them against previous state.
//
// Ineligible frames return previous unchanged and false, so the next eligible frame is matched
// against the last successful one. The returned state never shares memory with detections.
func Advance(previous FrameState, detections []Detection, expected int, matcher Matcher) (FrameState, bool, error) {
	if !Eligible(detections, expected) {
		return previous, false, nil
	}
	centers, radii := SplitDetections(detections)
	positions, orderedRadii, err := matcher.Match(previous.Positions, centers, radii)
	if err != nil {
		return previous, false, errors.Wrap(err, "can't match detections")
	}
	return FrameState{
		Positions: positions,
		Radii:     orderedRadii,
	}, true, nil
}
