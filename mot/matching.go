package mot

import (
	"encoding/json"
	"fmt"
	"image"
	"strings"

	"github.com/pkg/errors"
)

// MatchingAlgorithm is for algorithm type for matching detections to slots
type MatchingAlgorithm uint16

const (
	// MatchingAlgorithmGreedy binds slots one by one to the nearest unassigned detection
	MatchingAlgorithmGreedy MatchingAlgorithm = iota
	// MatchingAlgorithmHungarian uses the Hungarian algorithm (Kuhn-Munkres) for minimum total distance assignment
	MatchingAlgorithmHungarian
)

// ErrLengthMismatch is returned when previous positions, current positions and current radii differ in size.
// Callers are expected to filter frames with Eligible before matching.
var ErrLengthMismatch = errors.New("mismatched input lengths")

func (algorithm MatchingAlgorithm) String() string {
	switch algorithm {
	case MatchingAlgorithmGreedy:
		return "greedy"
	case MatchingAlgorithmHungarian:
		return "hungarian"
	default:
		return fmt.Sprintf("MatchingAlgorithm(%d)", uint16(algorithm))
	}
}

// ParseMatchingAlgorithm converts algorithm name into MatchingAlgorithm
func ParseMatchingAlgorithm(value string) (MatchingAlgorithm, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "greedy":
		return MatchingAlgorithmGreedy, nil
	case "hungarian":
		return MatchingAlgorithmHungarian, nil
	default:
		return MatchingAlgorithmGreedy, errors.Errorf("unknown matching algorithm %q", value)
	}
}

// UnmarshalJSON allows algorithms to be loaded from JSON strings
func (algorithm *MatchingAlgorithm) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseMatchingAlgorithm(raw)
	if err != nil {
		return err
	}
	*algorithm = parsed
	return nil
}

// MarshalJSON writes algorithm as its name
func (algorithm MatchingAlgorithm) MarshalJSON() ([]byte, error) {
	return json.Marshal(algorithm.String())
}

// Matcher reorders an unordered set of current positions (and their radii) so index k
// continues the identity of previous[k].
//
// When previous is empty the current order is returned as is: it defines slot order
// for all subsequent frames.
type Matcher interface {
	Match(previous, current []image.Point, currentRadii []int) ([]image.Point, []int, error)
}

// NewMatcher returns Matcher for given algorithm. Unknown values fall back to greedy matching.
func NewMatcher(algorithm MatchingAlgorithm) Matcher {
	switch algorithm {
	case MatchingAlgorithmHungarian:
		return HungarianMatcher{}
	default:
		return GreedyMatcher{}
	}
}

// prepareMatch validates sizes and makes copies of inputs, so matchers never touch caller's slices
func prepareMatch(previous, current []image.Point, currentRadii []int) ([]image.Point, []int, error) {
	if len(current) != len(currentRadii) {
		return nil, nil, errors.Wrapf(ErrLengthMismatch, "%d positions, %d radii", len(current), len(currentRadii))
	}
	if len(previous) != 0 && len(previous) != len(current) {
		return nil, nil, errors.Wrapf(ErrLengthMismatch, "%d previous positions, %d current positions", len(previous), len(current))
	}
	positions := make([]image.Point, len(current))
	copy(positions, current)
	radii := make([]int, len(currentRadii))
	copy(radii, currentRadii)
	return positions, radii, nil
}
