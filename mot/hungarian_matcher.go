package mot

import (
	"image"

	"github.com/arthurkushman/go-hungarian"
	"github.com/pkg/errors"
)

// HungarianMatcher assigns detections to slots minimizing total travelled distance.
// It follows the same contract as GreedyMatcher, but never swaps identities just because
// a lower slot claimed a detection first.
type HungarianMatcher struct{}

// Match implements Matcher
func (HungarianMatcher) Match(previous, current []image.Point, currentRadii []int) ([]image.Point, []int, error) {
	positions, radii, err := prepareMatch(previous, current, currentRadii)
	if err != nil {
		return nil, nil, err
	}
	if len(previous) < 2 {
		return positions, radii, nil
	}

	n := len(previous)
	distMatrix := make([][]float64, n)
	maxDistance := 0.0
	for k := range previous {
		row := make([]float64, n)
		for j := range positions {
			row[j] = euclideanDistance(previous[k], positions[j])
			if row[j] > maxDistance {
				maxDistance = row[j]
			}
		}
		distMatrix[k] = row
	}
	// Solver maximizes, so turn distances into non-negative scores
	scoreMatrix := make([][]float64, n)
	for k := range distMatrix {
		row := make([]float64, n)
		for j := range distMatrix[k] {
			row[j] = maxDistance - distMatrix[k][j] + 1.0
		}
		scoreMatrix[k] = row
	}

	assignment, err := decodeAssignment(hungarian.SolveMax(scoreMatrix), n)
	if err != nil {
		return nil, nil, err
	}

	orderedPositions := make([]image.Point, n)
	orderedRadii := make([]int, n)
	for k, detIdx := range assignment {
		orderedPositions[k] = positions[detIdx]
		orderedRadii[k] = radii[detIdx]
	}
	return orderedPositions, orderedRadii, nil
}

// decodeAssignment converts solver output {slot: {detectionIndex: score}} into slot -> detection index.
// Every slot must receive a distinct detection.
func decodeAssignment(assignmentsMap map[int]map[int]float64, n int) ([]int, error) {
	assignment := make([]int, n)
	taken := make([]bool, n)
	for k := 0; k < n; k++ {
		rowMap := assignmentsMap[k]
		if len(rowMap) != 1 {
			return nil, errors.Errorf("slot %d has %d assignments, expected 1", k, len(rowMap))
		}
		for detIdx := range rowMap {
			if detIdx < 0 || detIdx >= n || taken[detIdx] {
				return nil, errors.Errorf("invalid assignment of detection %d to slot %d", detIdx, k)
			}
			taken[detIdx] = true
			assignment[k] = detIdx
		}
	}
	return assignment, nil
}
