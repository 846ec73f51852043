package mot

import (
	"image"
)

// GreedyMatcher is naive nearest-neighbour implementation of Matcher.
//
// Slots are resolved in increasing order: slot k takes the nearest detection among those
// not claimed by slots 0..k-1. On equal distances the first encountered detection wins.
// It is O(N^2) and is not globally optimal: two objects crossing paths within one frame
// interval may swap identities.
type GreedyMatcher struct{}

// Match implements Matcher
func (GreedyMatcher) Match(previous, current []image.Point, currentRadii []int) ([]image.Point, []int, error) {
	positions, radii, err := prepareMatch(previous, current, currentRadii)
	if err != nil {
		return nil, nil, err
	}
	if len(previous) == 0 {
		return positions, radii, nil
	}
	for k := range previous {
		// Elements [0, k) are already claimed by lower slots
		location := k
		minDistance := euclideanDistance(previous[k], positions[k])
		for j := k + 1; j < len(positions); j++ {
			dist := euclideanDistance(previous[k], positions[j])
			if dist < minDistance {
				minDistance = dist
				location = j
			}
		}
		positions[k], positions[location] = positions[location], positions[k]
		radii[k], radii[location] = radii[location], radii[k]
	}
	return positions, radii, nil
}
