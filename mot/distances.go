package mot

import "image"

// PairIndices returns all unordered slot pairs (i, j), i < j, in canonical order:
// (0,1), (0,2), ..., (0,n-1), (1,2), ...
func PairIndices(n int) [][2]int {
	if n < 2 {
		return [][2]int{}
	}
	pairs := make([][2]int, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	return pairs
}

// PairwiseDistances calculates distance between every pair of identity-ordered positions.
// Output follows PairIndices order and has n*(n-1)/2 elements.
func PairwiseDistances(positions []image.Point) []float64 {
	pairs := PairIndices(len(positions))
	distances := make([]float64, len(pairs))
	for idx, pair := range pairs {
		distances[idx] = euclideanDistance(positions[pair[0]], positions[pair[1]])
	}
	return distances
}
