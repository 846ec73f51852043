package mot

import (
	"image"
	"strconv"
)

// FrameRecord is a single row of every log: positions, radii and distances of one tracked frame
type FrameRecord struct {
	Frame     int
	Positions []image.Point
	Radii     []int
	Distances []float64
}

// NewFrameRecord builds FrameRecord for frame number and its identity-ordered state
func NewFrameRecord(frame int, state FrameState) FrameRecord {
	return FrameRecord{
		Frame:     frame,
		Positions: state.Positions,
		Radii:     state.Radii,
		Distances: PairwiseDistances(state.Positions),
	}
}

// PositionColumns returns header of positions log: Frame, X1, Y1, ..., XN, YN
func PositionColumns(n int) []string {
	columns := make([]string, 0, 1+2*n)
	columns = append(columns, "Frame")
	for i := 1; i <= n; i++ {
		columns = append(columns, "X"+strconv.Itoa(i), "Y"+strconv.Itoa(i))
	}
	return columns
}

// RadiusColumns returns header of radii log: Frame, radBall1, ..., radBallN
func RadiusColumns(n int) []string {
	columns := make([]string, 0, 1+n)
	columns = append(columns, "Frame")
	for i := 1; i <= n; i++ {
		columns = append(columns, "radBall"+strconv.Itoa(i))
	}
	return columns
}

// DistanceColumns returns header of distances log: Frame, Range12, Range13, ..., Range(N-1)N.
// Slot numbers are 1-indexed and concatenated without separator.
func DistanceColumns(n int) []string {
	pairs := PairIndices(n)
	columns := make([]string, 0, 1+len(pairs))
	columns = append(columns, "Frame")
	for _, pair := range pairs {
		columns = append(columns, "Range"+strconv.Itoa(pair[0]+1)+strconv.Itoa(pair[1]+1))
	}
	return columns
}

// PositionRow formats positions as frame, x1, y1, ..., xN, yN
func (record FrameRecord) PositionRow() []string {
	row := make([]string, 0, 1+2*len(record.Positions))
	row = append(row, strconv.Itoa(record.Frame))
	for _, pos := range record.Positions {
		row = append(row, strconv.Itoa(pos.X), strconv.Itoa(pos.Y))
	}
	return row
}

// RadiusRow formats radii as frame, r1, ..., rN
func (record FrameRecord) RadiusRow() []string {
	row := make([]string, 0, 1+len(record.Radii))
	row = append(row, strconv.Itoa(record.Frame))
	for _, rad := range record.Radii {
		row = append(row, strconv.Itoa(rad))
	}
	return row
}

// DistanceRow formats distances as frame, d12, d13, ... using the shortest exact representation
func (record FrameRecord) DistanceRow() []string {
	row := make([]string, 0, 1+len(record.Distances))
	row = append(row, strconv.Itoa(record.Frame))
	for _, dist := range record.Distances {
		row = append(row, strconv.FormatFloat(dist, 'f', -1, 64))
	}
	return row
}
