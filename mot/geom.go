package mot

import (
	"image"

	"gonum.org/v1/gonum/spatial/r2"
)

// Detection is a single candidate reported by a detector for one frame.
// It carries no identity.
type Detection struct {
	Center image.Point
	Radius int
}

// NewDetection creates Detection from center coordinates and radius
func NewDetection(x, y, radius int) Detection {
	return Detection{
		Center: image.Pt(x, y),
		Radius: radius,
	}
}

// SplitDetections returns centers and radii of detections, aligned by index
func SplitDetections(detections []Detection) ([]image.Point, []int) {
	centers := make([]image.Point, len(detections))
	radii := make([]int, len(detections))
	for i, det := range detections {
		centers[i] = det.Center
		radii[i] = det.Radius
	}
	return centers, radii
}

func vecFrom(point image.Point) r2.Vec {
	return r2.Vec{
		X: float64(point.X),
		Y: float64(point.Y),
	}
}

// euclideanDistance computes distance between two integer points in floating point
func euclideanDistance(p1, p2 image.Point) float64 {
	return r2.Norm(r2.Sub(vecFrom(p1), vecFrom(p2)))
}

// Distance returns euclidean distance between two points
func Distance(p1, p2 image.Point) float64 {
	return euclideanDistance(p1, p2)
}
