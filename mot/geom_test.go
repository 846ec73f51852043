package mot

import (
	"image"
	"math"
	"testing"
)

const (
	eps = 0.00001
)

func TestEuclideanDistance(t *testing.T) {
	p1 := image.Point{X: 341, Y: 264}
	p2 := image.Point{X: 421, Y: 427}
	correnctAnswer := 181.57367
	answer := euclideanDistance(p1, p2)
	if math.Abs(answer-correnctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correnctAnswer)
	}
}

func TestEuclideanDistanceSymmetric(t *testing.T) {
	p1 := image.Pt(-5, 12)
	p2 := image.Pt(7, -4)
	if euclideanDistance(p1, p2) != euclideanDistance(p2, p1) {
		t.Errorf("Distance must be symmetric")
	}
	if euclideanDistance(p1, p1) != 0 {
		t.Errorf("Distance to itself must be zero, got %v", euclideanDistance(p1, p1))
	}
	if math.Abs(euclideanDistance(p1, p2)-20.0) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", euclideanDistance(p1, p2), 20.0)
	}
}

func TestSplitDetections(t *testing.T) {
	detections := []Detection{
		NewDetection(510, 505, 10),
		NewDetection(105, 98, 12),
	}
	centers, radii := SplitDetections(detections)
	if len(centers) != 2 || len(radii) != 2 {
		t.Fatalf("Wrong sizes: %d centers, %d radii", len(centers), len(radii))
	}
	if centers[1] != image.Pt(105, 98) || radii[1] != 12 {
		t.Errorf("Wrong second element: %v, %d", centers[1], radii[1])
	}
}
