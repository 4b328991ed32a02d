package detection

import (
	"github.com/samber/lo"

	"github.com/ironsheep/snooker-vision/internal/config"
	"github.com/ironsheep/snooker-vision/internal/imaging"
)

// Strategy is one independent way of proposing ball candidates from a
// prepared frame. Implementations must only read the Prepared views, so
// several strategies can run on the same frame concurrently.
type Strategy interface {
	Source() Source
	Detect(frame *imaging.Prepared) ([]Candidate, error)
}

// GeometricStrategy proposes candidates from circle geometry alone.
type GeometricStrategy struct {
	detector *CircleDetector
	radii    RadiusRange
	minDist  float64
}

// NewGeometricStrategy binds a CircleDetector to the configured radius
// bounds and center separation.
func NewGeometricStrategy(cfg config.Config) *GeometricStrategy {
	return &GeometricStrategy{
		detector: NewCircleDetector(cfg.Circles),
		radii:    RadiusRange{Min: cfg.Circles.MinRadius, Max: cfg.Circles.MaxRadius},
		minDist:  cfg.MinCenterDistance,
	}
}

func (g *GeometricStrategy) Source() Source { return SourceGeometric }

func (g *GeometricStrategy) Detect(frame *imaging.Prepared) ([]Candidate, error) {
	return g.detector.DetectCircles(frame.Blurred, g.radii, g.minDist), nil
}

// SegmentationStrategy proposes candidates from per-color masks.
type SegmentationStrategy struct {
	segmenter *Segmenter
}

// NewSegmentationStrategy wraps a Segmenter built from cfg.
func NewSegmentationStrategy(cfg config.SegmentationConfig) *SegmentationStrategy {
	return &SegmentationStrategy{segmenter: NewSegmenter(cfg)}
}

func (s *SegmentationStrategy) Source() Source { return SourceSegmented }

// Detect flattens the per-label results in table order.
func (s *SegmentationStrategy) Detect(frame *imaging.Prepared) ([]Candidate, error) {
	byLabel := s.segmenter.Segment(frame.HSV)
	return lo.FlatMap(s.segmenter.Labels(), func(l Label, _ int) []Candidate {
		return byLabel[l]
	}), nil
}

var (
	_ Strategy = (*GeometricStrategy)(nil)
	_ Strategy = (*SegmentationStrategy)(nil)
)
