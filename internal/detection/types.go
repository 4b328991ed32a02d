package detection

import (
	"github.com/ironsheep/snooker-vision/internal/config"
	"github.com/ironsheep/snooker-vision/internal/imaging"
)

// Label is a ball color name taken from a color table, or Unknown.
type Label string

// Unknown is reported for balls whose color matched no configured range.
const Unknown Label = config.ReservedLabel

// Source identifies which strategy produced a Candidate.
type Source string

const (
	SourceGeometric Source = "geometric"
	SourceSegmented Source = "segmented"
)

// Candidate is a possible ball produced by one strategy. Candidates live for
// a single frame.
type Candidate struct {
	X int `json:"x"` // Center X in frame pixels
	Y int `json:"y"` // Center Y in frame pixels
	R int `json:"r"` // Radius in pixels

	Source Source `json:"source"`

	// ColorHint is the segmentation range that produced the candidate.
	// Empty for geometric candidates.
	ColorHint Label `json:"color_hint,omitempty"`

	// Confidence is in [0, 1]: circumference support for geometric
	// candidates, circularity for segmented ones.
	Confidence float64 `json:"confidence"`

	// Area is the blob pixel count. Zero for geometric candidates.
	Area int `json:"area,omitempty"`
}

// Center returns the candidate's center point.
func (c Candidate) Center() imaging.Point {
	return imaging.Point{X: c.X, Y: c.Y}
}

// BallDetection is one reconciled ball.
type BallDetection struct {
	X     int   `json:"x"`
	Y     int   `json:"y"`
	R     int   `json:"r"`
	Color Label `json:"color"`
}

// Mark converts the detection for annotation.
func (b BallDetection) Mark() imaging.Mark {
	return imaging.Mark{X: b.X, Y: b.Y, R: b.R, Label: string(b.Color)}
}

// RadiusRange bounds the ball radius in pixels, inclusive.
type RadiusRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}
