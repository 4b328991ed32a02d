package detection

import (
	"image"

	"github.com/ironsheep/snooker-vision/internal/config"
	"github.com/ironsheep/snooker-vision/internal/imaging"
)

// Classifier assigns a color label to a candidate from the mean color of a
// small square around its center.
type Classifier struct {
	ranges []config.ColorRange
	half   int
}

// NewClassifier copies the color table and ROI size.
func NewClassifier(cfg config.ClassifierConfig) *Classifier {
	return &Classifier{
		ranges: config.CloneRanges(cfg.Ranges),
		half:   cfg.ROIHalfSize,
	}
}

// Classify labels a candidate against frame.
//
// The ROI is [x-h, x+h) x [y-h, y+h) clipped to the frame, with h the
// configured half-size. Its mean RGB is converted to HSV once and matched
// against the table in order; the first range containing it wins. A color
// that matches nothing is Unknown.
//
// The boolean is false when the ROI holds no pixels, meaning the candidate
// should be dropped.
func (c *Classifier) Classify(cand Candidate, frame image.Image) (Label, bool) {
	label, _, ok := c.Sample(frame, cand.X, cand.Y)
	return label, ok
}

// Sample classifies the ROI around (x, y) and also returns its mean color,
// which is what calibration tools display.
func (c *Classifier) Sample(frame image.Image, x, y int) (Label, imaging.ColorResult, bool) {
	mean, ok := imaging.ROIMean(frame, x, y, c.half)
	if !ok {
		return Unknown, imaging.ColorResult{}, false
	}
	return c.Match(mean.HSV), mean, true
}

// Match returns the first label whose range contains hsv, or Unknown.
func (c *Classifier) Match(hsv imaging.HSV) Label {
	for _, cr := range c.ranges {
		for _, b := range cr.Ranges {
			if hsv.In(b.Low, b.High) {
				return Label(cr.Label)
			}
		}
	}
	return Unknown
}
