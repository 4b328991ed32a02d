package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// ReservedLabel may not be used by a color range; the detectors report it
// for balls whose color matched nothing.
const ReservedLabel = "unknown"

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var err error

	if c.MinCenterDistance <= 0 {
		err = multierr.Append(err, invalidf("min_center_distance must be > 0, got %g", c.MinCenterDistance))
	}

	p := c.Preprocess
	if p.Gain <= 0 {
		err = multierr.Append(err, invalidf("preprocess.gain must be > 0, got %g", p.Gain))
	}
	if p.Smoothing != SmoothingGaussian && p.Smoothing != SmoothingMedian {
		err = multierr.Append(err, invalidf("preprocess.smoothing must be %q or %q, got %q",
			SmoothingGaussian, SmoothingMedian, p.Smoothing))
	}
	if p.BlurRadius < 0 {
		err = multierr.Append(err, invalidf("preprocess.blur_radius must be >= 0, got %g", p.BlurRadius))
	}

	cc := c.Circles
	if cc.MinRadius <= 0 {
		err = multierr.Append(err, invalidf("circles.min_radius must be > 0, got %d", cc.MinRadius))
	}
	if cc.MaxRadius < cc.MinRadius {
		err = multierr.Append(err, invalidf("circles.max_radius (%d) must be >= min_radius (%d)",
			cc.MaxRadius, cc.MinRadius))
	}
	if cc.EdgeLow <= 0 || cc.EdgeHigh < cc.EdgeLow {
		err = multierr.Append(err, invalidf("circles edge thresholds must satisfy 0 < edge_low <= edge_high, got %g/%g",
			cc.EdgeLow, cc.EdgeHigh))
	}
	if cc.VoteThreshold <= 0 {
		err = multierr.Append(err, invalidf("circles.vote_threshold must be > 0, got %d", cc.VoteThreshold))
	}
	if cc.MaxCircles < 0 {
		err = multierr.Append(err, invalidf("circles.max_circles must be >= 0, got %d", cc.MaxCircles))
	}

	s := c.Segmentation
	if s.MorphRadius < 0 {
		err = multierr.Append(err, invalidf("segmentation.morph_radius must be >= 0, got %g", s.MorphRadius))
	}
	if s.MinArea <= 0 || s.MaxArea < s.MinArea {
		err = multierr.Append(err, invalidf("segmentation area window must satisfy 0 < min_area <= max_area, got %d-%d",
			s.MinArea, s.MaxArea))
	}
	if s.MinCircularity <= 0 {
		err = multierr.Append(err, invalidf("segmentation.min_circularity must be > 0, got %g", s.MinCircularity))
	}
	err = multierr.Append(err, validateRanges("segmentation", s.Ranges))

	if c.Classifier.ROIHalfSize < 1 {
		err = multierr.Append(err, invalidf("classifier.roi_half_size must be >= 1, got %d", c.Classifier.ROIHalfSize))
	}
	err = multierr.Append(err, validateRanges("classifier", c.Classifier.Ranges))

	return err
}

func validateRanges(table string, ranges []ColorRange) error {
	var err error
	seen := make(map[string]bool, len(ranges))
	for i, cr := range ranges {
		where := fmt.Sprintf("%s.ranges[%d]", table, i)
		switch {
		case cr.Label == "":
			err = multierr.Append(err, invalidf("%s: label is empty", where))
		case cr.Label == ReservedLabel:
			err = multierr.Append(err, invalidf("%s: label %q is reserved", where, ReservedLabel))
		case seen[cr.Label]:
			err = multierr.Append(err, invalidf("%s: duplicate label %q", where, cr.Label))
		}
		seen[cr.Label] = true

		if n := len(cr.Ranges); n < 1 || n > 2 {
			err = multierr.Append(err, invalidf("%s (%s): need one or two HSV bounds, got %d", where, cr.Label, n))
		}
		for j, b := range cr.Ranges {
			err = multierr.Append(err, validateBounds(fmt.Sprintf("%s.ranges[%d]", where, j), b))
		}
	}
	return err
}

var channelMax = [3]int{180, 255, 255}

func validateBounds(where string, b HSVBounds) error {
	var err error
	for ch, name := range [3]string{"h", "s", "v"} {
		lo, hi := b.Low[ch], b.High[ch]
		if lo < 0 || hi > channelMax[ch] {
			err = multierr.Append(err, invalidf("%s: %s bounds %d-%d outside 0-%d", where, name, lo, hi, channelMax[ch]))
		}
		if lo > hi {
			err = multierr.Append(err, invalidf("%s: %s low %d > high %d", where, name, lo, hi))
		}
	}
	return err
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
