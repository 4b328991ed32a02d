// Package config holds the calibration for the ball detection pipeline.
//
// Every tunable the detectors consume lives here: radius bounds, center
// separation, edge and vote thresholds, morphology and blob filters, and the
// two color tables (one for mask segmentation, one for single-point
// classification). A Config is plain data. Components copy what they need at
// construction, so a Config can be edited and re-validated between pipeline
// builds without affecting pipelines already running.
//
// # HSV Convention
//
// All HSV bounds use the 8-bit convention common to camera tooling:
//   - H: 0-180 (degrees divided by two)
//   - S: 0-255
//   - V: 0-255
//
// Colors straddling the hue seam (red) are expressed with two bound pairs,
// one near H=0 and one near H=180.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Smoothing filter names accepted by PreprocessConfig.Smoothing.
const (
	SmoothingGaussian = "gaussian"
	SmoothingMedian   = "median"
)

// HSVBounds is an inclusive low/high box in HSV space.
type HSVBounds struct {
	Low  [3]int `json:"low"`  // H, S, V lower bounds (inclusive)
	High [3]int `json:"high"` // H, S, V upper bounds (inclusive)
}

// ColorRange names a color and the HSV box (or two boxes, for hue
// wraparound) that identifies it.
type ColorRange struct {
	Label  string      `json:"label"`
	Ranges []HSVBounds `json:"ranges"`
}

// PreprocessConfig controls grayscale normalization and smoothing.
type PreprocessConfig struct {
	// Gain multiplies every grayscale value before Offset is added.
	Gain float64 `json:"gain"`

	// Offset is added after Gain; results are clamped to 0-255.
	Offset float64 `json:"offset"`

	// Smoothing selects the noise filter: "gaussian" or "median".
	Smoothing string `json:"smoothing"`

	// BlurRadius is the filter radius in pixels. Zero disables smoothing.
	BlurRadius float64 `json:"blur_radius"`
}

// CircleConfig controls the geometric (Hough) detector.
type CircleConfig struct {
	MinRadius int `json:"min_radius"` // Smallest ball radius in pixels
	MaxRadius int `json:"max_radius"` // Largest ball radius in pixels

	// EdgeLow and EdgeHigh are the Canny hysteresis thresholds, in Sobel
	// magnitude units over 0-255 grayscale.
	EdgeLow  float64 `json:"edge_low"`
	EdgeHigh float64 `json:"edge_high"`

	// VoteThreshold is the minimum 3x3 accumulator score for a center.
	VoteThreshold int `json:"vote_threshold"`

	// MaxCircles keeps only the strongest N centers. Zero means no cut.
	MaxCircles int `json:"max_circles"`
}

// SegmentationConfig controls the per-color mask detector.
type SegmentationConfig struct {
	Ranges []ColorRange `json:"ranges"`

	// MorphRadius sizes the square structuring element (2*r+1 wide).
	MorphRadius float64 `json:"morph_radius"`

	MinArea        int     `json:"min_area"`        // Smallest blob area in pixels
	MaxArea        int     `json:"max_area"`        // Largest blob area in pixels
	MinCircularity float64 `json:"min_circularity"` // 4*pi*area/perimeter^2 floor
}

// ClassifierConfig controls ROI color classification.
type ClassifierConfig struct {
	// Ranges are matched in order; the first hit wins.
	Ranges []ColorRange `json:"ranges"`

	// ROIHalfSize is half the side of the square sampled around a center.
	ROIHalfSize int `json:"roi_half_size"`
}

// Config is the complete pipeline calibration.
type Config struct {
	// MinCenterDistance is the minimum separation, in pixels, between two
	// reported balls. It also drives Hough center suppression.
	MinCenterDistance float64 `json:"min_center_distance"`

	Preprocess   PreprocessConfig   `json:"preprocess"`
	Circles      CircleConfig       `json:"circles"`
	Segmentation SegmentationConfig `json:"segmentation"`
	Classifier   ClassifierConfig   `json:"classifier"`
}

// Default returns the calibration used on the reference table: a 1280x720
// overhead camera with balls of roughly 20-33 px radius.
func Default() Config {
	return Config{
		MinCenterDistance: 20,
		Preprocess: PreprocessConfig{
			Gain:       1.0,
			Offset:     0,
			Smoothing:  SmoothingGaussian,
			BlurRadius: 2,
		},
		Circles: CircleConfig{
			MinRadius:     20,
			MaxRadius:     33,
			EdgeLow:       20,
			EdgeHigh:      40,
			VoteThreshold: 60,
		},
		Segmentation: SegmentationConfig{
			Ranges: []ColorRange{
				{Label: "red", Ranges: []HSVBounds{
					{Low: [3]int{0, 150, 100}, High: [3]int{10, 255, 255}},
					{Low: [3]int{160, 150, 100}, High: [3]int{179, 255, 255}},
				}},
				{Label: "green", Ranges: []HSVBounds{{Low: [3]int{32, 74, 0}, High: [3]int{105, 255, 255}}}},
				{Label: "blue", Ranges: []HSVBounds{{Low: [3]int{96, 74, 100}, High: [3]int{131, 255, 255}}}},
				{Label: "yellow", Ranges: []HSVBounds{{Low: [3]int{20, 100, 100}, High: [3]int{30, 255, 255}}}},
				{Label: "white", Ranges: []HSVBounds{{Low: [3]int{0, 0, 241}, High: [3]int{178, 53, 255}}}},
				{Label: "black", Ranges: []HSVBounds{{Low: [3]int{114, 22, 0}, High: [3]int{179, 255, 101}}}},
			},
			MorphRadius:    2,
			MinArea:        1000,
			MaxArea:        3500,
			MinCircularity: 0.7,
		},
		Classifier: ClassifierConfig{
			// Red precedes brown: their saturation bands overlap at 150-155.
			Ranges: []ColorRange{
				{Label: "red", Ranges: []HSVBounds{
					{Low: [3]int{160, 111, 167}, High: [3]int{179, 155, 255}},
					{Low: [3]int{0, 111, 167}, High: [3]int{8, 155, 255}},
				}},
				{Label: "brown", Ranges: []HSVBounds{
					{Low: [3]int{160, 150, 167}, High: [3]int{179, 255, 255}},
					{Low: [3]int{0, 150, 167}, High: [3]int{8, 255, 255}},
				}},
				{Label: "green", Ranges: []HSVBounds{{Low: [3]int{91, 90, 100}, High: [3]int{111, 255, 255}}}},
				{Label: "blue", Ranges: []HSVBounds{{Low: [3]int{111, 0, 0}, High: [3]int{131, 255, 255}}}},
				{Label: "yellow", Ranges: []HSVBounds{{Low: [3]int{19, 70, 0}, High: [3]int{39, 255, 255}}}},
				{Label: "black", Ranges: []HSVBounds{{Low: [3]int{130, 36, 77}, High: [3]int{174, 75, 149}}}},
				{Label: "white", Ranges: []HSVBounds{{Low: [3]int{0, 0, 200}, High: [3]int{20, 20, 255}}}},
			},
			ROIHalfSize: 10,
		},
	}
}

// Load reads a JSON config file. Fields missing from the file keep their
// Default values; unknown fields are rejected so typos surface early.
//
// The returned config has been validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON config document.
func Parse(data []byte) (Config, error) {
	defaults := Default()

	// The color tables are replaced wholesale, never merged element-wise
	// with the defaults.
	cfg := defaults.Clone()
	cfg.Segmentation.Ranges = nil
	cfg.Classifier.Ranges = nil

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Segmentation.Ranges == nil {
		cfg.Segmentation.Ranges = defaults.Segmentation.Ranges
	}
	if cfg.Classifier.Ranges == nil {
		cfg.Classifier.Ranges = defaults.Classifier.Ranges
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write encodes the config as indented JSON.
func (c Config) Write(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Clone returns a deep copy; the color tables are not shared.
func (c Config) Clone() Config {
	out := c
	out.Segmentation.Ranges = CloneRanges(c.Segmentation.Ranges)
	out.Classifier.Ranges = CloneRanges(c.Classifier.Ranges)
	return out
}

// CloneRanges deep-copies a color table.
func CloneRanges(in []ColorRange) []ColorRange {
	if in == nil {
		return nil
	}
	out := make([]ColorRange, len(in))
	for i, cr := range in {
		out[i] = ColorRange{
			Label:  cr.Label,
			Ranges: append([]HSVBounds(nil), cr.Ranges...),
		}
	}
	return out
}
