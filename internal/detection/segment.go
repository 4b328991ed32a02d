package detection

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/snooker-vision/internal/config"
	"github.com/ironsheep/snooker-vision/internal/imaging"
)

// Segmenter finds balls as round blobs in per-color HSV masks.
type Segmenter struct {
	ranges         []config.ColorRange
	morphRadius    float64
	minArea        int
	maxArea        int
	minCircularity float64
}

// NewSegmenter copies the color table and blob filters. Later edits to cfg
// do not affect the Segmenter.
func NewSegmenter(cfg config.SegmentationConfig) *Segmenter {
	return &Segmenter{
		ranges:         config.CloneRanges(cfg.Ranges),
		morphRadius:    cfg.MorphRadius,
		minArea:        cfg.MinArea,
		maxArea:        cfg.MaxArea,
		minCircularity: cfg.MinCircularity,
	}
}

// Labels returns the segmentation labels in table order.
func (s *Segmenter) Labels() []Label {
	labels := make([]Label, len(s.ranges))
	for i, cr := range s.ranges {
		labels[i] = Label(cr.Label)
	}
	return labels
}

// Segment runs every color range over the HSV plane.
//
// The result has one entry per configured label, possibly empty, and each
// list is ordered by (x, y).
//
// # Algorithm
//
// For each color range:
//  1. Mask pixels inside the first or, for hue wraparound, second box.
//  2. Open then close with a square element of MorphRadius.
//  3. Label 8-connected blobs.
//  4. Keep blobs with MinArea <= area <= MaxArea and circularity >=
//     MinCircularity.
//  5. Emit the centroid, R = round(sqrt(area/pi)) and the range label.
func (s *Segmenter) Segment(hsv *imaging.HSVImage) map[Label][]Candidate {
	out := make(map[Label][]Candidate, len(s.ranges))
	for _, cr := range s.ranges {
		label := Label(cr.Label)
		out[label] = append(out[label], s.segmentRange(hsv, cr)...)
	}
	for label, cands := range out {
		sortByPosition(cands)
		if cands == nil {
			out[label] = []Candidate{}
		}
	}
	return out
}

// Mask returns the cleaned binary mask for one label, as used by Segment.
// The boolean is false for labels not in the table.
func (s *Segmenter) Mask(hsv *imaging.HSVImage, label Label) (*image.Gray, bool) {
	for _, cr := range s.ranges {
		if Label(cr.Label) == label {
			return imaging.OpenClose(imaging.InRangeMask(hsv, cr.Ranges), s.morphRadius), true
		}
	}
	return nil, false
}

func (s *Segmenter) segmentRange(hsv *imaging.HSVImage, cr config.ColorRange) []Candidate {
	mask := imaging.OpenClose(imaging.InRangeMask(hsv, cr.Ranges), s.morphRadius)

	cands := make([]Candidate, 0)
	for _, blob := range FindBlobs(mask) {
		if blob.Area < s.minArea || blob.Area > s.maxArea {
			continue
		}
		circ := blob.Circularity()
		if circ < s.minCircularity {
			continue
		}
		cands = append(cands, Candidate{
			X:          int(math.Round(blob.CX)),
			Y:          int(math.Round(blob.CY)),
			R:          int(math.Round(blob.EquivalentRadius())),
			Source:     SourceSegmented,
			ColorHint:  Label(cr.Label),
			Confidence: math.Min(circ, 1.0),
			Area:       blob.Area,
		})
	}
	return cands
}

// sortByPosition orders candidates by ascending (x, y).
func sortByPosition(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].X != cands[j].X {
			return cands[i].X < cands[j].X
		}
		return cands[i].Y < cands[j].Y
	})
}
