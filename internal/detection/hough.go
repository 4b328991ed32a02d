package detection

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/snooker-vision/internal/config"
	"github.com/ironsheep/snooker-vision/internal/imaging"
)

// peakWindow is the half-size of the neighbourhood a center score must
// dominate to count as a peak.
const peakWindow = 2

// CircleDetector finds balls as circles in a smoothed grayscale frame.
type CircleDetector struct {
	edgeLow, edgeHigh float64
	voteThreshold     int
	maxCircles        int
}

// NewCircleDetector copies the edge and voting settings it needs.
func NewCircleDetector(cfg config.CircleConfig) *CircleDetector {
	return &CircleDetector{
		edgeLow:       cfg.EdgeLow,
		edgeHigh:      cfg.EdgeHigh,
		voteThreshold: cfg.VoteThreshold,
		maxCircles:    cfg.MaxCircles,
	}
}

// DetectCircles finds circles with radius in radii whose centers are at
// least minDist apart.
//
// Parameters:
//   - gray: Smoothed luminance (Prepared.Blurred).
//   - radii: Inclusive radius bounds in pixels.
//   - minDist: Minimum separation between reported centers.
//
// Returns candidates ordered strongest first. A frame without edges yields
// an empty, non-nil slice.
//
// # Algorithm (gradient Hough transform)
//
//  1. Canny edges with the configured hysteresis thresholds.
//  2. Voting: every edge pixel votes at distance r along both directions of
//     its gradient, for each r in radii. Voting both ways finds bright balls
//     on dark cloth and dark balls on bright cloth alike.
//  3. Scoring: a center's score is the vote sum over its 3x3 neighbourhood,
//     which absorbs rounding of the vote positions.
//  4. Peaks: scores >= VoteThreshold that are maximal within a 5x5 window.
//  5. Suppression: peaks are ranked by score (ties by y, then x) and any peak
//     closer than minDist to a stronger kept peak is discarded. MaxCircles,
//     when set, keeps only the strongest survivors.
//  6. Radius: for each center, the radius in range with the most edge
//     pixels at that rounded distance. Confidence is that count over the
//     circumference 2*pi*r, capped at 1.
func (d *CircleDetector) DetectCircles(gray *image.Gray, radii RadiusRange, minDist float64) []Candidate {
	circles := make([]Candidate, 0)

	edges := imaging.Canny(gray, d.edgeLow, d.edgeHigh)
	if edges.Count == 0 || radii.Max < radii.Min || radii.Min <= 0 {
		return circles
	}
	width, height := edges.Width, edges.Height

	// Vote for circle centers
	accumulator := make([]int32, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if !edges.Edge[i] {
				continue
			}
			gx, gy := edges.GX[i], edges.GY[i]
			mag := math.Hypot(gx, gy)
			if mag == 0 {
				continue
			}
			ux, uy := gx/mag, gy/mag
			for r := radii.Min; r <= radii.Max; r++ {
				fr := float64(r)
				for _, sign := range [2]float64{1, -1} {
					cx := int(math.Round(float64(x) + sign*fr*ux))
					cy := int(math.Round(float64(y) + sign*fr*uy))
					if cx >= 0 && cx < width && cy >= 0 && cy < height {
						accumulator[cy*width+cx]++
					}
				}
			}
		}
	}

	score := boxSum3(accumulator, width, height)

	type peak struct {
		x, y  int
		score int32
	}
	peaks := make([]peak, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s := score[y*width+x]
			if int(s) < d.voteThreshold {
				continue
			}
			// Check if local maximum
			isMax := true
			for dy := -peakWindow; dy <= peakWindow && isMax; dy++ {
				for dx := -peakWindow; dx <= peakWindow && isMax; dx++ {
					nx, ny := x+dx, y+dy
					if nx >= 0 && nx < width && ny >= 0 && ny < height && score[ny*width+nx] > s {
						isMax = false
					}
				}
			}
			if isMax {
				peaks = append(peaks, peak{x: x, y: y, score: s})
			}
		}
	}

	sort.SliceStable(peaks, func(i, j int) bool {
		if peaks[i].score != peaks[j].score {
			return peaks[i].score > peaks[j].score
		}
		if peaks[i].y != peaks[j].y {
			return peaks[i].y < peaks[j].y
		}
		return peaks[i].x < peaks[j].x
	})

	kept := make([]imaging.Point, 0)
	for _, p := range peaks {
		center := imaging.Point{X: p.x, Y: p.y}
		if tooClose(center, kept, minDist) {
			continue
		}
		kept = append(kept, center)
		if d.maxCircles > 0 && len(kept) == d.maxCircles {
			break
		}
	}

	for _, c := range kept {
		r, support := bestRadius(edges, c, radii)
		confidence := float64(support) / (2 * math.Pi * float64(r))
		circles = append(circles, Candidate{
			X:          c.X,
			Y:          c.Y,
			R:          r,
			Source:     SourceGeometric,
			Confidence: math.Min(confidence, 1.0),
		})
	}
	return circles
}

// tooClose reports whether p is strictly closer than minDist to any point
// in kept.
func tooClose(p imaging.Point, kept []imaging.Point, minDist float64) bool {
	for _, k := range kept {
		if imaging.Within(p, k, minDist) {
			return true
		}
	}
	return false
}

// boxSum3 returns, for every cell, the sum of its 3x3 neighbourhood.
// Cells outside the grid contribute nothing.
func boxSum3(acc []int32, width, height int) []int32 {
	rows := make([]int32, len(acc))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s := acc[y*width+x]
			if x > 0 {
				s += acc[y*width+x-1]
			}
			if x < width-1 {
				s += acc[y*width+x+1]
			}
			rows[y*width+x] = s
		}
	}
	out := make([]int32, len(acc))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s := rows[y*width+x]
			if y > 0 {
				s += rows[(y-1)*width+x]
			}
			if y < height-1 {
				s += rows[(y+1)*width+x]
			}
			out[y*width+x] = s
		}
	}
	return out
}

// bestRadius builds a histogram of edge-pixel distances from c and returns
// the radius in range with the most support. Ties favour the smaller radius.
func bestRadius(edges *imaging.EdgeMap, c imaging.Point, radii RadiusRange) (int, int) {
	hist := make([]int, radii.Max-radii.Min+1)
	reach := radii.Max + 1

	for y := c.Y - reach; y <= c.Y+reach; y++ {
		for x := c.X - reach; x <= c.X+reach; x++ {
			if !edges.IsEdge(x, y) {
				continue
			}
			r := int(math.Round(imaging.Distance(c, imaging.Point{X: x, Y: y})))
			if r >= radii.Min && r <= radii.Max {
				hist[r-radii.Min]++
			}
		}
	}

	best, support := radii.Min, 0
	for i, n := range hist {
		if n > support {
			best, support = radii.Min+i, n
		}
	}
	return best, support
}
