package detection

import (
	"image"
	"sort"

	"github.com/samber/lo"

	"github.com/ironsheep/snooker-vision/internal/imaging"
)

// Reconciler merges the candidates of both strategies into one ball list.
type Reconciler struct {
	minDist    float64
	radii      RadiusRange
	classifier *Classifier
}

// NewReconciler builds a Reconciler. minDist is the minimum separation
// between reported balls; radii bounds the radius of balls found by
// segmentation alone.
func NewReconciler(minDist float64, radii RadiusRange, classifier *Classifier) *Reconciler {
	return &Reconciler{minDist: minDist, radii: radii, classifier: classifier}
}

type member struct {
	Candidate
	label Label
	index int
}

// Merge classifies, groups and resolves candidates.
//
// # Algorithm
//
//  1. Classify every candidate against frame. Candidates whose ROI misses
//     the frame are dropped.
//  2. Group candidates by single linkage: two candidates closer than
//     minDist share a group, transitively.
//  3. Per group, the ball takes the position and radius of its strongest
//     geometric member, or of its largest segmented member when no
//     geometric member exists. A radius taken from a segmented member is
//     clamped to the configured radius range.
//  4. The color is the first that is not Unknown among: the classified
//     labels of geometric members (strongest first), the classified labels
//     of segmented members (largest first), and the segmentation hints.
//     Otherwise Unknown.
//  5. Balls are sorted by ascending (x, y).
//
// Because every ball sits on a real member and members of different groups
// are at least minDist apart, so are the reported balls.
//
// Single linkage assumes every physical ball has a radius of at least
// minDist/2. Under that assumption two real balls are at least minDist
// apart and no candidate lies within minDist of both centres, so a chain
// of candidates cannot join them. With smaller balls, a stray candidate
// between two of them can merge them into one detection.
func (r *Reconciler) Merge(geom, seg []Candidate, frame image.Image) []BallDetection {
	members := make([]member, 0, len(geom)+len(seg))
	for _, c := range append(append([]Candidate{}, geom...), seg...) {
		label, ok := r.classifier.Classify(c, frame)
		if !ok {
			continue
		}
		members = append(members, member{Candidate: c, label: label, index: len(members)})
	}

	parent := make([]int, len(members))
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for i := range members {
		for j := i + 1; j < len(members); j++ {
			if imaging.Within(members[i].Center(), members[j].Center(), r.minDist) {
				if ri, rj := find(i), find(j); ri != rj {
					parent[rj] = ri
				}
			}
		}
	}

	groups := lo.GroupBy(members, func(m member) int { return find(m.index) })

	balls := make([]BallDetection, 0, len(groups))
	for _, group := range groups {
		balls = append(balls, r.resolveGroup(group))
	}

	sort.Slice(balls, func(i, j int) bool {
		if balls[i].X != balls[j].X {
			return balls[i].X < balls[j].X
		}
		return balls[i].Y < balls[j].Y
	})
	return balls
}

// resolveGroup picks the representative and color for one group.
func (r *Reconciler) resolveGroup(group []member) BallDetection {
	geometric := lo.Filter(group, func(m member, _ int) bool { return m.Source == SourceGeometric })
	segmented := lo.Filter(group, func(m member, _ int) bool { return m.Source != SourceGeometric })

	sort.SliceStable(geometric, func(i, j int) bool { return stronger(geometric[i], geometric[j]) })
	sort.SliceStable(segmented, func(i, j int) bool { return larger(segmented[i], segmented[j]) })

	var rep member
	if len(geometric) > 0 {
		rep = geometric[0]
	} else {
		rep = segmented[0]
		if r.radii.Max > 0 {
			rep.R = lo.Clamp(rep.R, r.radii.Min, r.radii.Max)
		}
	}

	return BallDetection{
		X:     rep.X,
		Y:     rep.Y,
		R:     rep.R,
		Color: groupColor(geometric, segmented),
	}
}

func groupColor(geometric, segmented []member) Label {
	for _, m := range geometric {
		if m.label != Unknown {
			return m.label
		}
	}
	for _, m := range segmented {
		if m.label != Unknown {
			return m.label
		}
	}
	for _, m := range segmented {
		if m.ColorHint != "" && m.ColorHint != Unknown {
			return m.ColorHint
		}
	}
	return Unknown
}

// stronger orders geometric members by confidence, then position.
func stronger(a, b member) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return before(a, b)
}

// larger orders segmented members by area, then position.
func larger(a, b member) bool {
	if a.Area != b.Area {
		return a.Area > b.Area
	}
	return before(a, b)
}

func before(a, b member) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.index < b.index
}
