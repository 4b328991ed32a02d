package detection

import (
	"image"
	"math"

	"github.com/ironsheep/snooker-vision/internal/imaging"
)

// Blob is one 8-connected region of a binary mask.
type Blob struct {
	// Area is the number of pixels in the region.
	Area int

	// CX and CY are the centroid (first moments over area).
	CX, CY float64

	// Perimeter is the Cauchy-Crofton estimate of the boundary length.
	Perimeter float64

	// Bounds is the tight bounding box, exclusive on Max.
	Bounds image.Rectangle
}

// Circularity returns 4*pi*area/perimeter², which is 1 for a perfect disk
// and falls toward 0 for elongated or ragged shapes.
func (b Blob) Circularity() float64 {
	if b.Perimeter == 0 {
		return 0
	}
	return 4 * math.Pi * float64(b.Area) / (b.Perimeter * b.Perimeter)
}

// EquivalentRadius returns the radius of a disk with the blob's area.
func (b Blob) EquivalentRadius() float64 {
	return math.Sqrt(float64(b.Area) / math.Pi)
}

// neighbours8 lists the 8-connected offsets. Indices 0-3 are axis-aligned,
// 4-7 diagonal; crofton relies on that split.
var neighbours8 = [8]imaging.Point{
	{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
	{X: 1, Y: 1}, {X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1},
}

// FindBlobs labels the 8-connected components of mask. A pixel is set when
// its value is >= 128. Blobs are returned in raster order of their first
// pixel.
//
// # Perimeter Estimate
//
// Counting boundary pixels badly overestimates the length of diagonal
// edges, so circles come out far less round than they are. Instead the
// perimeter uses the Cauchy-Crofton formula over four line directions:
//
//	P = pi/8 * (Nh + Nv + (Nd1 + Nd2)/sqrt(2))
//
// where each N counts inside-to-outside transitions along that direction,
// both ways. The frame border counts as outside. A digital disk scores close
// to 1.
func FindBlobs(mask *image.Gray) []Blob {
	b := mask.Bounds()
	width, height := b.Dx(), b.Dy()

	set := func(x, y int) bool {
		if x < 0 || y < 0 || x >= width || y >= height {
			return false
		}
		return mask.Pix[mask.PixOffset(b.Min.X+x, b.Min.Y+y)] >= 128
	}

	visited := make([]bool, width*height)
	blobs := make([]Blob, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[y*width+x] || !set(x, y) {
				continue
			}
			blobs = append(blobs, floodFill(set, visited, x, y, width))
		}
	}
	return blobs
}

// floodFill collects one component starting at (startX, startY) with an
// explicit stack, accumulating moments and Crofton transition counts as it
// goes.
func floodFill(set func(x, y int) bool, visited []bool, startX, startY, width int) Blob {
	var (
		area            int
		sumX, sumY      float64
		axial, diagonal int
		minX, minY      = startX, startY
		maxX, maxY      = startX, startY
	)

	stack := []imaging.Point{{X: startX, Y: startY}}
	visited[startY*width+startX] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		area++
		sumX += float64(p.X)
		sumY += float64(p.Y)
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)

		for k, d := range neighbours8 {
			nx, ny := p.X+d.X, p.Y+d.Y
			if !set(nx, ny) {
				if k < 4 {
					axial++
				} else {
					diagonal++
				}
				continue
			}
			if i := ny*width + nx; !visited[i] {
				visited[i] = true
				stack = append(stack, imaging.Point{X: nx, Y: ny})
			}
		}
	}

	return Blob{
		Area:      area,
		CX:        sumX / float64(area),
		CY:        sumY / float64(area),
		Perimeter: math.Pi / 8 * (float64(axial) + float64(diagonal)/math.Sqrt2),
		Bounds:    image.Rect(minX, minY, maxX+1, maxY+1),
	}
}
