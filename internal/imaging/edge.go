package imaging

import (
	"image"
	"math"
)

// EdgeMap is the output of Canny: a thin binary edge set plus the Sobel
// gradient at every pixel, which the circle detector uses for voting
// direction.
type EdgeMap struct {
	Width  int
	Height int

	// Edge marks pixels that survived hysteresis, row-major.
	Edge []bool

	// GX and GY are the Sobel responses, row-major.
	GX []float64
	GY []float64

	// Count is the number of edge pixels.
	Count int
}

// IsEdge reports whether (x, y) is an edge pixel. Out-of-range coordinates
// are not edges.
func (e *EdgeMap) IsEdge(x, y int) bool {
	if x < 0 || y < 0 || x >= e.Width || y >= e.Height {
		return false
	}
	return e.Edge[y*e.Width+x]
}

// Image renders the edge set as white-on-black.
func (e *EdgeMap) Image() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, e.Width, e.Height))
	for i, on := range e.Edge {
		if on {
			out.Pix[i] = 255
		}
	}
	return out
}

// Canny detects edges in an already-smoothed grayscale image.
//
// Parameters:
//   - gray: Smoothed 0-255 luminance (see Prepare).
//   - low, high: Hysteresis thresholds in Sobel magnitude units. A clean
//     step of height d produces a peak magnitude of about 4*d before
//     smoothing.
//
// # Algorithm
//
//  1. Gradient: 3x3 Sobel operators with replicated borders,
//     magnitude = sqrt(Gx² + Gy²), direction = atan2(Gy, Gx).
//  2. Non-maximum suppression: keep only pixels that are a local maximum
//     along their quantized gradient direction. Border pixels are dropped.
//  3. Hysteresis: pixels >= high seed the edge set, which then grows
//     through 8-connected pixels >= low.
func Canny(gray *image.Gray, low, high float64) *EdgeMap {
	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()
	n := width * height

	em := &EdgeMap{
		Width:  width,
		Height: height,
		Edge:   make([]bool, n),
		GX:     make([]float64, n),
		GY:     make([]float64, n),
	}
	if n == 0 {
		return em
	}

	px := func(x, y int) float64 {
		x = clamp(x, 0, width-1)
		y = clamp(y, 0, height-1)
		return float64(gray.Pix[gray.PixOffset(b.Min.X+x, b.Min.Y+y)])
	}

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	magnitude := make([]float64, n)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := px(x+kx, y+ky)
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			i := y*width + x
			em.GX[i] = gx
			em.GY[i] = gy
			magnitude[i] = math.Sqrt(gx*gx + gy*gy)
		}
	}

	// Non-maximum suppression
	suppressed := make([]float64, n)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag == 0 {
				continue
			}
			angle := math.Atan2(em.GY[i], em.GX[i])

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[i-1], magnitude[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[i-width-1], magnitude[i+width+1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[i-width], magnitude[i+width]
			default:
				n1, n2 = magnitude[i-width+1], magnitude[i+width-1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}

	// Hysteresis: grow strong seeds through weak pixels.
	stack := make([]int, 0, 256)
	for i, v := range suppressed {
		if v >= high && !em.Edge[i] {
			em.Edge[i] = true
			stack = append(stack, i)
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				j := ny*width + nx
				if !em.Edge[j] && suppressed[j] >= low {
					em.Edge[j] = true
					stack = append(stack, j)
				}
			}
		}
	}

	for _, on := range em.Edge {
		if on {
			em.Count++
		}
	}
	return em
}

// clamp constrains val to [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
