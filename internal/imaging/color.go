package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSV is a color in the 8-bit camera convention.
type HSV struct {
	H uint8 `json:"h"` // Hue: 0-179 (degrees / 2)
	S uint8 `json:"s"` // Saturation: 0-255
	V uint8 `json:"v"` // Value: 0-255
}

// In reports whether h lies inside the inclusive box [low, high].
func (h HSV) In(low, high [3]int) bool {
	return int(h.H) >= low[0] && int(h.H) <= high[0] &&
		int(h.S) >= low[1] && int(h.S) <= high[1] &&
		int(h.V) >= low[2] && int(h.V) <= high[2]
}

// ToHSV converts any color to 8-bit HSV.
//
// Hue is halved and rounded; a hue that rounds up to 180 wraps to 0. Fully
// transparent colors convert to black.
func ToHSV(c color.Color) HSV {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return HSV{}
	}
	return hsvFromColorful(cf)
}

func rgbToHSV(r, g, b uint8) HSV {
	return hsvFromColorful(colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	})
}

func hsvFromColorful(cf colorful.Color) HSV {
	h, s, v := cf.Hsv()
	hq := int(math.Round(h / 2))
	if hq >= 180 {
		hq -= 180
	}
	return HSV{
		H: uint8(hq),
		S: uint8(math.Round(s * 255)),
		V: uint8(math.Round(v * 255)),
	}
}

// HSVImage is a per-pixel HSV plane with the same geometry as its source.
type HSVImage struct {
	Pix    []HSV
	Width  int
	Height int
}

// NewHSVImage converts an NRGBA frame pixel by pixel. Alpha is ignored.
func NewHSVImage(src *image.NRGBA) *HSVImage {
	b := src.Bounds()
	out := &HSVImage{
		Pix:    make([]HSV, b.Dx()*b.Dy()),
		Width:  b.Dx(),
		Height: b.Dy(),
	}
	for y := 0; y < out.Height; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < out.Width; x++ {
			p := row[x*4 : x*4+3]
			out.Pix[y*out.Width+x] = rgbToHSV(p[0], p[1], p[2])
		}
	}
	return out
}

// At returns the HSV value at (x, y). Callers must stay in bounds.
func (m *HSVImage) At(x, y int) HSV {
	return m.Pix[y*m.Width+x]
}

// Bounds returns the origin-based rectangle covered by the plane.
func (m *HSVImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// RGBColor represents an 8-bit RGB color.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ColorResult describes one color in the representations useful when
// calibrating range tables.
type ColorResult struct {
	Hex string   `json:"hex"` // "#rrggbb"
	RGB RGBColor `json:"rgb"`
	HSV HSV      `json:"hsv"`
}

// NewColorResult builds a ColorResult from an 8-bit color.
func NewColorResult(c color.NRGBA) ColorResult {
	cf := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	return ColorResult{
		Hex: cf.Hex(),
		RGB: RGBColor{R: c.R, G: c.G, B: c.B},
		HSV: hsvFromColorful(cf),
	}
}

// SampleColor reads the color at a single pixel.
//
// Parameters:
//   - img: The source frame.
//   - x, y: Pixel coordinates inside img.Bounds().
//
// Returns:
//   - *ColorResult: The pixel in hex, RGB and HSV form.
//   - error: Non-nil if (x, y) lies outside the frame.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if !image.Pt(x, y).In(bounds) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	res := NewColorResult(c)
	return &res, nil
}

// MeanColor averages every pixel of img, rounding each channel.
//
// Returns false when img covers no pixels.
func MeanColor(img image.Image) (color.NRGBA, bool) {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n <= 0 {
		return color.NRGBA{}, false
	}

	var sr, sg, sb uint64
	if src, ok := img.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			i := src.PixOffset(b.Min.X, y)
			for x := b.Min.X; x < b.Max.X; x++ {
				sr += uint64(src.Pix[i])
				sg += uint64(src.Pix[i+1])
				sb += uint64(src.Pix[i+2])
				i += 4
			}
		}
	} else {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				sr += uint64(c.R)
				sg += uint64(c.G)
				sb += uint64(c.B)
			}
		}
	}

	fn := float64(n)
	return color.NRGBA{
		R: uint8(math.Round(float64(sr) / fn)),
		G: uint8(math.Round(float64(sg) / fn)),
		B: uint8(math.Round(float64(sb) / fn)),
		A: 255,
	}, true
}
