package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/snooker-vision/internal/config"
)

// Prepared holds the derived views of one frame that the detectors consume.
// All images are origin-based and share the frame's dimensions.
type Prepared struct {
	// Frame is a private 8-bit copy of the caller's frame.
	Frame *image.NRGBA

	// Gray is the luminance after gain and offset, before smoothing.
	Gray *image.Gray

	// Blurred is Gray after the configured smoothing filter.
	Blurred *image.Gray

	// HSV is the per-pixel HSV plane of Frame.
	HSV *HSVImage
}

// Bounds returns the frame rectangle.
func (p *Prepared) Bounds() image.Rectangle {
	return p.Frame.Bounds()
}

// Prepare derives grayscale, smoothed and HSV views of a frame.
//
// Parameters:
//   - frame: Any non-empty image. It is copied, never retained.
//   - cfg: Gain, offset and smoothing settings.
//
// # Algorithm
//
//  1. Copy the frame into an origin-based NRGBA (imaging.Clone).
//  2. Convert to luminance with BT.601 weights (imaging.Grayscale).
//  3. Apply out = |gain*in + offset|, saturated to 0-255.
//  4. Smooth with a Gaussian or median filter of cfg.BlurRadius.
//  5. Convert the unsmoothed color copy to HSV.
//
// Prepare does not fail; empty frames are the caller's responsibility.
func Prepare(frame image.Image, cfg config.PreprocessConfig) *Prepared {
	src := imaging.Clone(frame)

	gray := imaging.Grayscale(src)
	if cfg.Gain != 1 || cfg.Offset != 0 {
		gray = imaging.AdjustFunc(gray, func(c color.NRGBA) color.NRGBA {
			v := ScaleAbs(c.R, cfg.Gain, cfg.Offset)
			return color.NRGBA{R: v, G: v, B: v, A: 255}
		})
	}
	grayPlane := toGray(gray)

	return &Prepared{
		Frame:   src,
		Gray:    grayPlane,
		Blurred: Smooth(grayPlane, cfg.Smoothing, cfg.BlurRadius),
		HSV:     NewHSVImage(src),
	}
}

// ScaleAbs maps v to |gain*v + offset| rounded and clamped to 0-255.
func ScaleAbs(v uint8, gain, offset float64) uint8 {
	out := math.Abs(gain*float64(v) + offset)
	if out > 255 {
		return 255
	}
	return uint8(math.Round(out))
}

// Smooth applies the named noise filter. A non-positive radius or an
// unrecognized method returns an unfiltered copy.
func Smooth(gray *image.Gray, method string, radius float64) *image.Gray {
	if radius <= 0 {
		return toGray(gray)
	}
	switch method {
	case config.SmoothingGaussian:
		return toGray(blur.Gaussian(gray, radius))
	case config.SmoothingMedian:
		return toGray(effect.Median(gray, radius))
	default:
		return toGray(gray)
	}
}

// toGray copies the red channel of img into a fresh origin-based Gray. All
// inputs here are already neutral gray, so one channel carries the value.
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < b.Dy(); y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
		}
	case *image.RGBA:
		for y := 0; y < b.Dy(); y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < b.Dx(); x++ {
				out.Pix[y*out.Stride+x] = src.Pix[i]
				i += 4
			}
		}
	case *image.NRGBA:
		for y := 0; y < b.Dy(); y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < b.Dx(); x++ {
				out.Pix[y*out.Stride+x] = src.Pix[i]
				i += 4
			}
		}
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				out.SetGray(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray))
			}
		}
	}
	return out
}
