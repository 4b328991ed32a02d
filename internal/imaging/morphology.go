package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/segment"

	"github.com/ironsheep/snooker-vision/internal/config"
)

// Mask values. Anything >= MaskOn/2 counts as set after morphology.
const (
	MaskOff uint8 = 0
	MaskOn  uint8 = 255
)

// InRangeMask marks every pixel whose HSV value falls in at least one of the
// given boxes. Two boxes express a hue range that crosses the H=0 seam.
func InRangeMask(hsv *HSVImage, bounds []config.HSVBounds) *image.Gray {
	out := image.NewGray(hsv.Bounds())
	for i, px := range hsv.Pix {
		for _, b := range bounds {
			if px.In(b.Low, b.High) {
				out.Pix[i] = MaskOn
				break
			}
		}
	}
	return out
}

// Open removes specks smaller than the structuring element: erosion followed
// by dilation with a (2r+1)x(2r+1) square.
func Open(mask *image.Gray, radius float64) *image.Gray {
	if radius <= 0 {
		return mask
	}
	h := halfWidth(radius)
	return dilate(erode(binarize(mask), h), h)
}

// Close fills pinholes and hairline gaps: dilation followed by erosion.
func Close(mask *image.Gray, radius float64) *image.Gray {
	if radius <= 0 {
		return mask
	}
	h := halfWidth(radius)
	return erode(dilate(binarize(mask), h), h)
}

// OpenClose applies Open then Close, the order that keeps isolated noise
// from being merged into blobs before it is removed.
func OpenClose(mask *image.Gray, radius float64) *image.Gray {
	return Close(Open(mask, radius), radius)
}

// halfWidth maps a kernel radius to the half side of the square window,
// using the same rounding as bild's rank filters (side = int(2r+1.5)).
func halfWidth(radius float64) int {
	return (int(2*radius+1.5) - 1) / 2
}

// binarize snaps a mask to strict 0/255 values.
func binarize(img image.Image) *image.Gray {
	return segment.Threshold(img, 128)
}

// erode keeps a pixel only when every pixel of its square window is set.
// Pixels past the border replicate the edge, so the window is simply
// truncated there.
func erode(mask *image.Gray, h int) *image.Gray {
	return boxPass(boxPass(mask, h, false, true), h, false, false)
}

// dilate sets a pixel when any pixel of its square window is set.
func dilate(mask *image.Gray, h int) *image.Gray {
	return boxPass(boxPass(mask, h, true, true), h, true, false)
}

// boxPass runs a 1-D min (grow=false) or max (grow=true) filter of half width
// h along rows or columns. A running count of set pixels keeps the cost
// independent of the window size.
func boxPass(src *image.Gray, h int, grow, rows bool) *image.Gray {
	w, ht := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, ht))

	lines, length := ht, w
	if !rows {
		lines, length = w, ht
	}
	at := func(line, i int) int {
		if rows {
			return line*src.Stride + i
		}
		return i*src.Stride + line
	}
	out := func(line, i int) int {
		if rows {
			return line*dst.Stride + i
		}
		return i*dst.Stride + line
	}

	for line := 0; line < lines; line++ {
		// count covers [lo, hi] of the current window.
		count, lo, hi := 0, 0, -1
		for i := 0; i < length; i++ {
			wantLo, wantHi := max(i-h, 0), min(i+h, length-1)
			for hi < wantHi {
				hi++
				if src.Pix[at(line, hi)] >= 128 {
					count++
				}
			}
			for lo < wantLo {
				if src.Pix[at(line, lo)] >= 128 {
					count--
				}
				lo++
			}
			set := count == hi-lo+1
			if grow {
				set = count > 0
			}
			if set {
				dst.Pix[out(line, i)] = MaskOn
			}
		}
	}
	return dst
}

// CountSet returns the number of set pixels in a mask.
func CountSet(mask *image.Gray) int {
	n := 0
	for _, v := range mask.Pix {
		if v >= 128 {
			n++
		}
	}
	return n
}
