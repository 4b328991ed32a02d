package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// ROI returns the square region [x-half, x+half) x [y-half, y+half) of img,
// clipped to the frame. The result is origin-based and empty (zero bounds)
// when the square misses the frame entirely.
func ROI(img image.Image, x, y, half int) *image.NRGBA {
	return imaging.Crop(img, image.Rect(x-half, y-half, x+half, y+half))
}

// ROIMean returns the mean color of the square region around (x, y).
// The boolean is false when the region holds no pixels.
func ROIMean(img image.Image, x, y, half int) (ColorResult, bool) {
	mean, ok := MeanColor(ROI(img, x, y, half))
	if !ok {
		return ColorResult{}, false
	}
	return NewColorResult(mean), true
}
