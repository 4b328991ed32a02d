package detection

import (
	"image"
	"image/color"

	"github.com/ironsheep/snooker-vision/internal/config"
)

var (
	felt       = color.RGBA{10, 70, 30, 255}
	redBall    = color.RGBA{230, 30, 30, 255}
	yellowBall = color.RGBA{240, 220, 20, 255}
)

// createTestImage creates a solid color test image.
func createTestImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// drawDisk fills a disk of radius r centered at (cx, cy).
func drawDisk(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r && image.Pt(x, y).In(img.Bounds()) {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawRect fills r with c.
func drawRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// testRanges returns a small color table: red across the hue seam, yellow
// and a cloth-green that the area filter must reject.
func testRanges() []config.ColorRange {
	return []config.ColorRange{
		{Label: "red", Ranges: []config.HSVBounds{
			{Low: [3]int{0, 150, 100}, High: [3]int{10, 255, 255}},
			{Low: [3]int{170, 150, 100}, High: [3]int{179, 255, 255}},
		}},
		{Label: "yellow", Ranges: []config.HSVBounds{
			{Low: [3]int{20, 150, 100}, High: [3]int{35, 255, 255}},
		}},
		{Label: "green", Ranges: []config.HSVBounds{
			{Low: [3]int{55, 100, 40}, High: [3]int{80, 255, 255}},
		}},
	}
}

// testConfig is the default calibration with the synthetic color tables
// and a small-ball radius window.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.MinCenterDistance = 20
	cfg.Circles.MinRadius = 14
	cfg.Circles.MaxRadius = 24
	cfg.Segmentation.Ranges = testRanges()
	cfg.Segmentation.MinArea = 400
	cfg.Segmentation.MaxArea = 3000
	cfg.Classifier.Ranges = testRanges()
	cfg.Classifier.ROIHalfSize = 6
	return cfg
}
