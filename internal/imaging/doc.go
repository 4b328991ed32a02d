// Package imaging provides the pixel-level building blocks of the ball
// detector: frame loading, preprocessing, color conversion, edge maps,
// binary morphology, region sampling and debug annotation.
//
// Everything here is stateless apart from ImageCache, and nothing here knows
// what a ball is. The detection package composes these operations.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Prepare copies every frame
// into an origin-based *image.NRGBA, so downstream code can index Pix
// directly without consulting Bounds().Min.
//
// # HSV
//
// HSV values use the 8-bit camera convention (H 0-180, S 0-255, V 0-255) so
// that calibration tables port between tools without rescaling. Conversion is
// done with go-colorful and then quantized; see ToHSV.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. A Prepared frame is read-only after
// Prepare returns and may be shared between goroutines.
package imaging
