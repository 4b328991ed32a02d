package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestToHSV(t *testing.T) {
	tests := []struct {
		name string
		in   color.Color
		want HSV
	}{
		{"black", color.RGBA{0, 0, 0, 255}, HSV{0, 0, 0}},
		{"white", color.RGBA{255, 255, 255, 255}, HSV{0, 0, 255}},
		{"pure red", color.RGBA{255, 0, 0, 255}, HSV{0, 255, 255}},
		{"pure green", color.RGBA{0, 255, 0, 255}, HSV{60, 255, 255}},
		{"pure blue", color.RGBA{0, 0, 255, 255}, HSV{120, 255, 255}},
		{"yellow", color.RGBA{255, 255, 0, 255}, HSV{30, 255, 255}},
		// Hue 355.5 degrees lands just below the seam.
		{"crimson", color.RGBA{230, 30, 45, 255}, HSV{178, 222, 230}},
		// Hue 359.5 degrees rounds to 180 and wraps.
		{"near seam", color.RGBA{255, 0, 2, 255}, HSV{0, 255, 255}},
		{"transparent", color.RGBA{0, 0, 0, 0}, HSV{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHSV(tt.in); got != tt.want {
				t.Errorf("ToHSV(%v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHSV_In(t *testing.T) {
	low, high := [3]int{20, 100, 100}, [3]int{30, 255, 255}

	tests := []struct {
		hsv  HSV
		want bool
	}{
		{HSV{20, 100, 100}, true}, // inclusive low
		{HSV{30, 255, 255}, true}, // inclusive high
		{HSV{25, 200, 200}, true},
		{HSV{19, 200, 200}, false},
		{HSV{31, 200, 200}, false},
		{HSV{25, 99, 200}, false},
		{HSV{25, 200, 99}, false},
	}
	for _, tt := range tests {
		if got := tt.hsv.In(low, high); got != tt.want {
			t.Errorf("%+v.In = %v, want %v", tt.hsv, got, tt.want)
		}
	}
}

func TestNewHSVImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	src.SetNRGBA(2, 1, color.NRGBA{0, 0, 255, 255})

	hsv := NewHSVImage(src)
	if hsv.Width != 3 || hsv.Height != 2 {
		t.Fatalf("size = %dx%d, want 3x2", hsv.Width, hsv.Height)
	}
	if got := hsv.At(0, 0); got != (HSV{0, 255, 255}) {
		t.Errorf("At(0,0) = %+v, want red", got)
	}
	if got := hsv.At(2, 1); got != (HSV{120, 255, 255}) {
		t.Errorf("At(2,1) = %+v, want blue", got)
	}
	if got := hsv.At(1, 0); got != (HSV{}) {
		t.Errorf("At(1,0) = %+v, want zero", got)
	}
}

func TestSampleColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Set(4, 5, color.RGBA{255, 255, 0, 255})

	res, err := SampleColor(img, 4, 5)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}
	if res.Hex != "#ffff00" {
		t.Errorf("Hex = %s, want #ffff00", res.Hex)
	}
	if res.RGB != (RGBColor{255, 255, 0}) {
		t.Errorf("RGB = %+v", res.RGB)
	}
	if res.HSV != (HSV{30, 255, 255}) {
		t.Errorf("HSV = %+v, want {30 255 255}", res.HSV)
	}

	for _, pt := range []image.Point{{-1, 0}, {0, -1}, {10, 0}, {0, 10}} {
		if _, err := SampleColor(img, pt.X, pt.Y); err == nil {
			t.Errorf("SampleColor(%d,%d) should fail", pt.X, pt.Y)
		}
	}
}

func TestMeanColor(t *testing.T) {
	t.Run("uniform", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
		for i := 0; i < len(img.Pix); i += 4 {
			copy(img.Pix[i:], []uint8{10, 70, 30, 255})
		}
		got, ok := MeanColor(img)
		if !ok || got != (color.NRGBA{10, 70, 30, 255}) {
			t.Errorf("MeanColor = %v, %v", got, ok)
		}
	})

	t.Run("half and half rounds", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 2, 1))
		img.Set(0, 0, color.RGBA{0, 0, 0, 255})
		img.Set(1, 0, color.RGBA{255, 101, 3, 255})
		got, ok := MeanColor(img)
		if !ok || got != (color.NRGBA{128, 51, 2, 255}) {
			t.Errorf("MeanColor = %v, %v, want {128 51 2 255}", got, ok)
		}
	})

	t.Run("sub-image offset", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
		img.SetNRGBA(7, 7, color.NRGBA{200, 0, 0, 255})
		sub := img.SubImage(image.Rect(7, 7, 8, 8))
		got, ok := MeanColor(sub)
		if !ok || got.R != 200 {
			t.Errorf("MeanColor(sub) = %v, %v", got, ok)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, ok := MeanColor(&image.NRGBA{}); ok {
			t.Error("MeanColor of empty image should report false")
		}
	})
}
