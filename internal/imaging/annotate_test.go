package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestMarkColor(t *testing.T) {
	if got := MarkColor("red"); got != (color.RGBA{255, 32, 32, 255}) {
		t.Errorf("MarkColor(red) = %v", got)
	}
	if got := MarkColor("unknown"); got != (color.RGBA{255, 0, 255, 255}) {
		t.Errorf("MarkColor(unknown) = %v, want magenta fallback", got)
	}
}

// near reports whether two colors differ by at most tol per channel.
func near(a, b color.RGBA, tol int) bool {
	d := func(x, y uint8) bool {
		v := int(x) - int(y)
		return v <= tol && v >= -tol
	}
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B)
}

func TestAnnotate(t *testing.T) {
	bg := color.RGBA{10, 70, 30, 255}
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	fillRect(img, img.Bounds(), bg)

	out := Annotate(img, []Mark{{X: 50, Y: 50, R: 20, Label: "yellow"}})

	yellow := MarkColor("yellow")
	tests := []struct {
		name string
		x, y int
	}{
		{"right outline", 70, 50},
		{"top outline", 50, 30},
		{"left outline", 30, 50},
		{"cross center", 50, 50},
		{"cross arm", 47, 50},
	}
	for _, tt := range tests {
		if got := out.RGBAAt(tt.x, tt.y); !near(got, yellow, 16) {
			t.Errorf("%s (%d,%d) = %v, want about %v", tt.name, tt.x, tt.y, got, yellow)
		}
	}

	if out.RGBAAt(5, 5) != bg {
		t.Error("annotation touched pixels far from the mark")
	}
	if out.RGBAAt(60, 40) != bg {
		t.Error("annotation filled the inside of the circle")
	}
	if img.RGBAAt(70, 50) != bg {
		t.Error("Annotate modified the source image")
	}
}

func TestAnnotate_Label(t *testing.T) {
	bg := color.RGBA{10, 70, 30, 255}
	img := image.NewRGBA(image.Rect(0, 0, 120, 120))
	fillRect(img, img.Bounds(), bg)

	out := Annotate(img, []Mark{{X: 40, Y: 40, R: 25, Label: "red"}})

	// The caption box starts just below the cross and is darker than felt;
	// some glyph pixels inside it are bright.
	dark, bright := 0, 0
	for y := 46; y < 56; y++ {
		for x := 33; x < 70; x++ {
			c := out.RGBAAt(x, y)
			if c.G < bg.G/2 {
				dark++
			}
			if c.R > 150 && c.G > 150 && c.B > 150 {
				bright++
			}
		}
	}
	if dark == 0 {
		t.Error("caption background not drawn")
	}
	if bright == 0 {
		t.Error("caption text not drawn")
	}
}

func TestAnnotate_OffsetBounds(t *testing.T) {
	bg := color.RGBA{10, 70, 30, 255}
	img := image.NewRGBA(image.Rect(10, 10, 60, 60))
	fillRect(img, img.Bounds(), bg)

	out := Annotate(img, nil)
	if out.Bounds() != image.Rect(0, 0, 50, 50) {
		t.Fatalf("bounds = %v, want origin-0 50x50", out.Bounds())
	}
	if out.RGBAAt(0, 0) != bg {
		t.Errorf("copied pixel = %v, want %v", out.RGBAAt(0, 0), bg)
	}
}

func TestAnnotate_ClipsAtBorder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	// Must not panic when the circle and label leave the frame.
	out := Annotate(img, []Mark{{X: 1, Y: 18, R: 30, Label: "red"}})
	if out.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v", out.Bounds())
	}
}

func TestEncodePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 12, 7))
	enc, err := EncodePNG(img)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if enc.Width != 12 || enc.Height != 7 || enc.MimeType != "image/png" {
		t.Errorf("unexpected metadata: %+v", enc)
	}

	raw, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 12 || decoded.Bounds().Dy() != 7 {
		t.Errorf("decoded size = %v", decoded.Bounds())
	}
}
