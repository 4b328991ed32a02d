package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/gofont/goregular"
)

// Mark is one circle to draw on an annotated frame.
type Mark struct {
	X, Y, R int
	Label   string
}

// EncodedImage is a PNG image packed for transport over JSON.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	b := img.Bounds()
	return &EncodedImage{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// labelColors maps ball labels to the outline drawn around them. Labels not
// listed here are drawn in magenta.
var labelColors = map[string]string{
	"red":    "#ff2020",
	"brown":  "#a0522d",
	"green":  "#20e020",
	"blue":   "#2060ff",
	"yellow": "#ffff20",
	"pink":   "#ff80c0",
	"black":  "#202020",
	"white":  "#ffffff",
}

// MarkColor returns the outline color for a label.
func MarkColor(label string) color.RGBA {
	c := color.RGBA{255, 0, 255, 255}
	if hex, ok := labelColors[label]; ok {
		if cf, err := colorful.Hex(hex); err == nil {
			r, g, b := cf.RGB255()
			c = color.RGBA{r, g, b, 255}
		}
	}
	return c
}

// labelFont is the face used for the "x,y" captions.
var labelFont *truetype.Font

func init() {
	var err error
	labelFont, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

const labelSize = 10

// Annotate draws every mark onto a copy of img: a two-pixel circle outline
// in the label's color, a small cross at the center, and the center
// coordinates as "x,y" just below the cross.
func Annotate(img image.Image, marks []Mark) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	dc := gg.NewContextForRGBA(out)
	dc.SetFontFace(truetype.NewFace(labelFont, &truetype.Options{Size: labelSize}))

	for _, m := range marks {
		// Pixel centers sit at +0.5 in gg's coordinate space.
		cx, cy := float64(m.X)+0.5, float64(m.Y)+0.5

		dc.SetColor(MarkColor(m.Label))
		dc.SetLineWidth(2)
		dc.DrawCircle(cx, cy, float64(m.R))
		dc.Stroke()

		dc.SetLineWidth(1)
		dc.DrawLine(cx-3.5, cy, cx+3.5, cy)
		dc.Stroke()
		dc.DrawLine(cx, cy-3.5, cx, cy+3.5)
		dc.Stroke()

		drawLabel(dc, fmt.Sprintf("%d,%d", m.X, m.Y), float64(m.X-8), float64(m.Y+5))
	}
	return out
}

// drawLabel writes text in white on a translucent black box whose top-left
// corner is (x, y).
func drawLabel(dc *gg.Context, text string, x, y float64) {
	w, h := dc.MeasureString(text)
	dc.SetRGBA(0, 0, 0, 0.7)
	dc.DrawRectangle(x-1, y-1, w+2, h+3)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(text, x, y, 0, 1)
}
