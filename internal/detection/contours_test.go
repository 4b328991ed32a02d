package detection

import (
	"image"
	"math"
	"testing"

	"github.com/ironsheep/snooker-vision/internal/imaging"
)

// diskMask returns a mask with a filled disk.
func diskMask(w, h, cx, cy, r int) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				m.Pix[y*m.Stride+x] = imaging.MaskOn
			}
		}
	}
	return m
}

func setRect(m *image.Gray, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Pix[y*m.Stride+x] = imaging.MaskOn
		}
	}
}

func TestFindBlobs_Disk(t *testing.T) {
	blobs := FindBlobs(diskMask(100, 100, 50, 40, 20))
	if len(blobs) != 1 {
		t.Fatalf("got %d blobs, want 1", len(blobs))
	}
	b := blobs[0]

	if b.Area < 1200 || b.Area > 1320 {
		t.Errorf("area = %d, want about pi*20^2", b.Area)
	}
	if math.Abs(b.CX-50) > 1e-9 || math.Abs(b.CY-40) > 1e-9 {
		t.Errorf("centroid = (%f,%f), want (50,40)", b.CX, b.CY)
	}
	if c := b.Circularity(); c < 0.9 || c > 1.05 {
		t.Errorf("circularity = %f, want close to 1", c)
	}
	if r := b.EquivalentRadius(); math.Abs(r-20) > 0.5 {
		t.Errorf("equivalent radius = %f, want about 20", r)
	}
	if b.Bounds != image.Rect(30, 20, 71, 61) {
		t.Errorf("bounds = %v", b.Bounds)
	}
}

func TestFindBlobs_ElongatedBarIsNotRound(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 160, 60))
	setRect(m, image.Rect(20, 20, 140, 36))

	blobs := FindBlobs(m)
	if len(blobs) != 1 {
		t.Fatalf("got %d blobs, want 1", len(blobs))
	}
	if blobs[0].Area != 120*16 {
		t.Errorf("area = %d, want %d", blobs[0].Area, 120*16)
	}
	if c := blobs[0].Circularity(); c > 0.5 {
		t.Errorf("bar circularity = %f, want < 0.5", c)
	}
}

func TestFindBlobs_Connectivity(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 20, 20))
	// Two pixels touching only at a corner form one 8-connected blob.
	m.Pix[5*m.Stride+5] = imaging.MaskOn
	m.Pix[6*m.Stride+6] = imaging.MaskOn
	// A separate blob.
	setRect(m, image.Rect(12, 12, 15, 15))

	blobs := FindBlobs(m)
	if len(blobs) != 2 {
		t.Fatalf("got %d blobs, want 2", len(blobs))
	}
	if blobs[0].Area != 2 || blobs[1].Area != 9 {
		t.Errorf("areas = %d, %d, want 2, 9", blobs[0].Area, blobs[1].Area)
	}
}

func TestFindBlobs_TouchingBorder(t *testing.T) {
	// Half a disk cut by the frame edge: the border counts as outside, so
	// the straight cut adds to the perimeter.
	full := FindBlobs(diskMask(100, 100, 50, 50, 20))[0]
	cut := FindBlobs(diskMask(100, 100, 50, 0, 20))[0]

	if cut.Area >= full.Area {
		t.Errorf("cut area %d should be smaller than %d", cut.Area, full.Area)
	}
	if cut.Circularity() >= full.Circularity() {
		t.Errorf("cut circularity %f should be below full %f", cut.Circularity(), full.Circularity())
	}
}

func TestFindBlobs_Empty(t *testing.T) {
	blobs := FindBlobs(image.NewGray(image.Rect(0, 0, 10, 10)))
	if blobs == nil || len(blobs) != 0 {
		t.Errorf("want empty non-nil slice, got %v", blobs)
	}
}

func TestBlob_CircularityZeroPerimeter(t *testing.T) {
	if c := (Blob{Area: 10}).Circularity(); c != 0 {
		t.Errorf("circularity with zero perimeter = %f, want 0", c)
	}
}
