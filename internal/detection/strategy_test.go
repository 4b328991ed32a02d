package detection

import (
	"testing"
)

func TestGeometricStrategy(t *testing.T) {
	img := createTestImage(160, 120, felt)
	drawDisk(img, 50, 60, 18, redBall)
	drawDisk(img, 115, 55, 18, yellowBall)

	s := NewGeometricStrategy(testConfig())
	if s.Source() != SourceGeometric {
		t.Errorf("Source() = %q", s.Source())
	}

	got, err := s.Detect(prepare(img))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(got), got)
	}
	for _, c := range got {
		if c.Source != SourceGeometric {
			t.Errorf("candidate source = %q", c.Source)
		}
	}
}

func TestSegmentationStrategy_TableOrder(t *testing.T) {
	img := createTestImage(200, 120, felt)
	drawDisk(img, 40, 60, 18, yellowBall)
	drawDisk(img, 150, 60, 18, redBall)

	s := NewSegmentationStrategy(testConfig().Segmentation)
	if s.Source() != SourceSegmented {
		t.Errorf("Source() = %q", s.Source())
	}

	got, err := s.Detect(prepare(img))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(got), got)
	}
	// red precedes yellow in the table, regardless of position.
	if got[0].ColorHint != "red" || got[1].ColorHint != "yellow" {
		t.Errorf("hints = %q, %q; want red, yellow", got[0].ColorHint, got[1].ColorHint)
	}
}
