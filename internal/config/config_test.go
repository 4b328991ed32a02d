package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	t.Run("empty object keeps defaults", func(t *testing.T) {
		cfg, err := Parse([]byte(`{}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if diff := cmp.Diff(Default(), cfg); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("overrides scalar fields", func(t *testing.T) {
		cfg, err := Parse([]byte(`{"min_center_distance": 35, "circles": {"min_radius": 10, "max_radius": 15}}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if cfg.MinCenterDistance != 35 {
			t.Errorf("MinCenterDistance = %g, want 35", cfg.MinCenterDistance)
		}
		if cfg.Circles.MinRadius != 10 || cfg.Circles.MaxRadius != 15 {
			t.Errorf("radii = %d-%d, want 10-15", cfg.Circles.MinRadius, cfg.Circles.MaxRadius)
		}
		// Untouched siblings keep defaults.
		if cfg.Circles.VoteThreshold != Default().Circles.VoteThreshold {
			t.Errorf("VoteThreshold = %d, want default", cfg.Circles.VoteThreshold)
		}
	})

	t.Run("replaces color table wholesale", func(t *testing.T) {
		doc := `{"classifier": {"ranges": [{"label": "pink", "ranges": [{"low": [150, 50, 50], "high": [170, 255, 255]}]}]}}`
		cfg, err := Parse([]byte(doc))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		want := []ColorRange{{Label: "pink", Ranges: []HSVBounds{{Low: [3]int{150, 50, 50}, High: [3]int{170, 255, 255}}}}}
		if diff := cmp.Diff(want, cfg.Classifier.Ranges); diff != "" {
			t.Errorf("classifier ranges mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(Default().Segmentation.Ranges, cfg.Segmentation.Ranges); diff != "" {
			t.Errorf("segmentation ranges should keep defaults (-want +got):\n%s", diff)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		_, err := Parse([]byte(`{"min_centre_distance": 20}`))
		if err == nil {
			t.Fatal("expected error for unknown field")
		}
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		_, err := Parse([]byte(`{"min_center_distance": 0}`))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("Parse error = %v, want ErrInvalidConfig", err)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{"zero min distance", func(c *Config) { c.MinCenterDistance = 0 }, "min_center_distance"},
		{"zero gain", func(c *Config) { c.Preprocess.Gain = 0 }, "preprocess.gain"},
		{"bad smoothing", func(c *Config) { c.Preprocess.Smoothing = "box" }, "preprocess.smoothing"},
		{"inverted radii", func(c *Config) { c.Circles.MinRadius, c.Circles.MaxRadius = 30, 10 }, "max_radius"},
		{"inverted edges", func(c *Config) { c.Circles.EdgeLow, c.Circles.EdgeHigh = 50, 10 }, "edge thresholds"},
		{"negative max circles", func(c *Config) { c.Circles.MaxCircles = -1 }, "max_circles"},
		{"inverted area", func(c *Config) { c.Segmentation.MinArea, c.Segmentation.MaxArea = 500, 100 }, "area window"},
		{"negative roi", func(c *Config) { c.Classifier.ROIHalfSize = -1 }, "roi_half_size"},
		{"reserved label", func(c *Config) { c.Classifier.Ranges[0].Label = ReservedLabel }, "reserved"},
		{"duplicate label", func(c *Config) { c.Classifier.Ranges[1].Label = c.Classifier.Ranges[0].Label }, "duplicate"},
		{"hue out of range", func(c *Config) { c.Segmentation.Ranges[0].Ranges[0].High[0] = 200 }, "outside 0-180"},
		{"low above high", func(c *Config) { c.Segmentation.Ranges[1].Ranges[0].Low[0] = 110 }, "h low 110 > high 105"},
		{"three bounds", func(c *Config) {
			r := &c.Classifier.Ranges[0]
			r.Ranges = append(r.Ranges, r.Ranges[0])
		}, "one or two HSV bounds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default().Clone()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidateAggregates(t *testing.T) {
	cfg := Default()
	cfg.MinCenterDistance = -1
	cfg.Preprocess.Gain = 0
	cfg.Classifier.ROIHalfSize = -3

	errs := multierr.Errors(cfg.Validate())
	if len(errs) != 3 {
		t.Fatalf("got %d errors, want 3: %v", len(errs), errs)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := Default()
	clone := orig.Clone()
	clone.Classifier.Ranges[0].Ranges[0].Low[0] = 99
	clone.Segmentation.Ranges[0].Label = "changed"

	if orig.Classifier.Ranges[0].Ranges[0].Low[0] == 99 {
		t.Error("Clone shares classifier bounds with the original")
	}
	if orig.Segmentation.Ranges[0].Label == "changed" {
		t.Error("Clone shares segmentation table with the original")
	}
}

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vision.json")

	cfg := Default()
	cfg.Circles.MaxCircles = 22
	cfg.Preprocess.Smoothing = SmoothingMedian
	if err := cfg.Write(path); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v should wrap os.ErrNotExist", err)
	}
}
