// Package pipeline wires preprocessing, both detection strategies and the
// reconciler into a single per-frame Detect call.
//
// A Pipeline is built once from a validated config.Config and then used for
// any number of frames. It holds no per-frame state, so Detect may be called
// from several goroutines at once.
package pipeline

import (
	"fmt"
	"image"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/snooker-vision/internal/config"
	"github.com/ironsheep/snooker-vision/internal/detection"
	"github.com/ironsheep/snooker-vision/internal/imaging"
	"github.com/ironsheep/snooker-vision/internal/logging"
)

// Pipeline detects balls in camera frames.
type Pipeline struct {
	cfg        config.Config
	strategies []detection.Strategy
	segmenter  *detection.Segmenter
	classifier *detection.Classifier
	reconciler *detection.Reconciler
	logger     *zap.SugaredLogger
}

// New validates cfg and builds a Pipeline from a private copy of it.
// A nil logger discards all output.
func New(cfg config.Config, logger *zap.SugaredLogger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	cfg = cfg.Clone()

	classifier := detection.NewClassifier(cfg.Classifier)
	return &Pipeline{
		cfg: cfg,
		strategies: []detection.Strategy{
			detection.NewGeometricStrategy(cfg),
			detection.NewSegmentationStrategy(cfg.Segmentation),
		},
		segmenter:  detection.NewSegmenter(cfg.Segmentation),
		classifier: classifier,
		reconciler: detection.NewReconciler(cfg.MinCenterDistance, detection.RadiusRange{
			Min: cfg.Circles.MinRadius,
			Max: cfg.Circles.MaxRadius,
		}, classifier),
		logger:     logging.OrNop(logger),
	}, nil
}

// Config returns a copy of the configuration the pipeline was built with.
func (p *Pipeline) Config() config.Config {
	return p.cfg.Clone()
}

// Classifier returns the pipeline's classifier.
func (p *Pipeline) Classifier() *detection.Classifier {
	return p.classifier
}

// Segmenter returns the segmenter built from the pipeline's color table.
func (p *Pipeline) Segmenter() *detection.Segmenter {
	return p.segmenter
}

// Prepare checks frame and produces the shared grayscale, blurred and HSV
// views used by every stage.
func (p *Pipeline) Prepare(frame image.Image) (*imaging.Prepared, error) {
	if frame == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidFrame)
	}
	if frame.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrInvalidFrame, frame.Bounds())
	}
	return imaging.Prepare(frame, p.cfg.Preprocess), nil
}

// Detect returns the balls found in frame, sorted by (x, y).
//
// # Algorithm
//
//  1. Prepare grayscale, blurred and HSV views of the frame.
//  2. Run the geometric and segmentation strategies concurrently.
//  3. Merge both candidate sets with the reconciler, which classifies,
//     groups and resolves colors.
//
// A frame without balls yields an empty, non-nil slice. A nil or empty
// frame yields ErrInvalidFrame.
func (p *Pipeline) Detect(frame image.Image) ([]detection.BallDetection, error) {
	prepared, err := p.Prepare(frame)
	if err != nil {
		return nil, err
	}

	cands, err := p.Candidates(prepared)
	if err != nil {
		return nil, err
	}

	geom := cands[detection.SourceGeometric]
	seg := cands[detection.SourceSegmented]
	balls := p.reconciler.Merge(geom, seg, prepared.Frame)

	p.logger.Debugw("detected balls",
		"width", prepared.Bounds().Dx(),
		"height", prepared.Bounds().Dy(),
		"geometric", len(geom),
		"segmented", len(seg),
		"balls", len(balls),
	)
	return balls, nil
}

// Candidates runs every strategy on prepared and returns their raw
// candidates keyed by source.
func (p *Pipeline) Candidates(prepared *imaging.Prepared) (map[detection.Source][]detection.Candidate, error) {
	results := make([][]detection.Candidate, len(p.strategies))

	var g errgroup.Group
	for i, s := range p.strategies {
		i, s := i, s
		g.Go(func() error {
			cands, err := s.Detect(prepared)
			if err != nil {
				return fmt.Errorf("%s strategy: %w", s.Source(), err)
			}
			results[i] = cands
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[detection.Source][]detection.Candidate, len(p.strategies))
	for i, s := range p.strategies {
		out[s.Source()] = append(out[s.Source()], results[i]...)
		p.logger.Debugw("strategy finished", "source", s.Source(), "candidates", len(results[i]))
	}
	return out, nil
}
