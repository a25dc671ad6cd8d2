package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/card-tools-mcp/internal/cards"
	"github.com/ironsheep/card-tools-mcp/internal/corners"
	"github.com/ironsheep/card-tools-mcp/internal/detection"
	"github.com/ironsheep/card-tools-mcp/internal/match"
	"github.com/ironsheep/card-tools-mcp/internal/rectify"
)

// Diagnostic kinds.
const (
	KindDegenerateBoundary   = "degenerate_boundary"
	KindRejectedNonRectangle = "rejected_non_rectangle"
	KindUnrectifiableCorners = "unrectifiable_corners"
	KindMatchFailed          = "match_failed"
)

// MatchResult is a recognized card.
type MatchResult struct {
	// Index is the position of the object's boundary in the frame's input.
	Index   int          `json:"index"`
	Label   string       `json:"label"`
	Score   int64        `json:"score"`
	Corners corners.Quad `json:"corners"`

	// Card is set when Label names a standard playing card.
	Card *cards.Card `json:"card,omitempty"`
}

// Diagnostic records why an object produced no result.
type Diagnostic struct {
	Index   int    `json:"index"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// FrameResult is the outcome of one frame. Results and Skipped are in boundary
// order.
type FrameResult struct {
	FrameID uuid.UUID     `json:"frame_id"`
	Results []MatchResult `json:"results"`
	Skipped []Diagnostic  `json:"skipped"`
}

// Recognizer identifies cards in frames. It is safe for concurrent use.
type Recognizer struct {
	extractor *Extractor
	matcher   *match.Matcher
	workers   int
	logger    *zap.Logger
}

// New returns a Recognizer. workers <= 0 uses GOMAXPROCS; a nil logger discards
// output.
func New(ex *Extractor, m *match.Matcher, workers int, logger *zap.Logger) (*Recognizer, error) {
	if m == nil || m.Len() == 0 {
		return nil, match.ErrEmptyReferenceStore
	}
	if ex == nil || ex.Strategy == nil || ex.Rectifier == nil {
		return nil, errors.New("incomplete extractor")
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recognizer{extractor: ex, matcher: m, workers: workers, logger: logger}, nil
}

// Extractor returns the recognizer's extractor.
func (r *Recognizer) Extractor() *Extractor { return r.extractor }

// Labels returns the reference labels in match order.
func (r *Recognizer) Labels() []string { return r.matcher.Labels() }

// Recognize detects objects in frame and identifies each one.
func (r *Recognizer) Recognize(ctx context.Context, frame image.Image) (*FrameResult, error) {
	if r.extractor.Detector == nil {
		return nil, errors.New("recognizer has no detector")
	}
	candidates, err := r.extractor.Detector.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to detect cards: %w", err)
	}
	r.logger.Debug("detected candidates", zap.Int("count", len(candidates)))
	return r.ProcessBoundaries(ctx, frame, detection.Boundaries(candidates))
}

type outcome struct {
	result *MatchResult
	diag   *Diagnostic
}

// ProcessBoundaries identifies the object behind each boundary. Objects are
// processed concurrently, at most workers at a time; only context cancellation
// fails the call.
func (r *Recognizer) ProcessBoundaries(ctx context.Context, frame image.Image, boundaries []corners.Boundary) (*FrameResult, error) {
	start := time.Now()
	frameID := uuid.New()
	logger := r.logger.With(zap.String("frame_id", frameID.String()))

	outcomes := make([]outcome, len(boundaries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, b := range boundaries {
		i, b := i, b
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.process(i, frame, b)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &FrameResult{FrameID: frameID, Results: []MatchResult{}, Skipped: []Diagnostic{}}
	for _, o := range outcomes {
		if o.result != nil {
			res.Results = append(res.Results, *o.result)
			continue
		}
		logger.Debug("skipped object",
			zap.Int("index", o.diag.Index),
			zap.String("kind", o.diag.Kind),
			zap.Error(o.diag.Err))
		res.Skipped = append(res.Skipped, *o.diag)
	}

	logger.Info("processed frame",
		zap.Int("objects", len(boundaries)),
		zap.Int("recognized", len(res.Results)),
		zap.Int("skipped", len(res.Skipped)),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

func (r *Recognizer) process(i int, frame image.Image, b corners.Boundary) outcome {
	ex, err := r.extractor.Extract(frame, b)
	if err != nil {
		return outcome{diag: diagnose(i, err)}
	}

	m, err := r.matcher.Match(ex.Image)
	if err != nil {
		return outcome{diag: &Diagnostic{Index: i, Kind: KindMatchFailed, Message: err.Error(), Err: err}}
	}

	res := &MatchResult{Index: i, Label: m.Label, Score: m.Score, Corners: ex.Corners}
	if c, err := cards.ParseLabel(m.Label); err == nil {
		res.Card = &c
	}
	return outcome{result: res}
}

// diagnose classifies an extraction error.
func diagnose(i int, err error) *Diagnostic {
	kind := KindMatchFailed
	switch {
	case errors.Is(err, corners.ErrDegenerateBoundary):
		kind = KindDegenerateBoundary
	case errors.Is(err, corners.ErrRejectedNonRectangle):
		kind = KindRejectedNonRectangle
	case errors.Is(err, rectify.ErrUnrectifiableCorners):
		kind = KindUnrectifiableCorners
	}
	return &Diagnostic{Index: i, Kind: kind, Message: err.Error(), Err: err}
}
