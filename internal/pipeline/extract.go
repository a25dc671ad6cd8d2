// Package pipeline runs card recognition over a frame: locate corners, order and
// validate them, rectify the card, and match it against the reference set.
//
// Each detected object is processed independently. Failures for one object are
// reported as diagnostics and never abort the rest of the frame.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/card-tools-mcp/internal/corners"
	"github.com/ironsheep/card-tools-mcp/internal/detection"
	"github.com/ironsheep/card-tools-mcp/internal/geom"
	"github.com/ironsheep/card-tools-mcp/internal/rectify"
)

// Extracted is a located and rectified card.
type Extracted struct {
	Corners    corners.Quad
	Homography geom.Homography
	Image      image.Image
}

// Extractor turns an object boundary into a canonical card image.
type Extractor struct {
	Strategy       corners.Strategy
	ErrorThreshold float64
	Rectifier      *rectify.Rectifier
	Detector       *detection.Detector
}

// Extract locates, orders, validates and rectifies one boundary. Errors wrap
// corners.ErrDegenerateBoundary, corners.ErrRejectedNonRectangle or
// rectify.ErrUnrectifiableCorners.
func (e *Extractor) Extract(frame image.Image, b corners.Boundary) (*Extracted, error) {
	raw, err := e.Strategy.Locate(b)
	if err != nil {
		return nil, err
	}

	q := corners.Order(raw)
	if err := corners.Validate(q, e.ErrorThreshold); err != nil {
		return nil, err
	}

	img, h, err := e.Rectifier.Rectify(frame, q)
	if err != nil {
		return nil, err
	}
	return &Extracted{Corners: q, Homography: h, Image: img}, nil
}

// ExtractCards detects the objects in frame and returns every card that extracts
// cleanly, largest object first. Objects that fail extraction are skipped.
func (e *Extractor) ExtractCards(ctx context.Context, frame image.Image) ([]image.Image, error) {
	if e.Detector == nil {
		return nil, errors.New("extractor has no detector")
	}
	candidates, err := e.Detector.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to detect cards: %w", err)
	}

	cards := make([]image.Image, 0, len(candidates))
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ex, err := e.Extract(frame, c.Boundary)
		if err != nil {
			continue
		}
		cards = append(cards, ex.Image)
	}
	return cards, nil
}
