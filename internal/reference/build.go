package reference

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/card-tools-mcp/internal/imaging"
)

// ErrNoCardFound is returned by Build when a reference photograph yields no card.
var ErrNoCardFound = errors.New("no card found")

// CardExtractor finds and rectifies the cards in a frame, largest first.
type CardExtractor interface {
	ExtractCards(ctx context.Context, frame image.Image) ([]image.Image, error)
}

// Build creates one entry per photograph in paths, in the given order. Each photo
// must contain a single card; the largest extracted card is kept and labelled with
// the photo's file stem.
func Build(ctx context.Context, ex CardExtractor, paths []string) (*Store, error) {
	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, err := imaging.Open(path)
		if err != nil {
			return nil, err
		}

		cards, err := ex.ExtractCards(ctx, frame)
		if err != nil {
			return nil, fmt.Errorf("failed to extract card from %s: %w", path, err)
		}
		if len(cards) == 0 {
			return nil, fmt.Errorf("%s: %w", path, ErrNoCardFound)
		}

		entries = append(entries, Entry{Label: LabelFromPath(path), Image: cards[0]})
	}
	return NewStore(entries), nil
}
