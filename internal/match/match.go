// Package match identifies a rectified card by comparing it against every reference
// image and picking the one with the smallest difference score.
package match

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	cardimg "github.com/ironsheep/card-tools-mcp/internal/imaging"
	"github.com/ironsheep/card-tools-mcp/internal/reference"
)

// ErrEmptyReferenceStore is returned when there is nothing to match against.
var ErrEmptyReferenceStore = errors.New("empty reference store")

// Params controls preprocessing and scoring.
type Params struct {
	PreBlurSigma      float64 `json:"pre_blur_sigma"`
	AdaptiveBlockSize int     `json:"adaptive_block_size"`
	AdaptiveC         float64 `json:"adaptive_c"`
	PostBlurSigma     float64 `json:"post_blur_sigma"`
	DiffBlurSigma     float64 `json:"diff_blur_sigma"`
	DiffThreshold     uint8   `json:"diff_threshold"`
}

// DefaultParams returns the standard preprocessing settings.
func DefaultParams() Params {
	return Params{
		PreBlurSigma:      2,
		AdaptiveBlockSize: 11,
		AdaptiveC:         1,
		PostBlurSigma:     5,
		DiffBlurSigma:     5,
		DiffThreshold:     200,
	}
}

// Result is the outcome of matching one card.
type Result struct {
	Label string `json:"label"`
	Score int64  `json:"score"`
}

type prepared struct {
	label string
	img   *image.Gray
}

// Matcher holds the preprocessed reference set. It is safe for concurrent use:
// references are prepared once in New and never modified.
type Matcher struct {
	prims  cardimg.Primitives
	params Params
	refs   []prepared
}

// New preprocesses every reference in store.
func New(prims cardimg.Primitives, store *reference.Store, params Params) (*Matcher, error) {
	if store.Len() == 0 {
		return nil, ErrEmptyReferenceStore
	}

	m := &Matcher{prims: prims, params: params}
	for _, e := range store.Entries() {
		m.refs = append(m.refs, prepared{label: e.Label, img: m.Preprocess(e.Image)})
	}
	return m, nil
}

// Len returns the number of references.
func (m *Matcher) Len() int { return len(m.refs) }

// Labels returns the reference labels in match order.
func (m *Matcher) Labels() []string {
	labels := make([]string, len(m.refs))
	for i, r := range m.refs {
		labels[i] = r.label
	}
	return labels
}

// Preprocess normalizes an image for comparison: grayscale, blur, adaptive
// threshold, blur.
func (m *Matcher) Preprocess(img image.Image) *image.Gray {
	p := m.params
	g := m.prims.Grayscale(img)
	g = m.prims.GaussianBlur(g, p.PreBlurSigma)
	g = m.prims.AdaptiveThreshold(g, p.AdaptiveBlockSize, p.AdaptiveC)
	return m.prims.GaussianBlur(g, p.PostBlurSigma)
}

// Score returns the difference between two preprocessed images: the pixel sum of
// their blurred, thresholded absolute difference. Identical images score 0.
func (m *Matcher) Score(a, b *image.Gray) (int64, error) {
	diff, err := m.prims.AbsDiff(a, b)
	if err != nil {
		return 0, err
	}
	diff = m.prims.GaussianBlur(diff, m.params.DiffBlurSigma)
	diff = m.prims.Threshold(diff, m.params.DiffThreshold)
	return cardimg.Sum(diff), nil
}

// Match returns the reference with the lowest score for img. Ties keep the
// earliest reference.
func (m *Matcher) Match(img image.Image) (Result, error) {
	if m == nil || len(m.refs) == 0 {
		return Result{}, ErrEmptyReferenceStore
	}

	candidate := m.Preprocess(img)
	resized := map[image.Point]*image.Gray{candidate.Bounds().Size(): candidate}

	best := Result{Score: -1}
	for _, ref := range m.refs {
		size := ref.img.Bounds().Size()
		c, ok := resized[size]
		if !ok {
			c = m.prims.Grayscale(imaging.Resize(candidate, size.X, size.Y, imaging.Linear))
			resized[size] = c
		}

		score, err := m.Score(c, ref.img)
		if err != nil {
			return Result{}, fmt.Errorf("failed to score against %q: %w", ref.label, err)
		}
		if best.Score < 0 || score < best.Score {
			best = Result{Label: ref.label, Score: score}
		}
	}
	return best, nil
}
