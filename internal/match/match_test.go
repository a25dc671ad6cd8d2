package match

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cardimg "github.com/ironsheep/card-tools-mcp/internal/imaging"
	"github.com/ironsheep/card-tools-mcp/internal/reference"
)

func blank(size int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

func withSquare(size int, r image.Rectangle) *image.Gray {
	img := blank(size)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetGray(x, y, color.Gray{Y: 0})
		}
	}
	return img
}

// sharpParams disables the smoothing that would otherwise wash out small
// synthetic differences.
func sharpParams() Params {
	p := DefaultParams()
	p.PostBlurSigma = 0
	p.DiffBlurSigma = 0
	return p
}

func TestDefaultParams(t *testing.T) {
	assert.Equal(t, Params{
		PreBlurSigma:      2,
		AdaptiveBlockSize: 11,
		AdaptiveC:         1,
		PostBlurSigma:     5,
		DiffBlurSigma:     5,
		DiffThreshold:     200,
	}, DefaultParams())
}

func TestNew_EmptyStore(t *testing.T) {
	_, err := New(cardimg.NewToolkit(), reference.NewStore(nil), DefaultParams())
	assert.ErrorIs(t, err, ErrEmptyReferenceStore)

	var m *Matcher
	_, err = m.Match(blank(10))
	assert.ErrorIs(t, err, ErrEmptyReferenceStore)
}

func TestMatch_ExactCopyScoresZero(t *testing.T) {
	card := withSquare(60, image.Rect(20, 15, 40, 45))
	store := reference.NewStore([]reference.Entry{
		{Label: "Blank", Image: blank(60)},
		{Label: "Square", Image: card},
	})

	m, err := New(cardimg.NewToolkit(), store, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"Blank", "Square"}, m.Labels())

	res, err := m.Match(card)
	require.NoError(t, err)
	assert.Equal(t, Result{Label: "Square", Score: 0}, res)
}

func TestMatch_TieKeepsFirstEntry(t *testing.T) {
	img := withSquare(40, image.Rect(10, 10, 30, 30))
	store := reference.NewStore([]reference.Entry{
		{Label: "First", Image: img},
		{Label: "Second", Image: img},
	})

	m, err := New(cardimg.NewToolkit(), store, DefaultParams())
	require.NoError(t, err)

	res, err := m.Match(img)
	require.NoError(t, err)
	assert.Equal(t, "First", res.Label)
	assert.Zero(t, res.Score)
}

func TestScore_DifferentImagesScorePositive(t *testing.T) {
	m := &Matcher{prims: cardimg.NewToolkit(), params: sharpParams()}

	a := m.Preprocess(withSquare(60, image.Rect(20, 20, 40, 40)))
	b := m.Preprocess(blank(60))

	score, err := m.Score(a, b)
	require.NoError(t, err)
	assert.Greater(t, score, int64(0))

	same, err := m.Score(a, a)
	require.NoError(t, err)
	assert.Zero(t, same)

	_, err = m.Score(a, m.Preprocess(blank(30)))
	assert.Error(t, err)
}

func TestMatch_PicksClosestReference(t *testing.T) {
	store := reference.NewStore([]reference.Entry{
		{Label: "Square", Image: withSquare(60, image.Rect(20, 20, 40, 40))},
		{Label: "Blank", Image: blank(60)},
	})
	m, err := New(cardimg.NewToolkit(), store, sharpParams())
	require.NoError(t, err)

	res, err := m.Match(blank(60))
	require.NoError(t, err)
	assert.Equal(t, "Blank", res.Label)
	assert.Zero(t, res.Score)
}

func TestMatch_ResizesCandidate(t *testing.T) {
	store := reference.NewStore([]reference.Entry{
		{Label: "Square", Image: withSquare(60, image.Rect(20, 20, 40, 40))},
		{Label: "Blank", Image: blank(60)},
	})
	m, err := New(cardimg.NewToolkit(), store, sharpParams())
	require.NoError(t, err)

	res, err := m.Match(blank(30))
	require.NoError(t, err)
	assert.Equal(t, "Blank", res.Label)
}
