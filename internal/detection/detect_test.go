package detection

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cardimg "github.com/ironsheep/card-tools-mcp/internal/imaging"
)

// createTestImage creates a dark frame with bright filled rectangles.
func createTestImage(width, height int, rects ...image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{20, 60, 20, 255})
		}
	}
	for _, r := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.Set(x, y, color.RGBA{250, 250, 250, 255})
			}
		}
	}
	return img
}

func testDetector() *Detector {
	d := NewDetector(cardimg.NewToolkit())
	d.AreaLower = 100
	d.AreaUpper = 20000
	return d
}

func TestNewDetector_Defaults(t *testing.T) {
	d := NewDetector(cardimg.NewToolkit())
	assert.Equal(t, uint8(120), d.Threshold)
	assert.Equal(t, 400000.0, d.AreaLower)
	assert.Equal(t, 630000.0, d.AreaUpper)
	assert.Zero(t, d.BlurSigma)
}

func TestDetect_SortsByAreaAndFilters(t *testing.T) {
	img := createTestImage(300, 200,
		image.Rect(10, 10, 40, 40),    // 900
		image.Rect(100, 20, 200, 120), // 10000
		image.Rect(250, 10, 255, 15),  // 25, below band
	)

	cs, err := testDetector().Detect(img)
	require.NoError(t, err)
	require.Len(t, cs, 2)

	assert.Equal(t, 10000.0, cs[0].Area)
	assert.Equal(t, Bounds{X1: 100, Y1: 20, X2: 199, Y2: 119}, cs[0].Bounds)
	assert.Equal(t, 900.0, cs[1].Area)

	bs := Boundaries(cs)
	require.Len(t, bs, 2)
	assert.Len(t, bs[0], 2*100+2*98)
}

func TestDetect_UpperBoundExcludes(t *testing.T) {
	img := createTestImage(300, 200, image.Rect(0, 0, 200, 150))
	cs, err := testDetector().Detect(img)
	require.NoError(t, err)
	assert.Empty(t, cs)
}

func TestDetect_KeepsFrameOffset(t *testing.T) {
	full := createTestImage(100, 100, image.Rect(40, 40, 70, 70))
	sub := full.SubImage(image.Rect(20, 20, 100, 100))

	cs, err := testDetector().Detect(sub)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Equal(t, Bounds{X1: 40, Y1: 40, X2: 69, Y2: 69}, cs[0].Bounds)
	for _, p := range cs[0].Boundary {
		assert.True(t, p.X >= 40 && p.X <= 69 && p.Y >= 40 && p.Y <= 69, "point %v", p)
	}
}

func TestDetect_InvalidBand(t *testing.T) {
	d := testDetector()
	d.AreaUpper = d.AreaLower
	_, err := d.Detect(createTestImage(10, 10))
	assert.Error(t, err)
}
