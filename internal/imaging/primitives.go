package imaging

import (
	"image"

	"github.com/ironsheep/card-tools-mcp/internal/geom"
)

// Contour is the outline of one connected foreground region.
type Contour struct {
	// Points are the region's boundary pixels. Order is unspecified.
	Points []image.Point

	// Area is the region's size in square pixels.
	Area float64
}

// Primitives is the set of low-level image operations the recognizer calls into.
// Implementations are stateless per call.
type Primitives interface {
	// Grayscale converts img to 8-bit luminance.
	Grayscale(img image.Image) *image.Gray

	// GaussianBlur smooths img with a Gaussian of the given standard deviation.
	// A sigma <= 0 returns an unmodified copy.
	GaussianBlur(img *image.Gray, sigma float64) *image.Gray

	// Threshold sets pixels strictly above level to 255 and all others to 0.
	Threshold(img *image.Gray, level uint8) *image.Gray

	// AdaptiveThreshold sets a pixel to 255 when it is brighter than the Gaussian
	// weighted mean of its blockSize x blockSize neighbourhood minus c, else 0.
	AdaptiveThreshold(img *image.Gray, blockSize int, c float64) *image.Gray

	// AbsDiff returns |a - b| per pixel. a and b must have the same size.
	AbsDiff(a, b *image.Gray) (*image.Gray, error)

	// FindContours extracts the outer boundary of every connected foreground
	// region of a binary image.
	FindContours(binary *image.Gray) ([]Contour, error)

	// WarpPerspective produces a size.X x size.Y raster whose pixel (x, y) is
	// sampled from src at h⁻¹(x, y). Pixels mapping outside src are black.
	WarpPerspective(src image.Image, h geom.Homography, size image.Point) (image.Image, error)
}

// Sum returns the sum of all pixel values in img.
func Sum(img *image.Gray) int64 {
	b := img.Bounds()
	var total int64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for _, v := range row {
			total += int64(v)
		}
	}
	return total
}

// normalizeGray returns img itself when its bounds start at (0,0) and its rows are
// packed, otherwise a packed copy with rebased bounds.
func normalizeGray(img *image.Gray) *image.Gray {
	b := img.Bounds()
	if b.Min == (image.Point{}) && img.Stride == b.Dx() {
		return img
	}
	return cloneGray(img)
}

// cloneGray copies img into a packed image with bounds starting at (0,0).
func cloneGray(img *image.Gray) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return out
}
