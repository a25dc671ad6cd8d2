package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"
)

// Toolkit implements Primitives in pure Go.
//
// Grayscale and blur come from disintegration/imaging, thresholding and differencing
// from bild. Contour extraction and perspective warping are implemented here.
type Toolkit struct{}

// NewToolkit returns a pure-Go Primitives implementation.
func NewToolkit() *Toolkit {
	return &Toolkit{}
}

// Grayscale converts img to luminance using ITU-R BT.601 weights.
func (t *Toolkit) Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return cloneGray(g)
	}
	return redChannel(imaging.Grayscale(img))
}

// GaussianBlur blurs img with the given sigma.
func (t *Toolkit) GaussianBlur(img *image.Gray, sigma float64) *image.Gray {
	if sigma <= 0 {
		return cloneGray(img)
	}
	return redChannel(imaging.Blur(img, sigma))
}

// Threshold binarizes img: values strictly above level become 255.
func (t *Toolkit) Threshold(img *image.Gray, level uint8) *image.Gray {
	out := adjust.Apply(img, func(c color.RGBA) color.RGBA {
		if c.R > level {
			return color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		return color.RGBA{A: 255}
	})
	return redChannel(out)
}

// AdaptiveThreshold binarizes img against a Gaussian-weighted local mean.
//
// The neighbourhood weight uses the same sigma OpenCV derives from the block size,
// sigma = 0.3*((blockSize-1)/2 - 1) + 0.8, so blockSize 11 gives sigma 2.
func (t *Toolkit) AdaptiveThreshold(img *image.Gray, blockSize int, c float64) *image.Gray {
	src := normalizeGray(img)
	mean := t.GaussianBlur(src, blockSigma(blockSize))

	out := image.NewGray(src.Bounds())
	for i, v := range src.Pix {
		if float64(v) > float64(mean.Pix[i])-c {
			out.Pix[i] = 255
		}
	}
	return out
}

// AbsDiff returns the per-pixel absolute difference of a and b.
func (t *Toolkit) AbsDiff(a, b *image.Gray) (*image.Gray, error) {
	if a.Bounds().Size() != b.Bounds().Size() {
		return nil, fmt.Errorf("size mismatch: %v vs %v", a.Bounds().Size(), b.Bounds().Size())
	}
	return redChannel(blend.Difference(normalizeGray(a), normalizeGray(b))), nil
}

// blockSigma converts an adaptive-threshold block size into a Gaussian sigma.
func blockSigma(blockSize int) float64 {
	if blockSize < 3 {
		blockSize = 3
	}
	return 0.3*(float64(blockSize-1)*0.5-1) + 0.8
}

// redChannel extracts the first colour channel of a 4-channel image into a packed
// *image.Gray. It is used on images whose channels are known to be equal.
func redChannel(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	var pix []uint8
	var stride int
	switch src := img.(type) {
	case *image.NRGBA:
		pix, stride = src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride
	case *image.RGBA:
		pix, stride = src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				out.SetGray(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray))
			}
		}
		return out
	}

	for y := 0; y < b.Dy(); y++ {
		row := pix[y*stride:]
		for x := 0; x < b.Dx(); x++ {
			out.Pix[y*out.Stride+x] = row[x*4]
		}
	}
	return out
}
