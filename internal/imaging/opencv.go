//go:build gocv

package imaging

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/card-tools-mcp/internal/geom"
)

// OpenCV implements Primitives with gocv. Build with -tags gocv.
//
// Conversions between Go images and OpenCV matrices can fail; the gray-level
// operations fall back to the pure-Go Toolkit when they do.
type OpenCV struct {
	fallback *Toolkit
}

// NewOpenCV returns an OpenCV-backed Primitives implementation.
func NewOpenCV() *OpenCV {
	return &OpenCV{fallback: NewToolkit()}
}

// Available reports whether the OpenCV backend was compiled in.
func Available() bool { return true }

// NewPrimitives returns the backend registered under name: "go" or "opencv".
func NewPrimitives(name string) (Primitives, error) {
	switch name {
	case "", "go":
		return NewToolkit(), nil
	case "opencv":
		return NewOpenCV(), nil
	default:
		return nil, fmt.Errorf("unknown imaging backend %q", name)
	}
}

func (o *OpenCV) Grayscale(img image.Image) *image.Gray {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return o.fallback.Grayscale(img)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.CvtColor(src, &dst, gocv.ColorRGBToGray)
	return o.toGray(dst, func() *image.Gray { return o.fallback.Grayscale(img) })
}

func (o *OpenCV) GaussianBlur(img *image.Gray, sigma float64) *image.Gray {
	if sigma <= 0 {
		return cloneGray(img)
	}
	return o.unary(img, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.GaussianBlur(src, dst, image.Point{}, sigma, sigma, gocv.BorderDefault)
	}, func() *image.Gray { return o.fallback.GaussianBlur(img, sigma) })
}

func (o *OpenCV) Threshold(img *image.Gray, level uint8) *image.Gray {
	return o.unary(img, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.Threshold(src, dst, float32(level), 255, gocv.ThresholdBinary)
	}, func() *image.Gray { return o.fallback.Threshold(img, level) })
}

func (o *OpenCV) AdaptiveThreshold(img *image.Gray, blockSize int, c float64) *image.Gray {
	if blockSize < 3 {
		blockSize = 3
	}
	if blockSize%2 == 0 {
		blockSize++
	}
	return o.unary(img, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.AdaptiveThreshold(src, dst, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary, blockSize, float32(c))
	}, func() *image.Gray { return o.fallback.AdaptiveThreshold(img, blockSize, c) })
}

func (o *OpenCV) AbsDiff(a, b *image.Gray) (*image.Gray, error) {
	if a.Bounds().Size() != b.Bounds().Size() {
		return nil, fmt.Errorf("size mismatch: %v vs %v", a.Bounds().Size(), b.Bounds().Size())
	}
	ma, err := gocv.ImageGrayToMatGray(normalizeGray(a))
	if err != nil {
		return o.fallback.AbsDiff(a, b)
	}
	defer ma.Close()
	mb, err := gocv.ImageGrayToMatGray(normalizeGray(b))
	if err != nil {
		return o.fallback.AbsDiff(a, b)
	}
	defer mb.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.AbsDiff(ma, mb, &dst)
	return o.toGray(dst, func() *image.Gray {
		g, _ := o.fallback.AbsDiff(a, b)
		return g
	}), nil
}

func (o *OpenCV) FindContours(binary *image.Gray) ([]Contour, error) {
	src, err := gocv.ImageGrayToMatGray(normalizeGray(binary))
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	found := gocv.FindContours(src, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer found.Close()

	contours := make([]Contour, 0, found.Size())
	for i := 0; i < found.Size(); i++ {
		pv := found.At(i)
		contours = append(contours, Contour{
			Points: pv.ToPoints(),
			Area:   gocv.ContourArea(pv),
		})
	}
	return contours, nil
}

func (o *OpenCV) WarpPerspective(src image.Image, h geom.Homography, size image.Point) (image.Image, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("invalid warp size %v", size)
	}

	// The Mat conversions below drop the src origin.
	origin := src.Bounds().Min
	h = h.Mul(geom.Translation(float64(origin.X), float64(origin.Y)))

	m := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	defer m.Close()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.SetDoubleAt(r, c, h[r*3+c])
		}
	}

	var in gocv.Mat
	var err error
	if g, ok := src.(*image.Gray); ok {
		in, err = gocv.ImageGrayToMatGray(normalizeGray(g))
	} else {
		in, err = gocv.ImageToMatRGB(src)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer in.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.WarpPerspective(in, &dst, m, size)

	out, err := dst.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert warped image: %w", err)
	}
	return out, nil
}

// unary runs op on img, falling back when a conversion fails.
func (o *OpenCV) unary(img *image.Gray, op func(src gocv.Mat, dst *gocv.Mat), fallback func() *image.Gray) *image.Gray {
	src, err := gocv.ImageGrayToMatGray(normalizeGray(img))
	if err != nil {
		return fallback()
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	op(src, &dst)
	return o.toGray(dst, fallback)
}

// toGray converts a single-channel matrix back into a packed *image.Gray.
func (o *OpenCV) toGray(m gocv.Mat, fallback func() *image.Gray) *image.Gray {
	img, err := m.ToImage()
	if err != nil {
		return fallback()
	}
	if g, ok := img.(*image.Gray); ok {
		return normalizeGray(g)
	}
	return redChannel(img)
}
