package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/golang/geo/r2"

	"github.com/ironsheep/card-tools-mcp/internal/geom"
)

// WarpPerspective resamples src through h into a size.X x size.Y raster.
//
// h maps src coordinates, including any non-zero src.Bounds().Min, to output
// coordinates. Each output pixel (x, y) is read from src at h⁻¹(x, y) with bilinear
// interpolation; neighbours outside src count as black. Gray sources produce *image.Gray, all
// others *image.NRGBA.
func (t *Toolkit) WarpPerspective(src image.Image, h geom.Homography, size image.Point) (image.Image, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("invalid warp size %v", size)
	}
	// The rasters below are re-based to (0,0).
	origin := src.Bounds().Min
	inv, err := h.Mul(geom.Translation(float64(origin.X), float64(origin.Y))).Inverse()
	if err != nil {
		return nil, fmt.Errorf("failed to invert warp matrix: %w", err)
	}

	if g, ok := src.(*image.Gray); ok {
		in := normalizeGray(g)
		out := image.NewGray(image.Rect(0, 0, size.X, size.Y))
		warpChannels(in.Pix, in.Stride, in.Bounds().Dx(), in.Bounds().Dy(), 1, out.Pix, out.Stride, size, inv)
		return out, nil
	}

	in := imaging.Clone(src)
	out := image.NewNRGBA(image.Rect(0, 0, size.X, size.Y))
	warpChannels(in.Pix, in.Stride, in.Bounds().Dx(), in.Bounds().Dy(), 4, out.Pix, out.Stride, size, inv)
	return out, nil
}

// warpChannels fills dst by inverse-mapping every destination pixel into src.
func warpChannels(src []uint8, srcStride, w, h, channels int, dst []uint8, dstStride int, size image.Point, inv geom.Homography) {
	at := func(x, y, ch int) float64 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return float64(src[y*srcStride+x*channels+ch])
	}

	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			p := inv.Apply(r2.Point{X: float64(x), Y: float64(y)})
			if !geom.IsFinite(p) || p.X <= -1 || p.Y <= -1 || p.X >= float64(w) || p.Y >= float64(h) {
				continue
			}

			x0, y0 := int(math.Floor(p.X)), int(math.Floor(p.Y))
			fx, fy := p.X-float64(x0), p.Y-float64(y0)

			for ch := 0; ch < channels; ch++ {
				top := at(x0, y0, ch)*(1-fx) + at(x0+1, y0, ch)*fx
				bottom := at(x0, y0+1, ch)*(1-fx) + at(x0+1, y0+1, ch)*fx
				v := top*(1-fy) + bottom*fy
				dst[y*dstStride+x*channels+ch] = uint8(math.Min(255, math.Round(v)))
			}
		}
	}
}
