// Package rectify maps a card's four ordered corners onto a canonical square.
package rectify

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/card-tools-mcp/internal/corners"
	"github.com/ironsheep/card-tools-mcp/internal/geom"
)

// DefaultSide is the edge length of the canonical card raster.
const DefaultSide = 450

// minArea is the smallest triangle area, in square pixels, that still counts as
// non-collinear.
const minArea = 1e-6

// ErrUnrectifiableCorners is returned when no projective transform maps the corners
// onto the canonical square.
var ErrUnrectifiableCorners = errors.New("unrectifiable corners")

// Warper resamples an image through a homography.
type Warper interface {
	WarpPerspective(src image.Image, h geom.Homography, size image.Point) (image.Image, error)
}

// Compute returns the homography taking the ordered corners TL, TR, BR, BL to
// (0,0), (side,0), (side,side), (0,side).
//
// # Algorithm
//
// With h8 fixed to 1 every correspondence (x, y) -> (u, v) contributes two rows
//
//	x y 1 0 0 0 -ux -uy | u
//	0 0 0 x y 1 -vx -vy | v
//
// and the resulting 8x8 system is solved with gonum.
func Compute(q corners.Quad, side int) (geom.Homography, error) {
	if side <= 0 {
		return geom.Homography{}, fmt.Errorf("%w: side %d", ErrUnrectifiableCorners, side)
	}
	if err := checkCorners(q); err != nil {
		return geom.Homography{}, err
	}

	s := float64(side)
	dst := [4]r2.Point{{X: 0, Y: 0}, {X: s, Y: 0}, {X: s, Y: s}, {X: 0, Y: s}}

	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i, p := range q {
		u, v := dst[i].X, dst[i].Y
		a.SetRow(2*i, []float64{p.X, p.Y, 1, 0, 0, 0, -u * p.X, -u * p.Y})
		a.SetRow(2*i+1, []float64{0, 0, 0, p.X, p.Y, 1, -v * p.X, -v * p.Y})
		b.SetVec(2*i, u)
		b.SetVec(2*i+1, v)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return geom.Homography{}, fmt.Errorf("%w: %v", ErrUnrectifiableCorners, err)
	}

	var h geom.Homography
	for i := 0; i < 8; i++ {
		h[i] = x.AtVec(i)
		if math.IsNaN(h[i]) || math.IsInf(h[i], 0) {
			return geom.Homography{}, fmt.Errorf("%w: non-finite transform", ErrUnrectifiableCorners)
		}
	}
	h[8] = 1
	return h, nil
}

// checkCorners rejects coincident and collinear corner sets.
func checkCorners(q corners.Quad) error {
	for i := 0; i < 4; i++ {
		if !geom.IsFinite(q[i]) {
			return fmt.Errorf("%w: non-finite corner %v", ErrUnrectifiableCorners, q[i])
		}
		for j := i + 1; j < 4; j++ {
			if q[i] == q[j] {
				return fmt.Errorf("%w: corners %d and %d coincide at %v", ErrUnrectifiableCorners, i, j, q[i])
			}
		}
	}
	for i := 0; i < 4; i++ {
		a, b, c := q[i], q[(i+1)%4], q[(i+2)%4]
		if geom.TriangleArea(a, b, c) < minArea {
			return fmt.Errorf("%w: corners %v %v %v are collinear", ErrUnrectifiableCorners, a, b, c)
		}
	}
	return nil
}

// Rectifier warps card regions to a Side x Side raster.
type Rectifier struct {
	Side   int
	Warper Warper
}

// New returns a Rectifier producing side x side images through w.
func New(w Warper, side int) *Rectifier {
	if side <= 0 {
		side = DefaultSide
	}
	return &Rectifier{Side: side, Warper: w}
}

// Rectify maps the region bounded by the ordered corners q onto the canonical
// square. q must already be in TL, TR, BR, BL order.
func (r *Rectifier) Rectify(src image.Image, q corners.Quad) (image.Image, geom.Homography, error) {
	h, err := Compute(q, r.Side)
	if err != nil {
		return nil, geom.Homography{}, err
	}
	out, err := r.Warper.WarpPerspective(src, h, image.Pt(r.Side, r.Side))
	if err != nil {
		return nil, geom.Homography{}, fmt.Errorf("%w: %v", ErrUnrectifiableCorners, err)
	}
	return out, h, nil
}
