package geom

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when a homography has no inverse.
var ErrSingular = errors.New("singular homography")

// Homography is a 3x3 projective transform stored in row-major order.
//
// A point (x, y) maps to
//
//	x' = (h0*x + h1*y + h2) / (h6*x + h7*y + h8)
//	y' = (h3*x + h4*y + h5) / (h6*x + h7*y + h8)
type Homography [9]float64

// Identity returns the identity transform.
func Identity() Homography {
	return Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Apply maps p through h. Points on the line at infinity map to NaN/Inf coordinates.
func (h Homography) Apply(p r2.Point) r2.Point {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	return r2.Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}
}

// Dense returns h as a gonum matrix.
func (h Homography) Dense() *mat.Dense {
	data := make([]float64, 9)
	copy(data, h[:])
	return mat.NewDense(3, 3, data)
}

// Inverse returns the transform that undoes h.
func (h Homography) Inverse() (Homography, error) {
	var inv mat.Dense
	if err := inv.Inverse(h.Dense()); err != nil {
		return Homography{}, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	var out Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			v := inv.At(r, c)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Homography{}, ErrSingular
			}
			out[r*3+c] = v
		}
	}
	return out, nil
}

// Translation returns the transform that shifts points by (dx, dy).
func Translation(dx, dy float64) Homography {
	return Homography{1, 0, dx, 0, 1, dy, 0, 0, 1}
}

// Mul returns the composition h·g, which applies g first and then h.
func (h Homography) Mul(g Homography) Homography {
	var prod mat.Dense
	prod.Mul(h.Dense(), g.Dense())

	var out Homography
	copy(out[:], prod.RawMatrix().Data)
	return out
}
