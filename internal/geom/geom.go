// Package geom provides the point and transform primitives shared by the card
// localization and rectification code.
//
// Points are r2.Point values in image coordinates: (0,0) is the top-left pixel,
// X grows rightward and Y grows downward. Rotation follows the standard math frame
// (positive angles rotate counter-clockwise when Y points up), so a positive angle
// appears clockwise on screen. Callers that care about on-screen direction must
// account for the inverted Y axis themselves.
package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// Distance returns the Euclidean distance between a and b.
func Distance(a, b r2.Point) float64 {
	return a.Sub(b).Norm()
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b r2.Point) r2.Point {
	return a.Add(b).Mul(0.5)
}

// Rotate rotates p about pivot by degrees.
//
// The rotation uses the standard formula
//
//	x' = x*cos(t) - y*sin(t)
//	y' = x*sin(t) + y*cos(t)
//
// applied to p relative to pivot. Rotate is pure; p and pivot are not modified.
func Rotate(p r2.Point, degrees float64, pivot r2.Point) r2.Point {
	t := degrees * math.Pi / 180
	sin, cos := math.Sincos(t)
	d := p.Sub(pivot)
	return r2.Point{
		X: d.X*cos - d.Y*sin + pivot.X,
		Y: d.X*sin + d.Y*cos + pivot.Y,
	}
}

// TriangleArea returns the unsigned area of the triangle abc.
// A result near zero means the three points are collinear or coincident.
func TriangleArea(a, b, c r2.Point) float64 {
	return math.Abs(b.Sub(a).Cross(c.Sub(a))) / 2
}

// IsFinite reports whether both coordinates of p are finite numbers.
func IsFinite(p r2.Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
