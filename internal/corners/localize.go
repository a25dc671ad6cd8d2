package corners

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/ironsheep/card-tools-mcp/internal/geom"
)

// DefaultAngle is the calibrated rotation, in degrees, between the two diagonals
// of a playing card as seen by the reference camera.
const DefaultAngle = 70.0

// DefaultBand is the vertical tolerance, in pixels, used by BandedDiagonal to decide
// which points belong to the top and bottom of a boundary.
const DefaultBand = 10.0

// Strategy turns a boundary into four candidate corners.
type Strategy interface {
	// Name is the configuration name of the strategy.
	Name() string

	// Locate returns four corner candidates in no particular order, or an error
	// wrapping ErrDegenerateBoundary.
	Locate(b Boundary) (Quad, error)
}

// NewStrategy returns the strategy registered under name. An angle of 0 selects
// DefaultAngle and a band of 0 selects DefaultBand.
func NewStrategy(name string, angle, band float64) (Strategy, error) {
	if angle == 0 {
		angle = DefaultAngle
	}
	if band == 0 {
		band = DefaultBand
	}

	switch name {
	case "", "diagonal":
		return DiagonalPair{AngleDegrees: angle}, nil
	case "banded":
		return BandedDiagonal{AngleDegrees: angle, Band: band}, nil
	case "extremes":
		return Extremes{}, nil
	default:
		return nil, fmt.Errorf("unknown corner strategy %q (want diagonal, banded or extremes)", name)
	}
}

// StrategyNames lists the names accepted by NewStrategy.
func StrategyNames() []string {
	return []string{"diagonal", "banded", "extremes"}
}

// DiagonalPair locates corners with the diagonal-pair heuristic.
//
// # Algorithm
//
//  1. Scan every pair of boundary points and keep the pair (P, Q) with the largest
//     distance. Ties keep the first pair found in index order.
//  2. Order the pair by descending Y: a is the lower point, b the upper one.
//  3. Rotate by -AngleDegrees when a.X < b.X, otherwise by +AngleDegrees.
//  4. Rotate a and b about their midpoint to obtain the remaining corners c and d.
//
// The result is {a, b, c, d}.
//
// # Complexity
//
// Step 1 is O(n²) in the number of boundary points. This is fine for contours of a
// few thousand points; the exhaustive scan is what guarantees the true maximum.
type DiagonalPair struct {
	AngleDegrees float64
}

// Name implements Strategy.
func (DiagonalPair) Name() string { return "diagonal" }

// Locate implements Strategy.
func (s DiagonalPair) Locate(b Boundary) (Quad, error) {
	if err := checkBoundary(b); err != nil {
		return Quad{}, err
	}

	p, q, d := farthestPair(b, b)
	if d == 0 {
		return Quad{}, fmt.Errorf("%w: all points coincide", ErrDegenerateBoundary)
	}
	return rotateDiagonal(p, q, s.AngleDegrees), nil
}

// BandedDiagonal is the diagonal-pair heuristic restricted to points near the top
// and bottom of the boundary. Points whose Y lies within Band of the minimum Y form
// the top band, and points within Band of the maximum Y form the bottom band; the
// far pair is searched only between the two bands.
//
// This works well for cards standing roughly upright and cuts the pair scan down to
// |top| x |bottom|.
type BandedDiagonal struct {
	AngleDegrees float64
	Band         float64
}

// Name implements Strategy.
func (BandedDiagonal) Name() string { return "banded" }

// Locate implements Strategy.
func (s BandedDiagonal) Locate(b Boundary) (Quad, error) {
	if err := checkBoundary(b); err != nil {
		return Quad{}, err
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range b {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	var top, bottom Boundary
	for _, p := range b {
		if math.Abs(p.Y-minY) < s.Band {
			top = append(top, p)
		}
		if math.Abs(p.Y-maxY) < s.Band {
			bottom = append(bottom, p)
		}
	}

	p, q, d := farthestPair(top, bottom)
	if d == 0 {
		return Quad{}, fmt.Errorf("%w: all points coincide", ErrDegenerateBoundary)
	}
	return rotateDiagonal(p, q, s.AngleDegrees), nil
}

// Extremes picks the boundary points that are most extreme along the two diagonal
// directions: the minimum and maximum of x+y (top-left and bottom-right) and of x-y
// (bottom-left and top-right). It needs no calibration, but assumes the card is
// not rotated close to 45 degrees.
type Extremes struct{}

// Name implements Strategy.
func (Extremes) Name() string { return "extremes" }

// Locate implements Strategy.
func (Extremes) Locate(b Boundary) (Quad, error) {
	if err := checkBoundary(b); err != nil {
		return Quad{}, err
	}

	tl, tr, br, bl := b[0], b[0], b[0], b[0]
	for _, p := range b[1:] {
		if p.X+p.Y < tl.X+tl.Y {
			tl = p
		}
		if p.X+p.Y > br.X+br.Y {
			br = p
		}
		if p.X-p.Y > tr.X-tr.Y {
			tr = p
		}
		if p.X-p.Y < bl.X-bl.Y {
			bl = p
		}
	}

	if geom.Distance(tl, br) == 0 && geom.Distance(tr, bl) == 0 {
		return Quad{}, fmt.Errorf("%w: all points coincide", ErrDegenerateBoundary)
	}
	return Quad{tl, tr, br, bl}, nil
}

// checkBoundary rejects boundaries with fewer than four distinct points.
func checkBoundary(b Boundary) error {
	if len(b) < 4 {
		return fmt.Errorf("%w: %d points, need at least 4", ErrDegenerateBoundary, len(b))
	}
	if n := b.distinct(4); n < 4 {
		return fmt.Errorf("%w: only %d distinct points", ErrDegenerateBoundary, n)
	}
	return nil
}

// farthestPair returns the pair (p from as, q from bs) with the greatest distance.
// When as and bs are the same slice only pairs i < j are visited. Ties keep the
// first pair found.
func farthestPair(as, bs Boundary) (r2.Point, r2.Point, float64) {
	same := len(as) > 0 && len(bs) > 0 && &as[0] == &bs[0] && len(as) == len(bs)

	var p, q r2.Point
	best := -1.0
	for i := range as {
		start := 0
		if same {
			start = i + 1
		}
		for j := start; j < len(bs); j++ {
			if d := geom.Distance(as[i], bs[j]); d > best {
				best = d
				p, q = as[i], bs[j]
			}
		}
	}
	if best < 0 {
		return p, q, 0
	}
	return p, q, best
}

// rotateDiagonal builds the four corners from one diagonal p-q.
func rotateDiagonal(p, q r2.Point, angle float64) Quad {
	a, b := p, q
	if b.Y > a.Y {
		a, b = b, a
	}

	theta := angle
	if a.X < b.X {
		theta = -angle
	}

	mid := geom.Midpoint(a, b)
	c := geom.Rotate(a, theta, mid)
	d := geom.Rotate(b, theta, mid)
	return Quad{a, b, c, d}
}
