package corners

import (
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r2"

	"github.com/ironsheep/card-tools-mcp/internal/geom"
)

// Order relabels the four points of q as (TL, TR, BR, BL).
//
// The points are stably sorted by X; the two smallest form the left pair and the
// two largest the right pair. Each pair is then stably sorted by Y, so the upper
// point of the left pair becomes TL and the lower becomes BL, and likewise for the
// right pair. Ties in X keep the input order.
func Order(q Quad) Quad {
	pts := q
	sort.SliceStable(pts[:], func(i, j int) bool { return pts[i].X < pts[j].X })

	left := []r2.Point{pts[0], pts[1]}
	right := []r2.Point{pts[2], pts[3]}
	sort.SliceStable(left, func(i, j int) bool { return left[i].Y < left[j].Y })
	sort.SliceStable(right, func(i, j int) bool { return right[i].Y < right[j].Y })

	return Quad{left[0], right[0], right[1], left[1]}
}

// Valid reports whether q looks like a rectangle: after ordering, the top and
// bottom sides differ in length by less than errorThreshold, and so do the left
// and right sides.
//
// Only side lengths are compared. Angles are not checked, so any parallelogram
// passes.
func Valid(q Quad, errorThreshold float64) bool {
	return Validate(q, errorThreshold) == nil
}

// Validate is Valid with a descriptive error. It returns nil for a valid quad and
// an error wrapping ErrRejectedNonRectangle otherwise.
func Validate(q Quad, errorThreshold float64) error {
	v := Order(q)
	top := geom.Distance(v.TL(), v.TR())
	bottom := geom.Distance(v.BR(), v.BL())
	left := geom.Distance(v.TL(), v.BL())
	right := geom.Distance(v.TR(), v.BR())

	if math.Abs(top-bottom) < errorThreshold && math.Abs(left-right) < errorThreshold {
		return nil
	}
	return fmt.Errorf("%w: top %.1f bottom %.1f left %.1f right %.1f (threshold %.1f)",
		ErrRejectedNonRectangle, top, bottom, left, right, errorThreshold)
}
