package corners

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r2"
)

var (
	// ErrDegenerateBoundary is returned when a boundary has too few distinct points
	// for any corners to be located.
	ErrDegenerateBoundary = errors.New("degenerate boundary")

	// ErrRejectedNonRectangle is returned when four corners fail the
	// opposite-side symmetry check.
	ErrRejectedNonRectangle = errors.New("corners do not form a rectangle")
)

// Boundary is the outline of a detected object. Points may be ordered or
// unordered and may repeat.
type Boundary []r2.Point

// distinct counts the distinct points in b, stopping once limit is reached.
func (b Boundary) distinct(limit int) int {
	seen := make(map[r2.Point]struct{}, limit)
	for _, p := range b {
		seen[p] = struct{}{}
		if len(seen) >= limit {
			break
		}
	}
	return len(seen)
}

// Quad holds four corner points. Strategies return them in no particular order;
// after Order the indices are TL, TR, BR, BL.
type Quad [4]r2.Point

// Indices into an ordered Quad.
const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
)

// TL returns the top-left corner of an ordered quad.
func (q Quad) TL() r2.Point { return q[TopLeft] }

// TR returns the top-right corner of an ordered quad.
func (q Quad) TR() r2.Point { return q[TopRight] }

// BR returns the bottom-right corner of an ordered quad.
func (q Quad) BR() r2.Point { return q[BottomRight] }

// BL returns the bottom-left corner of an ordered quad.
func (q Quad) BL() r2.Point { return q[BottomLeft] }

// Reversed returns the corners in reverse index order.
func (q Quad) Reversed() Quad {
	return Quad{q[3], q[2], q[1], q[0]}
}

func (q Quad) String() string {
	return fmt.Sprintf("[(%.1f,%.1f) (%.1f,%.1f) (%.1f,%.1f) (%.1f,%.1f)]",
		q[0].X, q[0].Y, q[1].X, q[1].Y, q[2].X, q[2].Y, q[3].X, q[3].Y)
}
