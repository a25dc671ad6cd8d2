package detection

import (
	"fmt"
	"image"
	"sort"

	"github.com/golang/geo/r2"

	"github.com/ironsheep/card-tools-mcp/internal/corners"
	cardimg "github.com/ironsheep/card-tools-mcp/internal/imaging"
)

// Default detector settings.
const (
	DefaultThreshold = 120
	DefaultAreaLower = 400000
	DefaultAreaUpper = 630000
)

// Bounds represents a rectangular bounding box in pixel coordinates.
//
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (inclusive)
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Candidate is one foreground region that may be a card.
type Candidate struct {
	// Boundary holds the region's outline pixels.
	Boundary corners.Boundary `json:"-"`

	// Area is the region's size in square pixels.
	Area float64 `json:"area"`

	// Bounds is the axis-aligned box enclosing Boundary.
	Bounds Bounds `json:"bounds"`
}

// Detector extracts card candidates from frames.
type Detector struct {
	Prims     cardimg.Primitives
	Threshold uint8
	BlurSigma float64
	AreaLower float64
	AreaUpper float64
}

// NewDetector returns a detector with the default threshold and area band.
func NewDetector(prims cardimg.Primitives) *Detector {
	return &Detector{
		Prims:     prims,
		Threshold: DefaultThreshold,
		AreaLower: DefaultAreaLower,
		AreaUpper: DefaultAreaUpper,
	}
}

// Detect returns the frame's card candidates sorted by area, largest first.
// Regions of equal area keep raster order.
func (d *Detector) Detect(frame image.Image) ([]Candidate, error) {
	if d.AreaUpper <= d.AreaLower {
		return nil, fmt.Errorf("invalid area band (%.0f, %.0f)", d.AreaLower, d.AreaUpper)
	}

	gray := d.Prims.Grayscale(frame)
	gray = d.Prims.GaussianBlur(gray, d.BlurSigma)
	mask := d.Prims.Threshold(gray, d.Threshold)

	contours, err := d.Prims.FindContours(mask)
	if err != nil {
		return nil, fmt.Errorf("failed to find contours: %w", err)
	}

	origin := frame.Bounds().Min
	candidates := make([]Candidate, 0)
	for _, c := range contours {
		if c.Area <= d.AreaLower || c.Area >= d.AreaUpper || len(c.Points) == 0 {
			continue
		}
		candidates = append(candidates, newCandidate(c, origin))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Area > candidates[j].Area
	})
	return candidates, nil
}

// Boundaries returns just the boundaries of cs, in order.
func Boundaries(cs []Candidate) []corners.Boundary {
	out := make([]corners.Boundary, len(cs))
	for i, c := range cs {
		out[i] = c.Boundary
	}
	return out
}

// newCandidate converts a contour found in a rebased raster back into frame
// coordinates.
func newCandidate(c cardimg.Contour, origin image.Point) Candidate {
	b := Bounds{X1: c.Points[0].X, Y1: c.Points[0].Y, X2: c.Points[0].X, Y2: c.Points[0].Y}
	boundary := make(corners.Boundary, len(c.Points))
	for i, p := range c.Points {
		b.X1, b.X2 = min(b.X1, p.X), max(b.X2, p.X)
		b.Y1, b.Y2 = min(b.Y1, p.Y), max(b.Y2, p.Y)
		boundary[i] = r2.Point{X: float64(p.X + origin.X), Y: float64(p.Y + origin.Y)}
	}

	return Candidate{
		Boundary: boundary,
		Area:     c.Area,
		Bounds: Bounds{
			X1: b.X1 + origin.X,
			Y1: b.Y1 + origin.Y,
			X2: b.X2 + origin.X,
			Y2: b.Y2 + origin.Y,
		},
	}
}
