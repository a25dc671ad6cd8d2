package rectify

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/card-tools-mcp/internal/corners"
	"github.com/ironsheep/card-tools-mcp/internal/geom"
	"github.com/ironsheep/card-tools-mcp/internal/imaging"
)

func TestCompute_CanonicalCornersGiveIdentity(t *testing.T) {
	q := corners.Quad{{X: 0, Y: 0}, {X: 450, Y: 0}, {X: 450, Y: 450}, {X: 0, Y: 450}}

	h, err := Compute(q, 450)
	require.NoError(t, err)
	id := geom.Identity()
	for i := range h {
		assert.InDelta(t, id[i], h[i], 1e-9, "element %d", i)
	}
}

func TestCompute_MapsCornersToSquare(t *testing.T) {
	q := corners.Quad{{X: 120, Y: 80}, {X: 330, Y: 110}, {X: 300, Y: 420}, {X: 90, Y: 380}}
	want := []r2.Point{{X: 0, Y: 0}, {X: 450, Y: 0}, {X: 450, Y: 450}, {X: 0, Y: 450}}

	h, err := Compute(q, 450)
	require.NoError(t, err)
	for i, p := range q {
		got := h.Apply(p)
		assert.InDelta(t, want[i].X, got.X, 1e-6)
		assert.InDelta(t, want[i].Y, got.Y, 1e-6)
	}
}

func TestCompute_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		q    corners.Quad
		side int
	}{
		{"coincident", corners.Quad{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, 450},
		{"all equal", corners.Quad{{X: 5, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}}, 450},
		{"collinear", corners.Quad{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}, {X: 0, Y: 10}}, 450},
		{"zero side", corners.Quad{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.q, tt.side)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnrectifiableCorners))
		})
	}
}

func TestRectifier_CropsAxisAlignedRegion(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 60, 60))
	for y := 10; y < 30; y++ {
		for x := 10; x < 30; x++ {
			src.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	r := New(imaging.NewToolkit(), 20)
	q := corners.Quad{{X: 10, Y: 10}, {X: 30, Y: 10}, {X: 30, Y: 30}, {X: 10, Y: 30}}

	out, h, err := r.Rectify(src, q)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 20), out.Bounds())
	assert.InDelta(t, 1.0, h[0], 1e-9)

	g, ok := out.(*image.Gray)
	require.True(t, ok)
	assert.Equal(t, uint8(255), g.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), g.GrayAt(19, 19).Y)
}

func TestRectifier_DefaultSide(t *testing.T) {
	r := New(imaging.NewToolkit(), 0)
	assert.Equal(t, DefaultSide, r.Side)

	_, _, err := r.Rectify(image.NewGray(image.Rect(0, 0, 4, 4)), corners.Quad{})
	assert.ErrorIs(t, err, ErrUnrectifiableCorners)
}
