package imaging

import (
	"image"
)

// FindContours finds the connected foreground regions of a binary image and returns
// the boundary pixels of each.
//
// # Algorithm
//
//  1. Region growing: an iterative flood fill groups 8-connected non-zero pixels.
//  2. Boundary selection: a region pixel is on the boundary when one of its four
//     direct neighbours is background or lies outside the image.
//  3. Area: the region's pixel count.
//
// Regions are returned in raster order of their first pixel. Boundary pixels of holes
// inside a region are included in that region's contour; they lie inside the outer
// outline and never change its extreme points.
func (t *Toolkit) FindContours(binary *image.Gray) ([]Contour, error) {
	img := normalizeGray(binary)
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	fg := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < width && y < height && img.Pix[y*width+x] != 0
	}

	visited := make([]bool, width*height)
	contours := make([]Contour, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !fg(x, y) || visited[y*width+x] {
				continue
			}
			region := floodFill(fg, visited, width, x, y)

			points := make([]image.Point, 0)
			for _, p := range region {
				if !fg(p.X-1, p.Y) || !fg(p.X+1, p.Y) || !fg(p.X, p.Y-1) || !fg(p.X, p.Y+1) {
					points = append(points, p)
				}
			}
			contours = append(contours, Contour{Points: points, Area: float64(len(region))})
		}
	}

	return contours, nil
}

// floodFill collects the 8-connected foreground region containing (startX, startY).
//
// Uses an explicit stack rather than recursion so large regions cannot overflow
// the goroutine stack. Pixels are marked in visited as they are claimed.
func floodFill(fg func(x, y int) bool, visited []bool, width, startX, startY int) []image.Point {
	region := make([]image.Point, 0)
	stack := []image.Point{{X: startX, Y: startY}}
	visited[startY*width+startX] = true

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		region = append(region, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := p.X+dx, p.Y+dy
				if fg(nx, ny) && !visited[ny*width+nx] {
					visited[ny*width+nx] = true
					stack = append(stack, image.Point{X: nx, Y: ny})
				}
			}
		}
	}
	return region
}
