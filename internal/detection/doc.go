// Package detection finds candidate card regions in a frame.
//
// Cards are assumed to be bright objects on a darker table. The detector reduces a
// frame to a binary mask and keeps every connected region whose area falls inside a
// configured band; each region's boundary pixels become the input of the corner
// localizer.
//
// # Algorithm
//
//  1. Grayscale: luminance through the configured image primitives
//  2. Smoothing: optional Gaussian blur to suppress texture on the table
//  3. Binarization: pixels strictly above Threshold become foreground
//  4. Region extraction: connected components and their boundary pixels
//  5. Filtering: keep regions with AreaLower < area < AreaUpper
//  6. Ordering: largest region first
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Boundary points are reported in the frame's own coordinates, so frames whose
// bounds do not start at the origin keep their offsets.
//
// # Limitations
//
// Touching or overlapping cards merge into one region and are later rejected by the
// rectangle check. A card on a bright table produces no foreground region at all.
package detection
