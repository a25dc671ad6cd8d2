// Package corners finds, orders and validates the four corners of a playing card
// from the boundary of a detected object.
//
// # Pipeline
//
// A card boundary goes through three steps:
//
//  1. Localize: a Strategy reduces the boundary to a Quad of four candidate corners.
//  2. Order: Order relabels the Quad as top-left, top-right, bottom-right, bottom-left.
//  3. Validate: Valid checks that opposite sides have approximately equal length.
//
// # Strategies
//
// Three localization strategies are available and selected by name with NewStrategy:
//
//   - "diagonal": the two boundary points furthest apart are taken as one diagonal;
//     the other two corners come from rotating that diagonal about its midpoint by a
//     calibrated angle.
//   - "banded": like "diagonal", but the far pair is searched only between points near
//     the top and points near the bottom of the boundary.
//   - "extremes": corners are the boundary points with extreme x+y and x-y values.
//
// The rotation angle used by the diagonal strategies (70 degrees by default) is tuned
// to the aspect ratio of a standard playing card seen roughly face-on. It is not a
// geometric derivation and may need recalibrating for other cameras or card shapes.
//
// # Coordinate System
//
// Image coordinates: origin at the top-left, X rightward, Y downward. "Top" means
// smaller Y.
package corners
