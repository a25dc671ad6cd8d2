// Package imaging provides the image-processing primitives the card recognizer is
// built on: grayscale conversion, Gaussian blur, binary and adaptive thresholding,
// absolute difference, contour extraction and perspective warping.
//
// The recognizer only depends on the Primitives interface. Two implementations exist:
//
//   - Toolkit: pure Go, built on github.com/disintegration/imaging and
//     github.com/anthonynsimon/bild. Always available.
//   - OpenCV: backed by gocv.io/x/gocv. Compiled only with the "gocv" build tag and
//     requires OpenCV to be installed.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X increasing
// rightward and Y increasing downward. Every *image.Gray returned by a primitive has
// its bounds rebased to start at (0,0).
//
// # Thread Safety
//
// Primitives are stateless and safe for concurrent use on different images. The
// ImageCache type is safe for concurrent use.
//
// # Binary Images
//
// Threshold outputs use 0 for background and 255 for foreground. FindContours treats
// every non-zero pixel as foreground.
package imaging
