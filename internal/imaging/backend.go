//go:build !gocv

package imaging

import "fmt"

// Available reports whether the OpenCV backend was compiled in.
func Available() bool { return false }

// NewPrimitives returns the backend registered under name. Without the gocv build
// tag only the pure-Go "go" backend exists.
func NewPrimitives(name string) (Primitives, error) {
	switch name {
	case "", "go":
		return NewToolkit(), nil
	case "opencv":
		return nil, fmt.Errorf("imaging backend %q requires building with -tags gocv", name)
	default:
		return nil, fmt.Errorf("unknown imaging backend %q", name)
	}
}
