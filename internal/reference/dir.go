package reference

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ironsheep/card-tools-mcp/internal/imaging"
)

// imageExts are the file extensions DirLoader reads.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
}

// DirLoader loads every image in a directory, sorted by file name. Each entry is
// labelled with its file stem, so "AceOfSpades.png" becomes "AceOfSpades".
type DirLoader struct {
	Dir string
}

// Load reads the directory. Subdirectories and non-image files are skipped.
func (d DirLoader) Load(ctx context.Context) (*Store, error) {
	paths, err := ImagePaths(d.Dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := imaging.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load reference %s: %w", filepath.Base(path), err)
		}
		entries = append(entries, Entry{Label: LabelFromPath(path), Image: img})
	}

	return NewStore(entries), nil
}

// ImagePaths lists the image files directly inside dir, sorted by name.
func ImagePaths(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference directory: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsDir() || !imageExts[strings.ToLower(filepath.Ext(f.Name()))] {
			continue
		}
		names = append(names, f.Name())
	}
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}
