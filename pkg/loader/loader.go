// Package loader enumerates the scan images of a source folder, records
// their original pixel sizes and serves scaled previews for on-screen
// editing.
package loader

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/menta2k/bookcrop/internal/utils"
)

// Default preview bounds; previews keep the source aspect ratio within
// this box.
const (
	PreviewMaxWidth  = 800
	PreviewMaxHeight = 600
)

type size struct {
	width  int
	height int
}

// Loader is the image source for one folder. Files are enumerated in
// sorted-name order and filtered to the supported extension set; files that
// fail to decode are excluded from the navigable set and reported via
// Skipped.
type Loader struct {
	dir      string
	files    []string
	sizes    map[string]size
	previews map[string]image.Image
	skipped  []string

	previewW int
	previewH int
}

// Open scans a folder for supported images with default preview bounds.
func Open(dir string) (*Loader, error) {
	return OpenWithPreviewSize(dir, PreviewMaxWidth, PreviewMaxHeight)
}

// OpenWithPreviewSize scans a folder with custom preview bounds.
func OpenWithPreviewSize(dir string, previewW, previewH int) (*Loader, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan folder: %w", err)
	}

	l := &Loader{
		dir:      dir,
		sizes:    make(map[string]size),
		previews: make(map[string]image.Image),
		previewW: previewW,
		previewH: previewH,
	}

	// os.ReadDir returns entries sorted by name.
	for _, entry := range entries {
		if entry.IsDir() || !utils.IsImageFile(entry.Name()) {
			continue
		}
		name := entry.Name()
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			l.skipped = append(l.skipped, name)
			continue
		}
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		if err != nil {
			l.skipped = append(l.skipped, name)
			continue
		}
		l.files = append(l.files, name)
		l.sizes[name] = size{width: cfg.Width, height: cfg.Height}
	}
	return l, nil
}

// Dir returns the source folder path.
func (l *Loader) Dir() string {
	return l.dir
}

// Files returns the ordered image list.
func (l *Loader) Files() []string {
	files := make([]string, len(l.files))
	copy(files, l.files)
	return files
}

// Skipped returns the names of files that matched a supported extension but
// could not be decoded.
func (l *Loader) Skipped() []string {
	skipped := make([]string, len(l.skipped))
	copy(skipped, l.skipped)
	return skipped
}

// OriginalSize returns the original pixel dimensions of an image, or (0, 0)
// for an unknown file.
func (l *Loader) OriginalSize(name string) (int, int) {
	s, ok := l.sizes[name]
	if !ok {
		return 0, 0
	}
	return s.width, s.height
}

// Preview returns a scaled-down representation of an image, cached after
// the first decode.
func (l *Loader) Preview(name string) (image.Image, error) {
	if img, ok := l.previews[name]; ok {
		return img, nil
	}
	if _, ok := l.sizes[name]; !ok {
		return nil, fmt.Errorf("unknown image %q", name)
	}
	img, err := imaging.Open(filepath.Join(l.dir, name))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	preview := imaging.Fit(img, l.previewW, l.previewH, imaging.Lanczos)
	l.previews[name] = preview
	return preview, nil
}
