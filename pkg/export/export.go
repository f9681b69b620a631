// Package export extracts the final crop regions from the source images.
// Each box produces an output of exactly its own dimensions; any area
// outside the source image's bounds is filled with solid white. Double-page
// crops produce two files suffixed _left and _right, single-page crops keep
// the original filename.
package export

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"github.com/menta2k/bookcrop/internal/utils"
	"github.com/menta2k/bookcrop/pkg/crop"
)

// DefaultQuality is the jpeg/webp quality used when none is set.
const DefaultQuality = 95

// Options control output encoding.
type Options struct {
	Format   string // "jpg", "png" or "webp"; empty keeps the source extension
	Quality  int    // jpeg/webp quality 1-100, 0 means DefaultQuality
	Lossless bool   // webp only
}

// Exporter writes cropped output images for one source folder.
type Exporter struct {
	sourceDir string
	outputDir string
	opts      Options
}

// New creates an exporter from a source folder to an output folder.
func New(sourceDir, outputDir string, opts Options) *Exporter {
	if opts.Quality <= 0 {
		opts.Quality = DefaultQuality
	}
	return &Exporter{sourceDir: sourceDir, outputDir: outputDir, opts: opts}
}

// ExportAll exports every page with crop data. A missing or undecodable
// source file is reported and skipped; the batch continues. The returned
// slice holds one error per skipped file.
func (e *Exporter) ExportAll(data map[string]crop.PageCrop) []error {
	if err := utils.EnsureDir(e.outputDir); err != nil {
		return []error{fmt.Errorf("create output folder: %w", err)}
	}

	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := e.exportOne(name, data[name]); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errs
}

func (e *Exporter) exportOne(name string, pc crop.PageCrop) error {
	src := filepath.Join(e.sourceDir, name)
	if !utils.FileExists(src) {
		return fmt.Errorf("source file not found")
	}
	img, err := imaging.Open(src)
	if err != nil {
		return fmt.Errorf("decode source: %w", err)
	}

	if pc.IsDoublePage {
		if pc.Left != nil {
			if err := e.save(extractWithPadding(img, *pc.Left), utils.OutputFilename(name, "_left", e.opts.Format)); err != nil {
				return err
			}
		}
		if pc.Right != nil {
			if err := e.save(extractWithPadding(img, *pc.Right), utils.OutputFilename(name, "_right", e.opts.Format)); err != nil {
				return err
			}
		}
		return nil
	}

	if pc.Left != nil {
		return e.save(extractWithPadding(img, *pc.Left), utils.OutputFilename(name, "", e.opts.Format))
	}
	return nil
}

// extractWithPadding copies the requested region onto a white canvas of
// exactly box.Width x box.Height. Only the part of the box that intersects
// the source image is pasted; the rest stays white.
func extractWithPadding(img image.Image, box crop.Box) *image.NRGBA {
	canvas := imaging.New(box.Width, box.Height, color.White)

	b := img.Bounds()
	left := max(0, box.X)
	top := max(0, box.Y)
	right := min(b.Dx(), box.X+box.Width)
	bottom := min(b.Dy(), box.Y+box.Height)

	if left < right && top < bottom {
		section := imaging.Crop(img, image.Rect(left, top, right, bottom))
		canvas = imaging.Paste(canvas, section, image.Pt(left-box.X, top-box.Y))
	}
	return canvas
}

func (e *Exporter) save(img image.Image, name string) error {
	path := filepath.Join(e.outputDir, name)

	switch utils.GetFileExtension(name) {
	case "webp":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		defer f.Close()
		opts := &webp.Options{Lossless: e.opts.Lossless, Quality: float32(e.opts.Quality)}
		if err := webp.Encode(f, img, opts); err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		return nil
	default:
		if err := imaging.Save(img, path, imaging.JPEGQuality(e.opts.Quality)); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
		return nil
	}
}
