// Package bookcrop assists batch cropping of scanned book pages into one or
// two output pages per source image.
//
// Crop geometry is kept per image filename in original-image pixel
// coordinates. Editing one page rederives the master position templates and
// propagates forward: every later page the user has not touched is laid out
// again from the new templates, so a whole scan run can be adjusted from a
// handful of manual edits.
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//
//		"github.com/menta2k/bookcrop"
//		"github.com/menta2k/bookcrop/pkg/crop"
//		"github.com/menta2k/bookcrop/pkg/export"
//	)
//
//	func main() {
//		// Open a folder of scans; picks up crop_data.json if present
//		session, err := bookcrop.OpenFolder("scans/")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// Nudge the first page's box; later pages follow automatically
//		if err := session.DragBox(crop.LeftBox, 20, 0); err != nil {
//			log.Fatal(err)
//		}
//
//		// Persist the geometry and write the cropped output images
//		if err := session.Save(); err != nil {
//			log.Fatal(err)
//		}
//		for _, err := range session.Export("out/", export.Options{}) {
//			log.Printf("skipped: %v", err)
//		}
//	}
//
// The package consists of five main components:
//
// 1. Geometry (pkg/geometry): scale transforms between display and original pixel space
// 2. Crop (pkg/crop): the crop-box data model and default placement math
// 3. Engine (pkg/engine): gesture handling, master templates and forward propagation
// 4. Persist (pkg/persist): the crop_data.json document codec
// 5. Loader/Export (pkg/loader, pkg/export): folder scanning, previews and output extraction
package bookcrop

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/menta2k/bookcrop/pkg/crop"
	"github.com/menta2k/bookcrop/pkg/engine"
	"github.com/menta2k/bookcrop/pkg/export"
	"github.com/menta2k/bookcrop/pkg/loader"
	"github.com/menta2k/bookcrop/pkg/persist"
)

// Version of the bookcrop library
const Version = "1.0.0"

// Session is an editing session over one source folder: the image source,
// the crop engine and the persisted document, wired together.
type Session struct {
	loader *loader.Loader
	engine *engine.Engine
}

// OpenFolder scans a folder of images and starts an editing session. An
// existing crop_data.json is restored best-effort; otherwise every page is
// initialized with default crop boxes.
func OpenFolder(dir string) (*Session, error) {
	l, err := loader.Open(dir)
	if err != nil {
		return nil, err
	}
	if len(l.Files()) == 0 {
		return nil, fmt.Errorf("no supported images in %s", dir)
	}

	e := engine.New(l)
	st := persist.Load(filepath.Join(dir, persist.DocumentName), l.Files())
	e.Restore(st)
	if len(st.Crops) == 0 {
		e.InitializeAll()
	}
	return &Session{loader: l, engine: e}, nil
}

// Save writes the session state to crop_data.json in the source folder.
func (s *Session) Save() error {
	path := filepath.Join(s.loader.Dir(), persist.DocumentName)
	return persist.Save(path, s.engine.Snapshot(), s.loader.Files())
}

// Export writes cropped output images for every page with crop data and
// returns one error per skipped file.
func (s *Session) Export(outputDir string, opts export.Options) []error {
	exporter := export.New(s.loader.Dir(), outputDir, opts)
	return exporter.ExportAll(s.engine.Snapshot().Crops)
}

// Files returns the ordered image list.
func (s *Session) Files() []string {
	return s.loader.Files()
}

// Skipped returns the files excluded from the session because they could
// not be decoded.
func (s *Session) Skipped() []string {
	return s.loader.Skipped()
}

// Current returns the index and filename of the page being edited.
func (s *Session) Current() (int, string) {
	return s.engine.CurrentIndex(), s.engine.CurrentFile()
}

// SetPage moves the edit cursor to a page index.
func (s *Session) SetPage(index int) error {
	return s.engine.SetPage(index)
}

// Next advances the edit cursor by one page, stopping at the last page.
func (s *Session) Next() {
	_ = s.engine.SetPage(s.engine.CurrentIndex() + 1)
}

// Prev moves the edit cursor back one page, stopping at the first page.
func (s *Session) Prev() {
	_ = s.engine.SetPage(s.engine.CurrentIndex() - 1)
}

// Preview returns the scaled display representation of an image.
func (s *Session) Preview(name string) (image.Image, error) {
	return s.loader.Preview(name)
}

// OriginalSize returns an image's original pixel dimensions.
func (s *Session) OriginalSize(name string) (int, int) {
	return s.loader.OriginalSize(name)
}

// PageCrop returns a copy of a page's crop geometry.
func (s *Session) PageCrop(name string) (crop.PageCrop, bool) {
	return s.engine.PageCrop(name)
}

// DragBox moves a box of the current page by a delta in original-image
// coordinates.
func (s *Session) DragBox(side crop.Side, dx, dy int) error {
	return s.engine.DragBox(side, dx, dy)
}

// ResizeBox moves a corner handle of a box of the current page to a point
// in original-image coordinates.
func (s *Session) ResizeBox(side crop.Side, handle crop.Handle, px, py int) error {
	return s.engine.ResizeBox(side, handle, px, py)
}

// ToggleMode switches the current page between single and double page mode.
func (s *Session) ToggleMode(double bool) error {
	return s.engine.ToggleMode(double)
}

// SetCropSize changes the global crop dimensions, resizing every existing
// box in place.
func (s *Session) SetCropSize(width, height int) error {
	return s.engine.SetCropSize(width, height)
}

// Engine exposes the underlying crop engine for presentation layers that
// need direct access.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
