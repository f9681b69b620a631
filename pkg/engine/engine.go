// Package engine orchestrates crop-box editing for a folder of scanned
// pages: it derives default placements from master templates, records which
// pages the user has touched, and ripples every edit forward onto the pages
// that have not been manually adjusted yet.
package engine

import (
	"fmt"
	"sort"

	"github.com/menta2k/bookcrop/pkg/crop"
)

// ImageSource provides the ordered image list and original pixel sizes for
// a folder of scanned pages. Implemented by pkg/loader.
type ImageSource interface {
	Files() []string
	OriginalSize(name string) (width, height int)
}

// Engine owns the per-session crop state. All operations are synchronous
// and single-threaded, invoked one at a time by discrete gestures whose
// coordinates have already been translated into original-image space.
type Engine struct {
	source  ImageSource
	current int

	store    map[string]*crop.PageCrop
	modes    map[string]bool     // per-image double-page override
	adjusted map[string]struct{} // pages locked in by a manual edit
	settings crop.Settings
	masters  crop.MasterPositions

	// defaultDouble is the mode for pages without a per-image override.
	defaultDouble bool
}

// New creates an engine over an image source with default settings and no
// crop data. Call Restore or InitializeAll before editing.
func New(source ImageSource) *Engine {
	return &Engine{
		source:   source,
		store:    make(map[string]*crop.PageCrop),
		modes:    make(map[string]bool),
		adjusted: make(map[string]struct{}),
		settings: crop.DefaultSettings(),
	}
}

// State is a snapshot of everything the engine persists across sessions.
type State struct {
	Crops      map[string]crop.PageCrop
	Modes      map[string]bool
	Adjusted   []string
	Settings   crop.Settings
	Masters    crop.MasterPositions
	DoublePage bool
}

// NewState returns an empty state with default settings.
func NewState() State {
	return State{
		Crops:    make(map[string]crop.PageCrop),
		Modes:    make(map[string]bool),
		Settings: crop.DefaultSettings(),
	}
}

// Snapshot copies the engine state for persistence. The adjusted list is
// sorted for deterministic output.
func (e *Engine) Snapshot() State {
	st := State{
		Crops:      make(map[string]crop.PageCrop, len(e.store)),
		Modes:      make(map[string]bool, len(e.modes)),
		Adjusted:   make([]string, 0, len(e.adjusted)),
		Settings:   e.settings,
		Masters:    e.masters,
		DoublePage: e.defaultDouble,
	}
	for name, pc := range e.store {
		st.Crops[name] = pc.Clone()
	}
	for name, double := range e.modes {
		st.Modes[name] = double
	}
	for name := range e.adjusted {
		st.Adjusted = append(st.Adjusted, name)
	}
	sort.Strings(st.Adjusted)
	return st
}

// Restore replaces the engine state with a previously persisted snapshot.
func (e *Engine) Restore(st State) {
	e.store = make(map[string]*crop.PageCrop, len(st.Crops))
	for name, pc := range st.Crops {
		c := pc.Clone()
		e.store[name] = &c
	}
	e.modes = make(map[string]bool, len(st.Modes))
	for name, double := range st.Modes {
		e.modes[name] = double
	}
	e.adjusted = make(map[string]struct{}, len(st.Adjusted))
	for _, name := range st.Adjusted {
		e.adjusted[name] = struct{}{}
	}
	if st.Settings != (crop.Settings{}) {
		e.settings = st.Settings
	}
	e.masters = st.Masters
	e.defaultDouble = st.DoublePage
}

// Files returns the ordered image list from the source.
func (e *Engine) Files() []string {
	return e.source.Files()
}

// CurrentIndex returns the index of the page being edited.
func (e *Engine) CurrentIndex() int {
	return e.current
}

// CurrentFile returns the filename of the page being edited, or "" when the
// source is empty.
func (e *Engine) CurrentFile() string {
	files := e.source.Files()
	if e.current < 0 || e.current >= len(files) {
		return ""
	}
	return files[e.current]
}

// SetPage moves the edit cursor to the given page index.
func (e *Engine) SetPage(index int) error {
	if index < 0 || index >= len(e.source.Files()) {
		return fmt.Errorf("page index %d out of range", index)
	}
	e.current = index
	return nil
}

// PageCrop returns a copy of the stored crop geometry for a filename.
func (e *Engine) PageCrop(name string) (crop.PageCrop, bool) {
	pc, ok := e.store[name]
	if !ok {
		return crop.PageCrop{}, false
	}
	return pc.Clone(), true
}

// Settings returns the current global crop dimensions.
func (e *Engine) Settings() crop.Settings {
	return e.settings
}

// Masters returns the current master positions.
func (e *Engine) Masters() crop.MasterPositions {
	return e.masters
}

// IsAdjusted reports whether a page has been manually edited. Adjusted
// pages are never overwritten by propagation.
func (e *Engine) IsAdjusted(name string) bool {
	_, ok := e.adjusted[name]
	return ok
}

// EffectiveMode returns a page's double-page mode: its own override if set,
// otherwise the session default.
func (e *Engine) EffectiveMode(name string) bool {
	if double, ok := e.modes[name]; ok {
		return double
	}
	return e.defaultDouble
}

// InitializeAll lays out default crop boxes for every page whose original
// size is known. Pages that failed to decode are left without crop data.
func (e *Engine) InitializeAll() {
	for _, name := range e.source.Files() {
		w, h := e.source.OriginalSize(name)
		if w == 0 || h == 0 {
			continue
		}
		pc := crop.LayoutPage(w, h, e.settings, e.masters, e.EffectiveMode(name))
		e.store[name] = &pc
	}
}

// DragBox moves a box of the current page by a delta in original-image
// coordinates and commits the edit.
func (e *Engine) DragBox(side crop.Side, dx, dy int) error {
	name, pc, err := e.currentCrop()
	if err != nil {
		return err
	}
	if !pc.Drag(side, dx, dy) {
		return fmt.Errorf("page %q has no box on that side", name)
	}
	e.commit(name, pc)
	return nil
}

// ResizeBox moves a corner handle of a box of the current page to a point
// in original-image coordinates and commits the edit. The resized
// dimensions become the new global crop dimensions.
func (e *Engine) ResizeBox(side crop.Side, handle crop.Handle, px, py int) error {
	name, pc, err := e.currentCrop()
	if err != nil {
		return err
	}
	if !pc.Resize(side, handle, px, py) {
		return fmt.Errorf("page %q has no box on that side", name)
	}
	e.commit(name, pc)
	return nil
}

// ToggleMode switches the current page between single and double page mode.
// The new mode is pushed forward onto every subsequent unadjusted page, the
// current page's boxes are regenerated, and the edit is committed.
func (e *Engine) ToggleMode(double bool) error {
	name := e.CurrentFile()
	if name == "" {
		return fmt.Errorf("no current page")
	}

	e.defaultDouble = double
	e.modes[name] = double

	files := e.source.Files()
	for i := e.current + 1; i < len(files); i++ {
		if !e.IsAdjusted(files[i]) {
			e.modes[files[i]] = double
		}
	}

	w, h := e.source.OriginalSize(name)
	if w == 0 || h == 0 {
		return fmt.Errorf("unknown original size for %q", name)
	}
	pc := crop.LayoutPage(w, h, e.settings, e.masters, double)
	e.commit(name, pc)
	return nil
}

// SetCropSize changes the global crop dimensions and applies the new width
// and height to every page that already has crop data, adjusted or not,
// preserving each box's position. No page is marked adjusted and no masters
// are rederived.
func (e *Engine) SetCropSize(width, height int) error {
	s := crop.Settings{Width: width, Height: height}
	if err := s.Validate(); err != nil {
		return err
	}
	e.settings = s

	for _, pc := range e.store {
		if pc.Left != nil {
			pc.Left.Width = width
			pc.Left.Height = height
		}
		if pc.Right != nil {
			pc.Right.Width = width
			pc.Right.Height = height
		}
	}
	return nil
}

func (e *Engine) currentCrop() (string, crop.PageCrop, error) {
	name := e.CurrentFile()
	if name == "" {
		return "", crop.PageCrop{}, fmt.Errorf("no current page")
	}
	pc, ok := e.store[name]
	if !ok {
		return "", crop.PageCrop{}, fmt.Errorf("no crop data for %q", name)
	}
	return name, pc.Clone(), nil
}

// commit stores an edited page, marks it manually adjusted, rederives the
// master positions from it, and propagates forward. The left box's
// dimensions become the global crop dimensions so that regenerated pages
// pick up the edited size.
func (e *Engine) commit(name string, pc crop.PageCrop) {
	if pc.Left != nil {
		e.settings.Width = pc.Left.Width
		e.settings.Height = pc.Left.Height
	}

	stored := pc.Clone()
	e.store[name] = &stored
	e.adjusted[name] = struct{}{}

	if w, h := e.source.OriginalSize(name); w > 0 && h > 0 {
		e.masters = crop.DeriveMasters(pc, w, h, e.settings, e.masters)
	}

	e.propagate()
}

// propagate regenerates crop data for every page after the current one that
// has not been manually adjusted, using the current settings, masters and
// that page's effective mode. Pages at or before the current index, and
// adjusted pages, are never touched.
func (e *Engine) propagate() {
	files := e.source.Files()
	for i := e.current + 1; i < len(files); i++ {
		name := files[i]
		if e.IsAdjusted(name) {
			continue
		}
		w, h := e.source.OriginalSize(name)
		if w == 0 || h == 0 {
			continue
		}
		pc := crop.LayoutPage(w, h, e.settings, e.masters, e.EffectiveMode(name))
		e.store[name] = &pc
	}
}
