package engine

import (
	"testing"

	"github.com/menta2k/bookcrop/pkg/crop"
)

// fakeSource is an in-memory ImageSource for engine tests.
type fakeSource struct {
	files []string
	sizes map[string][2]int
}

func (f *fakeSource) Files() []string { return f.files }

func (f *fakeSource) OriginalSize(name string) (int, int) {
	s := f.sizes[name]
	return s[0], s[1]
}

// threePages is the canonical scenario: three 1000x1500 scans with the
// default 800x1200 crop, which centers every box at (100, 150).
func threePages() *fakeSource {
	return &fakeSource{
		files: []string{"page1.png", "page2.png", "page3.png"},
		sizes: map[string][2]int{
			"page1.png": {1000, 1500},
			"page2.png": {1000, 1500},
			"page3.png": {1000, 1500},
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(threePages())
	e.InitializeAll()
	return e
}

func mustCrop(t *testing.T, e *Engine, name string) crop.PageCrop {
	t.Helper()
	pc, ok := e.PageCrop(name)
	if !ok {
		t.Fatalf("No crop data for %s", name)
	}
	return pc
}

func TestInitializeAllDefaults(t *testing.T) {
	e := newTestEngine(t)

	for _, name := range e.Files() {
		pc := mustCrop(t, e, name)
		if pc.Left == nil {
			t.Fatalf("%s: missing left box", name)
		}
		if pc.Left.X != 100 || pc.Left.Y != 150 {
			t.Errorf("%s: expected box at (100, 150), got (%d, %d)", name, pc.Left.X, pc.Left.Y)
		}
		if pc.Left.Width != 800 || pc.Left.Height != 1200 {
			t.Errorf("%s: expected 800x1200, got %dx%d", name, pc.Left.Width, pc.Left.Height)
		}
		if e.IsAdjusted(name) {
			t.Errorf("%s: default initialization must not mark pages adjusted", name)
		}
	}
}

func TestInitializeAllSkipsZeroSizePages(t *testing.T) {
	src := threePages()
	src.sizes["page2.png"] = [2]int{0, 0}
	e := New(src)
	e.InitializeAll()

	if _, ok := e.PageCrop("page2.png"); ok {
		t.Error("Pages without a known size must not get crop data")
	}
	if _, ok := e.PageCrop("page1.png"); !ok {
		t.Error("Other pages must still be initialized")
	}
}

func TestDragPropagatesForwardOnly(t *testing.T) {
	e := newTestEngine(t)

	if err := e.SetPage(1); err != nil {
		t.Fatal(err)
	}
	if err := e.DragBox(crop.LeftBox, 20, 0); err != nil {
		t.Fatal(err)
	}

	// The edited page moved and is locked in.
	edited := mustCrop(t, e, "page2.png")
	if edited.Left.X != 120 || edited.Left.Y != 150 {
		t.Errorf("Expected edited box at (120, 150), got (%d, %d)", edited.Left.X, edited.Left.Y)
	}
	if !e.IsAdjusted("page2.png") {
		t.Error("Edited page must be marked manually adjusted")
	}

	// The master offset was rederived from the edit.
	if got := e.Masters().Single; got != (crop.Offset{X: 20, Y: 0}) {
		t.Errorf("Expected single master offset {20 0}, got %+v", got)
	}

	// The following page was regenerated with the new offset.
	next := mustCrop(t, e, "page3.png")
	if next.Left.X != 120 || next.Left.Y != 150 {
		t.Errorf("Expected propagated box at (120, 150), got (%d, %d)", next.Left.X, next.Left.Y)
	}
	if e.IsAdjusted("page3.png") {
		t.Error("Propagation must not mark pages adjusted")
	}

	// The preceding page is untouched.
	prev := mustCrop(t, e, "page1.png")
	if prev.Left.X != 100 || prev.Left.Y != 150 {
		t.Errorf("Page before the edit must keep (100, 150), got (%d, %d)", prev.Left.X, prev.Left.Y)
	}
}

func TestPropagationSkipsAdjustedPages(t *testing.T) {
	e := newTestEngine(t)

	// Lock in page 3 with a no-op drag.
	if err := e.SetPage(2); err != nil {
		t.Fatal(err)
	}
	if err := e.DragBox(crop.LeftBox, 0, 0); err != nil {
		t.Fatal(err)
	}
	locked := mustCrop(t, e, "page3.png")

	// Edit page 1; page 2 follows, page 3 stays locked.
	if err := e.SetPage(0); err != nil {
		t.Fatal(err)
	}
	if err := e.DragBox(crop.LeftBox, 30, 10); err != nil {
		t.Fatal(err)
	}

	middle := mustCrop(t, e, "page2.png")
	if middle.Left.X != 130 || middle.Left.Y != 160 {
		t.Errorf("Expected propagated box at (130, 160), got (%d, %d)", middle.Left.X, middle.Left.Y)
	}
	if got := mustCrop(t, e, "page3.png"); !got.Equal(locked) {
		t.Errorf("Adjusted page must never be overwritten by propagation: %+v", *got.Left)
	}
}

func TestResizeUpdatesGlobalDimensions(t *testing.T) {
	e := newTestEngine(t)

	// Grow page 1's box to 850x1250 from the bottom-right handle.
	if err := e.ResizeBox(crop.LeftBox, crop.BottomRight, 950, 1400); err != nil {
		t.Fatal(err)
	}

	if got := e.Settings(); got.Width != 850 || got.Height != 1250 {
		t.Fatalf("Expected settings 850x1250, got %dx%d", got.Width, got.Height)
	}

	// Subsequent pages are regenerated with the new size and the offset
	// derived against the new defaults: default x is now 75, y is 125.
	if got := e.Masters().Single; got != (crop.Offset{X: 25, Y: 25}) {
		t.Errorf("Expected single master offset {25 25}, got %+v", got)
	}
	next := mustCrop(t, e, "page2.png")
	if next.Left.Width != 850 || next.Left.Height != 1250 {
		t.Errorf("Expected propagated 850x1250, got %dx%d", next.Left.Width, next.Left.Height)
	}
	if next.Left.X != 100 || next.Left.Y != 150 {
		t.Errorf("Expected propagated box at (100, 150), got (%d, %d)", next.Left.X, next.Left.Y)
	}
}

func TestToggleModePushesModeForward(t *testing.T) {
	e := newTestEngine(t)

	// Lock page 3 in single mode first.
	if err := e.SetPage(2); err != nil {
		t.Fatal(err)
	}
	if err := e.DragBox(crop.LeftBox, 0, 0); err != nil {
		t.Fatal(err)
	}

	if err := e.SetPage(0); err != nil {
		t.Fatal(err)
	}
	if err := e.ToggleMode(true); err != nil {
		t.Fatal(err)
	}

	// Current page regenerated as a facing-page pair.
	current := mustCrop(t, e, "page1.png")
	if !current.IsDoublePage || current.Left == nil || current.Right == nil {
		t.Fatal("Expected current page to become double-page with both boxes")
	}
	if current.Right.Y != current.Left.Y {
		t.Error("Double-page boxes must share a vertical position")
	}
	if !e.IsAdjusted("page1.png") {
		t.Error("Mode toggle must mark the current page adjusted")
	}

	// The unadjusted following page picked up the mode and was regenerated.
	if !e.EffectiveMode("page2.png") {
		t.Error("Mode must be pushed onto unadjusted subsequent pages")
	}
	next := mustCrop(t, e, "page2.png")
	if !next.IsDoublePage || next.Right == nil {
		t.Error("Propagation must regenerate subsequent pages in the new mode")
	}

	// The adjusted page's stored geometry is never regenerated, even
	// though the session default mode changed.
	locked := mustCrop(t, e, "page3.png")
	if locked.IsDoublePage {
		t.Error("Adjusted page must keep its single-page crop")
	}
}

func TestSetCropSizeOverridesAllPagesInPlace(t *testing.T) {
	e := newTestEngine(t)

	// Lock page 2 at a custom position.
	if err := e.SetPage(1); err != nil {
		t.Fatal(err)
	}
	if err := e.DragBox(crop.LeftBox, 20, 5); err != nil {
		t.Fatal(err)
	}

	if err := e.SetCropSize(900, 1300); err != nil {
		t.Fatal(err)
	}

	// Every page, adjusted or not, gets the new dimensions with its
	// position preserved.
	cases := []struct {
		name         string
		wantX, wantY int
	}{
		{"page1.png", 100, 150},
		{"page2.png", 120, 155},
		{"page3.png", 120, 155},
	}
	for _, c := range cases {
		pc := mustCrop(t, e, c.name)
		if pc.Left.Width != 900 || pc.Left.Height != 1300 {
			t.Errorf("%s: expected 900x1300, got %dx%d", c.name, pc.Left.Width, pc.Left.Height)
		}
		if pc.Left.X != c.wantX || pc.Left.Y != c.wantY {
			t.Errorf("%s: expected position (%d, %d) preserved, got (%d, %d)", c.name, c.wantX, c.wantY, pc.Left.X, pc.Left.Y)
		}
	}

	if got := e.Settings(); got.Width != 900 || got.Height != 1300 {
		t.Errorf("Expected settings 900x1300, got %dx%d", got.Width, got.Height)
	}
	if e.IsAdjusted("page1.png") || e.IsAdjusted("page3.png") {
		t.Error("Dimension changes must not mark pages adjusted")
	}
}

func TestSetCropSizeValidatesRange(t *testing.T) {
	e := newTestEngine(t)

	if err := e.SetCropSize(50, 1200); err == nil {
		t.Error("Expected error for width below minimum")
	}
	if err := e.SetCropSize(800, 9000); err == nil {
		t.Error("Expected error for height above maximum")
	}
	if got := e.Settings(); got.Width != 800 || got.Height != 1200 {
		t.Error("Rejected dimensions must not change settings")
	}
}

func TestSetPageRange(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetPage(-1); err == nil {
		t.Error("Expected error for negative index")
	}
	if err := e.SetPage(3); err == nil {
		t.Error("Expected error for index past the end")
	}
	if err := e.SetPage(2); err != nil {
		t.Errorf("Expected last page to be reachable: %v", err)
	}
}

func TestDragWithoutCropData(t *testing.T) {
	e := New(threePages()) // no InitializeAll
	if err := e.DragBox(crop.LeftBox, 1, 1); err == nil {
		t.Error("Expected error when the current page has no crop data")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetPage(1); err != nil {
		t.Fatal(err)
	}
	if err := e.ToggleMode(true); err != nil {
		t.Fatal(err)
	}
	if err := e.DragBox(crop.RightBox, -12, 8); err != nil {
		t.Fatal(err)
	}

	st := e.Snapshot()

	restored := New(threePages())
	restored.Restore(st)

	for _, name := range e.Files() {
		want, okWant := e.PageCrop(name)
		got, okGot := restored.PageCrop(name)
		if okWant != okGot || (okWant && !want.Equal(got)) {
			t.Errorf("%s: crop data did not survive restore", name)
		}
		if e.IsAdjusted(name) != restored.IsAdjusted(name) {
			t.Errorf("%s: adjusted flag did not survive restore", name)
		}
		if e.EffectiveMode(name) != restored.EffectiveMode(name) {
			t.Errorf("%s: mode did not survive restore", name)
		}
	}
	if e.Settings() != restored.Settings() {
		t.Error("Settings did not survive restore")
	}
	if e.Masters() != restored.Masters() {
		t.Error("Masters did not survive restore")
	}

	// Snapshot must be a copy, not a view.
	st.Crops["page1.png"].Left.X = -999
	if pc := mustCrop(t, e, "page1.png"); pc.Left.X == -999 {
		t.Error("Snapshot must not share box storage with the engine")
	}
}
