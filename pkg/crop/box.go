// Package crop defines the crop-geometry data model for scanned book pages
// and the placement math shared by default layout and master-template
// derivation.
package crop

import "fmt"

const (
	// MinBoxSize is the smallest width or height a crop box may be
	// resized to, in original-image pixels.
	MinBoxSize = 50

	// MinCropDim and MaxCropDim bound the global crop dimensions.
	MinCropDim = 100
	MaxCropDim = 5000

	// Default crop dimensions for a freshly opened folder.
	DefaultCropWidth  = 800
	DefaultCropHeight = 1200
)

// Box is a crop rectangle in original-image pixel coordinates. A box may
// extend outside the source image's bounds; the out-of-bounds area is filled
// with white at export time rather than clamped here.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Offset is a nudge applied to a computed default box position. Offsets are
// deltas, not absolute coordinates, so they can be reapplied to images of
// any size.
type Offset struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MasterPositions holds the user's preferred offsets from the computed
// default placements, one per box role. The right offset's Y component is
// never assigned: the right box always mirrors the left box's vertical
// position.
type MasterPositions struct {
	Single Offset `json:"single"`
	Left   Offset `json:"left"`
	Right  Offset `json:"right"`
}

// Settings holds the shared default crop dimensions applied to every page
// unless overridden by a manual resize.
type Settings struct {
	Width  int `json:"crop_width"`
	Height int `json:"crop_height"`
}

// DefaultSettings returns the crop dimensions used for a new document.
func DefaultSettings() Settings {
	return Settings{Width: DefaultCropWidth, Height: DefaultCropHeight}
}

// Validate checks that both dimensions are within the allowed range.
func (s Settings) Validate() error {
	if s.Width < MinCropDim || s.Width > MaxCropDim {
		return fmt.Errorf("crop width %d out of range [%d, %d]", s.Width, MinCropDim, MaxCropDim)
	}
	if s.Height < MinCropDim || s.Height > MaxCropDim {
		return fmt.Errorf("crop height %d out of range [%d, %d]", s.Height, MinCropDim, MaxCropDim)
	}
	return nil
}

// PageCrop is the crop geometry stored per source image. Right is present
// exactly when IsDoublePage is true; Left is always present once a page has
// been initialized.
type PageCrop struct {
	IsDoublePage bool `json:"is_double_page"`
	Left         *Box `json:"left_box,omitempty"`
	Right        *Box `json:"right_box,omitempty"`
}

// Clone returns a deep copy of the page crop.
func (p PageCrop) Clone() PageCrop {
	c := PageCrop{IsDoublePage: p.IsDoublePage}
	if p.Left != nil {
		left := *p.Left
		c.Left = &left
	}
	if p.Right != nil {
		right := *p.Right
		c.Right = &right
	}
	return c
}

// Equal reports whether two page crops describe identical geometry.
func (p PageCrop) Equal(o PageCrop) bool {
	if p.IsDoublePage != o.IsDoublePage {
		return false
	}
	if !boxEqual(p.Left, o.Left) {
		return false
	}
	return boxEqual(p.Right, o.Right)
}

func boxEqual(a, b *Box) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
