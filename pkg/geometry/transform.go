// Package geometry converts coordinates between an image's original pixel
// space and a scaled display representation of the same image.
package geometry

// Transform holds the per-axis scale factors between an original image and
// its scaled display representation. A scale factor is the number of
// original pixels per display pixel.
type Transform struct {
	ScaleX float64
	ScaleY float64
}

// NewTransform builds a Transform from the original image dimensions and the
// dimensions of the scaled representation shown on screen. A zero dimension
// on either axis yields an identity scale for that axis instead of dividing
// by zero.
func NewTransform(originalW, originalH, displayW, displayH int) Transform {
	t := Transform{ScaleX: 1.0, ScaleY: 1.0}
	if originalW > 0 && displayW > 0 {
		t.ScaleX = float64(originalW) / float64(displayW)
	}
	if originalH > 0 && displayH > 0 {
		t.ScaleY = float64(originalH) / float64(displayH)
	}
	return t
}

// ToOriginalPoint converts a display-space point to original image
// coordinates. Results are truncated to integers.
func (t Transform) ToOriginalPoint(x, y int) (int, int) {
	return int(float64(x) * t.ScaleX), int(float64(y) * t.ScaleY)
}

// ToDisplayPoint converts an original-image point to display coordinates.
// Results are truncated to integers.
func (t Transform) ToDisplayPoint(x, y int) (int, int) {
	return int(float64(x) / t.ScaleX), int(float64(y) / t.ScaleY)
}

// ToOriginalRect converts a display-space rectangle to original image
// coordinates. Each component is scaled independently so that a rectangle
// round-trips the same way its corner point does.
func (t Transform) ToOriginalRect(x, y, w, h int) (int, int, int, int) {
	ox, oy := t.ToOriginalPoint(x, y)
	return ox, oy, int(float64(w) * t.ScaleX), int(float64(h) * t.ScaleY)
}

// ToDisplayRect converts an original-image rectangle to display coordinates.
func (t Transform) ToDisplayRect(x, y, w, h int) (int, int, int, int) {
	dx, dy := t.ToDisplayPoint(x, y)
	return dx, dy, int(float64(w) / t.ScaleX), int(float64(h) / t.ScaleY)
}
