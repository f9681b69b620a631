package crop

// Default placement anchors a single-page box at the image center, and
// double-page boxes at the quarter and three-quarter width points. Both
// forward layout (LayoutPage) and reverse master derivation (DeriveMasters)
// go through the same position helpers so that applying a freshly derived
// offset reproduces the edited box exactly.

// floorDiv is integer division rounding toward negative infinity. Crop
// dimensions can exceed the image, making these intermediate values
// negative, and reloaded documents must recompute the same positions that
// were persisted.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func defaultSinglePos(imgW, imgH int, s Settings) (int, int) {
	return floorDiv(imgW-s.Width, 2), floorDiv(imgH-s.Height, 2)
}

func defaultLeftPos(imgW, imgH int, s Settings) (int, int) {
	return floorDiv(imgW, 4) - floorDiv(s.Width, 2), floorDiv(imgH-s.Height, 2)
}

func defaultRightX(imgW int, s Settings) int {
	return floorDiv(imgW*3, 4) - floorDiv(s.Width, 2)
}

// LayoutPage computes crop geometry for an image of the given original size,
// nudged by the master positions. In double-page mode the right box shares
// the left box's vertical position; the right master offset contributes only
// horizontally.
func LayoutPage(imgW, imgH int, s Settings, m MasterPositions, double bool) PageCrop {
	pc := PageCrop{IsDoublePage: double}

	if double {
		lx, ly := defaultLeftPos(imgW, imgH, s)
		left := Box{
			X:      lx + m.Left.X,
			Y:      ly + m.Left.Y,
			Width:  s.Width,
			Height: s.Height,
		}
		right := Box{
			X:      defaultRightX(imgW, s) + m.Right.X,
			Y:      left.Y,
			Width:  s.Width,
			Height: s.Height,
		}
		pc.Left, pc.Right = &left, &right
		return pc
	}

	sx, sy := defaultSinglePos(imgW, imgH, s)
	pc.Left = &Box{
		X:      sx + m.Single.X,
		Y:      sy + m.Single.Y,
		Width:  s.Width,
		Height: s.Height,
	}
	return pc
}

// DeriveMasters recomputes the master offsets from a manually edited page by
// subtracting the un-nudged default position from the box's actual position.
// Applying the result back through LayoutPage on the same image reproduces
// the edited coordinates. Offsets for the roles not present on the page are
// carried over unchanged.
func DeriveMasters(pc PageCrop, imgW, imgH int, s Settings, m MasterPositions) MasterPositions {
	if pc.IsDoublePage {
		if pc.Left != nil {
			lx, ly := defaultLeftPos(imgW, imgH, s)
			m.Left = Offset{X: pc.Left.X - lx, Y: pc.Left.Y - ly}
		}
		if pc.Right != nil {
			// Only the horizontal offset is tracked for the right box;
			// its vertical position always follows the left box.
			m.Right.X = pc.Right.X - defaultRightX(imgW, s)
		}
		return m
	}

	if pc.Left != nil {
		sx, sy := defaultSinglePos(imgW, imgH, s)
		m.Single = Offset{X: pc.Left.X - sx, Y: pc.Left.Y - sy}
	}
	return m
}
