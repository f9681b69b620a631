package crop

// Side selects one of the two boxes on a page. Single-page crops only have
// a left box.
type Side int

const (
	LeftBox Side = iota
	RightBox
)

// Handle identifies the corner grabbed during a resize gesture.
type Handle int

const (
	TopLeft Handle = iota
	TopRight
	BottomLeft
	BottomRight
)

func (h Handle) top() bool {
	return h == TopLeft || h == TopRight
}

func (h Handle) left() bool {
	return h == TopLeft || h == BottomLeft
}

func (p *PageCrop) box(side Side) *Box {
	if side == RightBox {
		return p.Right
	}
	return p.Left
}

func (p *PageCrop) other(side Side) *Box {
	if side == RightBox {
		return p.Left
	}
	return p.Right
}

// Drag moves the selected box by a delta in original-image coordinates. In
// double-page mode the other box's vertical position follows the dragged
// box. Returns false if the page has no box on that side.
func (p *PageCrop) Drag(side Side, dx, dy int) bool {
	b := p.box(side)
	if b == nil {
		return false
	}
	b.X += dx
	b.Y += dy

	if p.IsDoublePage {
		if o := p.other(side); o != nil {
			o.Y = b.Y
		}
	}
	return true
}

// Resize moves one corner of the selected box to a point in original-image
// coordinates, keeping both dimensions at least MinBoxSize. In double-page
// mode the other box adopts the new size and vertical position. Returns
// false if the page has no box on that side.
func (p *PageCrop) Resize(side Side, handle Handle, px, py int) bool {
	b := p.box(side)
	if b == nil {
		return false
	}

	left, top := b.X, b.Y
	right, bottom := b.X+b.Width, b.Y+b.Height

	if handle.top() {
		top = min(py, bottom-MinBoxSize)
	} else {
		bottom = max(py, top+MinBoxSize)
	}
	if handle.left() {
		left = min(px, right-MinBoxSize)
	} else {
		right = max(px, left+MinBoxSize)
	}

	b.X, b.Y = left, top
	b.Width, b.Height = right-left, bottom-top

	if p.IsDoublePage {
		if o := p.other(side); o != nil {
			o.Width = b.Width
			o.Height = b.Height
			o.Y = b.Y
		}
	}
	return true
}
