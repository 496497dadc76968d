package mask

import (
	"image/color"

	"clarity/src/geometry"
)

var (
	// DimColor is 50% black.
	DimColor = color.NRGBA{R: 0, G: 0, B: 0, A: 128}
	// OutlineColor is near-opaque white so the cutout edge stays visible on dark content.
	OutlineColor = color.NRGBA{R: 255, G: 255, B: 255, A: 230}
)

const OutlineWidth = 1

// Drawing is what the overlay paints on top of the snapshot. All rectangles are in view
// coordinates. Outline is nil when there is no selection.
type Drawing struct {
	Fills   []geometry.Rect
	Outline *geometry.Rect
}

// Build computes the mask for a canvas. With a selection, the canvas outside it is dimmed
// by four strips (empty when the selection touches that edge) and the selection gets an
// outline one point outside its edge. Without a selection the whole canvas is dimmed
// when dimEmpty is set (rectangle mode) and nothing is drawn otherwise.
func Build(canvas geometry.Size, selection *geometry.Rect, dimEmpty bool) Drawing {
	bounds := geometry.Rect{Width: canvas.Width, Height: canvas.Height}

	if selection == nil {
		if !dimEmpty || bounds.Empty() {
			return Drawing{}
		}
		return Drawing{Fills: []geometry.Rect{bounds}}
	}

	sel := selection.Normalize()
	clipped := sel.Intersect(bounds)
	if clipped.Empty() {
		// a zero-size drag still anchors at a point; keep the strips consistent
		clipped = geometry.Rect{
			X: clamp(sel.X, 0, canvas.Width),
			Y: clamp(sel.Y, 0, canvas.Height),
		}
	}

	strips := geometry.Invert(clipped, canvas.Width, canvas.Height)
	outline := sel.Inset(-OutlineWidth, -OutlineWidth)
	return Drawing{Fills: strips[:], Outline: &outline}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
