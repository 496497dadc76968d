// Package geometry holds the rectangle math used by the capture overlay.
//
// Coordinates are view coordinates: logical points with the origin at the
// bottom-left of the canvas and y growing upwards. Raster images use a
// top-left origin, so anything that touches pixels goes through FlipVertical.
package geometry

import (
	"image"
	"math"
)

type Point struct {
	X float64
	Y float64
}

type Size struct {
	Width  float64
	Height float64
}

// Rect is an origin plus a size. A normalized Rect has non-negative width and height.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) MinX() float64 { return r.X }
func (r Rect) MinY() float64 { return r.Y }
func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Span is width plus height in whole points. Each side is truncated first.
func (r Rect) Span() int { return int(r.Width) + int(r.Height) }

// Between returns the normalized bounds spanned by two points, in either drag direction.
func Between(a, b Point) Rect {
	return Rect{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}

// Normalize flips negative extents so the rectangle covers the same area with a positive size.
func (r Rect) Normalize() Rect {
	return Between(Point{r.X, r.Y}, Point{r.MaxX(), r.MaxY()})
}

// Inset shrinks the rectangle by dx on the left and right and dy on the top and bottom.
// Negative values grow it.
func (r Rect) Inset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width - 2*dx, Height: r.Height - 2*dy}
}

func (r Rect) Scale(f float64) Rect {
	return Rect{X: r.X * f, Y: r.Y * f, Width: r.Width * f, Height: r.Height * f}
}

// FlipVertical mirrors the rectangle about the horizontal centre line of a canvas of the
// given height. The new origin.y is height - r.MaxY().
func (r Rect) FlipVertical(height float64) Rect {
	return Rect{X: r.X, Y: height - r.MaxY(), Width: r.Width, Height: r.Height}
}

// Intersect clips r to bounds. The result is the zero Rect when they do not overlap.
func (r Rect) Intersect(bounds Rect) Rect {
	minX := math.Max(r.MinX(), bounds.MinX())
	minY := math.Max(r.MinY(), bounds.MinY())
	maxX := math.Min(r.MaxX(), bounds.MaxX())
	maxY := math.Min(r.MaxY(), bounds.MaxY())
	if maxX <= minX || maxY <= minY {
		return Rect{}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Pixels snaps the rectangle outwards to whole pixels.
func (r Rect) Pixels() image.Rectangle {
	return image.Rect(
		int(math.Floor(r.MinX())),
		int(math.Floor(r.MinY())),
		int(math.Ceil(r.MaxX())),
		int(math.Ceil(r.MaxY())),
	)
}

// Invert tiles a width x height canvas minus r with four non-overlapping rectangles:
// below, above, left and right of r. The left and right strips only span r's height.
func Invert(r Rect, width, height float64) [4]Rect {
	return [4]Rect{
		{X: 0, Y: 0, Width: width, Height: r.MinY()},
		{X: 0, Y: r.MaxY(), Width: width, Height: height - r.MaxY()},
		{X: 0, Y: r.MinY(), Width: r.MinX(), Height: r.Height},
		{X: r.MaxX(), Y: r.MinY(), Width: width - r.MaxX(), Height: r.Height},
	}
}
