package overlay

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"clarity/src/geometry"
	"clarity/src/mask"
	"clarity/src/session"
)

// canvasView draws the snapshot and the selection mask, and feeds pointer input into
// the session. Fyne positions have a top-left origin; the session works in
// bottom-left view coordinates, so every point crossing the boundary is flipped.
type canvasView struct {
	widget.BaseWidget
	sess *session.Session
}

var (
	_ fyne.Draggable     = (*canvasView)(nil)
	_ desktop.Mouseable  = (*canvasView)(nil)
	_ desktop.Cursorable = (*canvasView)(nil)
)

func newCanvasView(sess *session.Session) *canvasView {
	v := &canvasView{sess: sess}
	v.ExtendBaseWidget(v)
	return v
}

func (v *canvasView) CreateRenderer() fyne.WidgetRenderer {
	img := canvas.NewImageFromImage(v.sess.Image())
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScaleFastest

	r := &canvasRenderer{view: v, img: img}
	for i := range r.fills {
		r.fills[i] = canvas.NewRectangle(mask.DimColor)
		r.fills[i].Hide()
	}
	r.outline = canvas.NewRectangle(color.Transparent)
	r.outline.StrokeColor = mask.OutlineColor
	r.outline.StrokeWidth = mask.OutlineWidth
	r.outline.Hide()

	r.objects = []fyne.CanvasObject{img}
	for _, f := range r.fills {
		r.objects = append(r.objects, f)
	}
	r.objects = append(r.objects, r.outline)
	return r
}

func (v *canvasView) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	v.sess.Press(v.toView(ev.Position))
}

func (v *canvasView) MouseUp(*desktop.MouseEvent) {
	v.sess.Release()
}

func (v *canvasView) Dragged(ev *fyne.DragEvent) {
	v.sess.Drag(v.toView(ev.Position))
}

func (v *canvasView) DragEnd() {
	v.sess.Release()
}

func (v *canvasView) Cursor() desktop.Cursor {
	if v.sess.Mode() == session.ModeRectangle && !v.sess.HasSelected() {
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}

func (v *canvasView) toView(p fyne.Position) geometry.Point {
	return geometry.Point{X: float64(p.X), Y: float64(v.Size().Height - p.Y)}
}

type canvasRenderer struct {
	view    *canvasView
	img     *canvas.Image
	fills   [4]*canvas.Rectangle
	outline *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *canvasRenderer) Layout(size fyne.Size) {
	r.img.Move(fyne.NewPos(0, 0))
	r.img.Resize(size)
	r.view.sess.SetCanvas(geometry.Size{Width: float64(size.Width), Height: float64(size.Height)})
	r.applyMask(size)
}

func (r *canvasRenderer) MinSize() fyne.Size { return fyne.NewSize(1, 1) }

func (r *canvasRenderer) Refresh() {
	r.applyMask(r.view.Size())
	for _, o := range r.objects[1:] {
		canvas.Refresh(o)
	}
}

func (r *canvasRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *canvasRenderer) Destroy() {}

func (r *canvasRenderer) applyMask(size fyne.Size) {
	d := r.view.sess.Mask()
	for i, f := range r.fills {
		if i >= len(d.Fills) || d.Fills[i].Empty() {
			f.Hide()
			continue
		}
		place(f, d.Fills[i], size.Height)
		f.Show()
	}
	if d.Outline == nil {
		r.outline.Hide()
		return
	}
	place(r.outline, *d.Outline, size.Height)
	r.outline.Show()
}

// place positions o over a view-coordinate rectangle on a canvas of the given height.
func place(o fyne.CanvasObject, rect geometry.Rect, height float32) {
	o.Move(fyne.NewPos(float32(rect.X), height-float32(rect.MaxY())))
	o.Resize(fyne.NewSize(float32(rect.Width), float32(rect.Height)))
}
