// Package session holds the state of one capture-and-crop interaction: the snapshot,
// the capture mode and the rectangle the user is selecting on top of it.
//
// A Session is not safe for concurrent use. It is driven from the UI goroutine only.
package session

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"clarity/src/geometry"
	"clarity/src/mask"
	"clarity/src/screenshot"
)

// MinSelectionSpan is the width+height a drag must exceed to count as a selection.
const MinSelectionSpan = 10

var (
	ErrNoImage       = errors.New("session requires a captured image")
	ErrSessionClosed = errors.New("session already closed")
	ErrEmptyCrop     = errors.New("selection does not overlap the captured image")
)

type Mode int

const (
	ModeRectangle Mode = iota
	ModeWholeScreen
)

func (m Mode) String() string {
	switch m {
	case ModeRectangle:
		return "rectangle"
	case ModeWholeScreen:
		return "screen"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the names used in configuration and on the command line.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rect", "rectangle":
		return ModeRectangle, nil
	case "screen", "whole", "fullscreen":
		return ModeWholeScreen, nil
	default:
		return ModeRectangle, fmt.Errorf("unknown capture mode %q", s)
	}
}

type State int

const (
	StateNoSelection State = iota
	StateDragging
	StateSelected
)

func (s State) String() string {
	switch s {
	case StateNoSelection:
		return "no-selection"
	case StateDragging:
		return "dragging"
	case StateSelected:
		return "selected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Options struct {
	Mode Mode
	// Canvas is the size of the view the snapshot is shown in, in points.
	Canvas geometry.Size
	// BackingScale is pixels per point. Zero derives it from the image and canvas widths.
	BackingScale float64

	OnSelect     func(geometry.Rect)
	OnModeChange func(Mode)
	OnChange     func()
}

type Session struct {
	base      image.Image
	opts      Options
	mode      Mode
	state     State
	anchor    geometry.Point
	moved     bool
	selection geometry.Rect
	canvas    geometry.Size
	closed    bool
}

func New(base image.Image, opts Options) (*Session, error) {
	if base == nil || base.Bounds().Empty() {
		return nil, ErrNoImage
	}
	return &Session{
		base:   base,
		opts:   opts,
		mode:   opts.Mode,
		canvas: opts.Canvas,
	}, nil
}

func (s *Session) Image() image.Image { return s.base }
func (s *Session) Mode() Mode { return s.mode }
func (s *Session) State() State { return s.state }
func (s *Session) Dragging() bool { return s.state == StateDragging }
func (s *Session) HasSelected() bool { return s.state == StateSelected }
func (s *Session) Closed() bool { return s.closed }

func (s *Session) SetCanvas(size geometry.Size) {
	if size == s.canvas {
		return
	}
	s.canvas = size
	s.changed()
}

// Selection returns the pending or finalized rectangle, if any. A press that has
// not moved yet has no rectangle.
func (s *Session) Selection() (geometry.Rect, bool) {
	if s.state == StateNoSelection || (s.state == StateDragging && !s.moved) {
		return geometry.Rect{}, false
	}
	return s.selection, true
}

// BackingScale returns the pixels-per-point ratio between the snapshot and the canvas.
func (s *Session) BackingScale() float64 {
	if s.opts.BackingScale > 0 {
		return s.opts.BackingScale
	}
	if s.canvas.Width > 0 {
		return float64(s.base.Bounds().Dx()) / s.canvas.Width
	}
	return 1
}

// Press starts a drag at p. It is ignored outside rectangle mode and once a
// selection exists.
func (s *Session) Press(p geometry.Point) {
	if s.closed || s.mode != ModeRectangle || s.state != StateNoSelection {
		return
	}
	s.state = StateDragging
	s.anchor = p
	s.moved = false
	s.selection = geometry.Rect{}
	s.changed()
}

// Drag moves the free corner of the pending rectangle to p.
func (s *Session) Drag(p geometry.Point) {
	if s.closed || s.state != StateDragging {
		return
	}
	s.moved = true
	s.selection = geometry.Between(s.anchor, p)
	s.changed()
}

// Release ends a drag. The rectangle is kept only when its whole-point span
// exceeds MinSelectionSpan; it reports whether a selection was finalized.
func (s *Session) Release() bool {
	if s.closed || s.state != StateDragging {
		return false
	}
	// Each side is truncated before summing, so 5.9x5.9 counts as 10 and is dropped.
	if s.moved && s.selection.Span() > MinSelectionSpan {
		s.state = StateSelected
		if s.opts.OnSelect != nil {
			s.opts.OnSelect(s.selection)
		}
		s.changed()
		return true
	}
	s.state = StateNoSelection
	s.selection = geometry.Rect{}
	s.changed()
	return false
}

// ToggleMode switches between rectangle and whole-screen capture. It is a no-op
// while dragging or once a selection has been made.
func (s *Session) ToggleMode() bool {
	if s.closed || s.state != StateNoSelection {
		return false
	}
	if s.mode == ModeRectangle {
		s.mode = ModeWholeScreen
	} else {
		s.mode = ModeRectangle
	}
	if s.opts.OnModeChange != nil {
		s.opts.OnModeChange(s.mode)
	}
	s.changed()
	return true
}

// Reset drops a finalized selection so a new one can be dragged.
func (s *Session) Reset() bool {
	if s.closed || s.state != StateSelected {
		return false
	}
	s.state = StateNoSelection
	s.selection = geometry.Rect{}
	s.changed()
	return true
}

// Mask returns what should be drawn over the snapshot for the current state.
func (s *Session) Mask() mask.Drawing {
	sel, ok := s.Selection()
	if !ok {
		return mask.Build(s.canvas, nil, s.mode == ModeRectangle)
	}
	return mask.Build(s.canvas, &sel, s.mode == ModeRectangle)
}

// Confirm closes the session and returns the image to hand out: the selection cropped
// out of the snapshot in rectangle mode, the untouched snapshot otherwise.
func (s *Session) Confirm() (image.Image, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	s.closed = true
	if s.mode == ModeRectangle && s.state == StateSelected {
		cropped, err := CropView(s.base, s.selection, s.BackingScale())
		if err != nil {
			return nil, err
		}
		return cropped, nil
	}
	return s.base, nil
}

// Cancel closes the session without output.
func (s *Session) Cancel() {
	s.closed = true
	s.state = StateNoSelection
	s.selection = geometry.Rect{}
}

// CropView crops img to r, where r is in bottom-left-origin view coordinates. r is
// scaled to pixels and then flipped against the image height.
func CropView(img image.Image, r geometry.Rect, scale float64) (*image.RGBA, error) {
	b := img.Bounds()
	px := r.Normalize().Scale(scale).FlipVertical(float64(b.Dy())).Pixels().Add(b.Min)
	if px.Intersect(b).Empty() {
		return nil, ErrEmptyCrop
	}
	return screenshot.Crop(img, px)
}

func (s *Session) changed() {
	if s.opts.OnChange != nil {
		s.opts.OnChange()
	}
}
