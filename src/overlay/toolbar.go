package overlay

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"clarity/src/session"
)

const (
	toolbarAnimDuration = 500 * time.Millisecond
	toolbarShownGap     = 75 // distance from the bottom edge when shown
	toolbarHiddenGap    = 50 // distance below the bottom edge when hidden
)

// toolbar is the secondary bar that slides up from the bottom of the editor.
type toolbar struct {
	box        *fyne.Container
	bar        *widget.Toolbar
	modeAction *widget.ToolbarAction
	modeShown  bool
	hidden     bool
	anim       *fyne.Animation
	canvasSize fyne.Size
}

func newToolbar(mode session.Mode, onConfirm, onCancel, onToggle func()) *toolbar {
	t := &toolbar{hidden: true, modeShown: true}
	t.modeAction = widget.NewToolbarAction(modeIcon(mode), onToggle)
	t.bar = widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentCopyIcon(), onConfirm),
		widget.NewToolbarAction(theme.CancelIcon(), onCancel),
		widget.NewToolbarSeparator(),
		t.modeAction,
	)

	bg := canvas.NewRectangle(theme.Color(theme.ColorNameOverlayBackground))
	bg.CornerRadius = 25
	t.box = container.NewStack(bg, container.NewPadded(t.bar))
	return t
}

func modeIcon(mode session.Mode) fyne.Resource {
	if mode == session.ModeWholeScreen {
		return theme.ComputerIcon()
	}
	return theme.ContentCutIcon()
}

func (t *toolbar) setMode(mode session.Mode) {
	t.modeAction.SetIcon(modeIcon(mode))
}

// hideModeButton drops the mode toggle once a selection has been made.
func (t *toolbar) hideModeButton() {
	if !t.modeShown {
		return
	}
	t.modeShown = false
	t.bar.Items = t.bar.Items[:2]
	t.bar.Refresh()
}

func (t *toolbar) showModeButton() {
	if t.modeShown {
		return
	}
	t.modeShown = true
	t.bar.Items = append(t.bar.Items, widget.NewToolbarSeparator(), t.modeAction)
	t.bar.Refresh()
}

func (t *toolbar) show() {
	if !t.hidden {
		return
	}
	t.hidden = false
	t.animateTo(t.position(), fyne.AnimationEaseOut)
}

func (t *toolbar) hide() {
	if t.hidden {
		return
	}
	t.hidden = true
	t.animateTo(t.position(), fyne.AnimationEaseIn)
}

// position is where the bar rests for the current visibility.
func (t *toolbar) position() fyne.Position {
	size := t.box.MinSize()
	x := (t.canvasSize.Width - size.Width) / 2
	if t.hidden {
		return fyne.NewPos(x, t.canvasSize.Height+toolbarHiddenGap)
	}
	return fyne.NewPos(x, t.canvasSize.Height-toolbarShownGap-size.Height)
}

func (t *toolbar) animateTo(pos fyne.Position, curve fyne.AnimationCurve) {
	if t.anim != nil {
		t.anim.Stop()
	}
	t.anim = canvas.NewPositionAnimation(t.box.Position(), pos, toolbarAnimDuration, t.box.Move)
	t.anim.Curve = curve
	t.anim.Start()
}

// editorLayout stretches the canvas view over the window and parks the toolbar.
type editorLayout struct {
	bar *toolbar
}

func (l *editorLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	objects[0].Move(fyne.NewPos(0, 0))
	objects[0].Resize(size)

	l.bar.canvasSize = size
	if l.bar.anim != nil {
		l.bar.anim.Stop()
	}
	objects[1].Resize(objects[1].MinSize())
	objects[1].Move(l.bar.position())
}

func (l *editorLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(1, 1)
}
