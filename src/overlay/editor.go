package overlay

import (
	"image"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"clarity/src/geometry"
	"clarity/src/session"
)

// editorWindow is one editing session: the session it drives, the widgets bound to
// it, and the callback that receives the result exactly once. The fyne window it
// is attached to may outlive it.
type editorWindow struct {
	win      fyne.Window
	sess     *session.Session
	view     *canvasView
	bar      *toolbar
	finish   func(outcome)
	finished bool

	// closeOnFinish destroys the window when the session ends instead of hiding it.
	closeOnFinish bool
	hidden        bool
	closed        bool
}

func newEditorWindow(img image.Image, mode session.Mode, finish func(outcome)) (*editorWindow, error) {
	ew := &editorWindow{finish: finish}

	sess, err := session.New(img, session.Options{
		Mode:         mode,
		OnSelect:     ew.onSelect,
		OnModeChange: ew.onModeChange,
		OnChange:     ew.onChange,
	})
	if err != nil {
		return nil, err
	}
	ew.sess = sess
	ew.view = newCanvasView(sess)
	ew.bar = newToolbar(mode, ew.confirm, ew.cancel, ew.toggleMode)
	return ew, nil
}

// attach binds the session to win, replacing whatever an earlier session left there.
func (ew *editorWindow) attach(win fyne.Window, closeOnFinish bool) {
	ew.win = win
	ew.closeOnFinish = closeOnFinish
	win.SetPadded(false)
	win.SetContent(container.New(&editorLayout{bar: ew.bar}, ew.view, ew.bar.box))
	win.Canvas().SetOnTypedKey(ew.typedKey)
	win.SetCloseIntercept(func() {
		log.Printf("OVERLAY: window close requested, cancelling")
		ew.cancel()
	})
}

func (ew *editorWindow) show() {
	ew.hidden = false
	ew.win.SetFullScreen(true)
	ew.win.Show()
	ew.win.RequestFocus()
	if ew.sess.Mode() == session.ModeWholeScreen {
		ew.bar.show()
	}
}

func (ew *editorWindow) typedKey(ev *fyne.KeyEvent) {
	switch ew.sess.HandleKey(keyFor(ev.Name)) {
	case session.ActionCancel:
		ew.cancel()
	case session.ActionConfirm:
		ew.confirm()
	case session.ActionShowToolbar:
		ew.bar.show()
	case session.ActionSelectionReset:
		ew.bar.showModeButton()
		ew.bar.hide()
	}
}

func keyFor(name fyne.KeyName) session.Key {
	switch name {
	case fyne.KeyEscape:
		return session.KeyEscape
	case fyne.KeyReturn, fyne.KeyEnter:
		return session.KeyEnter
	case fyne.KeyUp:
		return session.KeyUp
	case fyne.KeySpace:
		return session.KeySpace
	case fyne.KeyBackspace, fyne.KeyDelete:
		return session.KeyBackspace
	default:
		return session.KeyUnknown
	}
}

func (ew *editorWindow) confirm() {
	if ew.finished {
		return
	}
	img, err := ew.sess.Confirm()
	if err != nil {
		log.Printf("OVERLAY: confirm failed: %v", err)
	} else {
		log.Printf("OVERLAY: confirmed %dx%d image", img.Bounds().Dx(), img.Bounds().Dy())
	}
	ew.done(outcome{img: img, err: err})
	ew.dismiss()
}

func (ew *editorWindow) cancel() {
	if ew.finished {
		return
	}
	ew.sess.Cancel()
	log.Printf("OVERLAY: cancelled")
	ew.done(outcome{cancelled: true})
	ew.dismiss()
}

// dismiss hides the window for the next session, or closes it when closeOnFinish is set.
// The app must keep a window alive: the driver quits once the last one is destroyed.
func (ew *editorWindow) dismiss() {
	if ew.closeOnFinish {
		ew.closed = true
		ew.win.Close()
		return
	}
	ew.hidden = true
	ew.win.SetFullScreen(false)
	ew.win.Hide()
}

func (ew *editorWindow) toggleMode() {
	if !ew.sess.ToggleMode() {
		log.Printf("OVERLAY: mode toggle ignored in state %s", ew.sess.State())
	}
}

func (ew *editorWindow) done(o outcome) {
	ew.finished = true
	ew.finish(o)
}

func (ew *editorWindow) onSelect(r geometry.Rect) {
	log.Printf("OVERLAY: selection finalized %+v", r)
	ew.bar.hideModeButton()
	ew.bar.show()
}

func (ew *editorWindow) onModeChange(m session.Mode) {
	ew.bar.setMode(m)
	if m == session.ModeWholeScreen {
		ew.bar.show()
	} else {
		ew.bar.hide()
	}
}

func (ew *editorWindow) onChange() {
	if ew.view != nil {
		ew.view.Refresh()
	}
}
