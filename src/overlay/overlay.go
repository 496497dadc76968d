package overlay

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"

	"fyne.io/fyne/v2"

	"clarity/src/session"
)

var ErrEditorBusy = errors.New("an editing session is already open")

// Editor shows a captured image full-screen and lets the user crop it.
// The call blocks until the user confirms or cancels, and MUST NOT be made from the
// UI goroutine. Returns (image, cancelled, error). If cancelled is true, image is nil
// and err is nil unless ctx ended the session.
type Editor interface {
	Edit(ctx context.Context, img image.Image, mode session.Mode) (image.Image, bool, error)
}

type outcome struct {
	img       image.Image
	cancelled bool
	err       error
}

// FyneEditor shows each Edit call full-screen in a fyne window. The window is
// created on first use and hidden between sessions so the app keeps running.
type FyneEditor struct {
	app fyne.App
	// run schedules fn on the UI goroutine.
	run func(fn func())
	// closeOnFinish destroys the window after each session.
	closeOnFinish bool

	// win and current are only touched on the UI goroutine.
	win     fyne.Window
	current *editorWindow

	mu   sync.Mutex
	open bool
}

// NewEditor returns the editor used by the resident tray app.
func NewEditor(app fyne.App) *FyneEditor {
	return &FyneEditor{app: app, run: fyne.Do}
}

// NewRunOnceEditor returns an editor that closes its window when the session ends,
// letting the fyne run loop exit.
func NewRunOnceEditor(app fyne.App) *FyneEditor {
	return &FyneEditor{app: app, run: fyne.Do, closeOnFinish: true}
}

func (e *FyneEditor) window() fyne.Window {
	if e.win == nil || e.closeOnFinish {
		e.win = e.app.NewWindow("Clarity")
	}
	return e.win
}

func (e *FyneEditor) Edit(ctx context.Context, img image.Image, mode session.Mode) (image.Image, bool, error) {
	e.mu.Lock()
	if e.open {
		e.mu.Unlock()
		return nil, false, ErrEditorBusy
	}
	e.open = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.open = false
		e.mu.Unlock()
	}()

	done := make(chan outcome, 1)
	finish := func(o outcome) {
		select {
		case done <- o:
		default:
		}
	}

	e.run(func() {
		ew, err := newEditorWindow(img, mode, finish)
		if err != nil {
			finish(outcome{err: err})
			return
		}
		ew.attach(e.window(), e.closeOnFinish)
		e.current = ew
		ew.show()
		log.Printf("OVERLAY: editor shown (%dx%d, mode=%s)", img.Bounds().Dx(), img.Bounds().Dy(), mode)
	})

	select {
	case o := <-done:
		return o.img, o.cancelled, o.err
	case <-ctx.Done():
		e.run(func() {
			if e.current != nil {
				e.current.cancel()
			}
		})
		return nil, true, ctx.Err()
	}
}
