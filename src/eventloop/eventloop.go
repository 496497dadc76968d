package eventloop

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/google/uuid"

	"clarity/src/clipboard"
	"clarity/src/hotkey"
	"clarity/src/overlay"
	"clarity/src/screenshot"
	"clarity/src/session"
)

// ErrCancelled is returned by RunOnce when the user dismissed the editor.
var ErrCancelled = errors.New("capture cancelled")

// Options wires the loop to its collaborators. Capture and Copy default to the
// screenshot and clipboard packages.
type Options struct {
	Editor  overlay.Editor
	Capture func(display int) (image.Image, error)
	Copy    func(image.Image) error
	Mode    session.Mode
	Display int
	// OnBusy is told when a session opens and closes, e.g. to relabel the tray.
	OnBusy func(bool)
}

// Loop is the single-goroutine coordinator: trigger, capture, edit, copy.
type Loop struct {
	editor   overlay.Editor
	capture  func(int) (image.Image, error)
	copy     func(image.Image) error
	mode     session.Mode
	display  int
	onBusy   func(bool)
	triggers chan struct{}
}

func New(opts Options) *Loop {
	l := &Loop{
		editor:   opts.Editor,
		capture:  opts.Capture,
		copy:     opts.Copy,
		mode:     opts.Mode,
		display:  opts.Display,
		onBusy:   opts.OnBusy,
		triggers: make(chan struct{}, 1),
	}
	if l.capture == nil {
		l.capture = captureDisplay
	}
	if l.copy == nil {
		l.copy = clipboard.WriteImage
	}
	return l
}

// Trigger requests a capture session. It never blocks; a trigger that arrives while
// one is already pending is dropped.
func (l *Loop) Trigger() {
	select {
	case l.triggers <- struct{}{}:
	default:
	}
}

// StartHotkey registers a global hotkey that posts triggers into the loop.
func (l *Loop) StartHotkey(ctx context.Context, combo string) error {
	if combo == "" {
		return nil
	}
	return hotkey.Listen(ctx, combo, l.Trigger)
}

// Run processes triggers until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.triggers:
			l.handleTrigger(ctx)
		}
	}
}

// RunOnce performs a single capture session and reports how it ended.
func (l *Loop) RunOnce(ctx context.Context) error {
	return l.runSession(ctx)
}

func (l *Loop) handleTrigger(ctx context.Context) {
	log.Printf("handleTrigger: called")
	err := l.runSession(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrCancelled):
		log.Printf("handleTrigger: cancelled")
	default:
		log.Printf("handleTrigger: %v", err)
	}
}

func (l *Loop) runSession(ctx context.Context) error {
	id := sessionID()
	img, err := l.capture(l.display)
	if err != nil {
		return fmt.Errorf("session %s: capture display %d: %w", id, l.display, err)
	}
	log.Printf("runSession: %s captured display %d (%dx%d)", id, l.display, img.Bounds().Dx(), img.Bounds().Dy())

	l.setBusy(true)
	out, cancelled, err := l.editor.Edit(ctx, img, l.mode)
	l.setBusy(false)
	l.drainTriggers()
	if err != nil {
		return fmt.Errorf("session %s: edit: %w", id, err)
	}
	if cancelled {
		return ErrCancelled
	}

	if err := l.copy(out); err != nil {
		return fmt.Errorf("session %s: copy to clipboard: %w", id, err)
	}
	b := out.Bounds()
	log.Printf("runSession: %s copied %dx%d image to clipboard", id, b.Dx(), b.Dy())
	return nil
}

// sessionID returns a time-ordered id for correlating a session's log lines.
func sessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("s%d", time.Now().UnixNano())
	}
	return id.String()
}

// drainTriggers drops hotkey presses that queued up while the editor was open.
func (l *Loop) drainTriggers() {
	for {
		select {
		case <-l.triggers:
			log.Printf("drainTriggers: dropped trigger received during session")
		default:
			return
		}
	}
}

func (l *Loop) setBusy(b bool) {
	if l.onBusy != nil {
		l.onBusy(b)
	}
}

func captureDisplay(index int) (image.Image, error) {
	d, err := screenshot.DisplayAt(index)
	if err != nil {
		return nil, err
	}
	img, err := screenshot.Capture(d)
	if err != nil {
		return nil, err
	}
	return img, nil
}
