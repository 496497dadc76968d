package eventloop

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"clarity/src/screenshot"
	"clarity/src/session"
)

type fakeEditor struct {
	mu        sync.Mutex
	calls     int
	modes     []session.Mode
	out       image.Image
	cancelled bool
	err       error
	during    func()
}

func (f *fakeEditor) Edit(ctx context.Context, img image.Image, mode session.Mode) (image.Image, bool, error) {
	f.mu.Lock()
	f.calls++
	f.modes = append(f.modes, mode)
	during := f.during
	f.mu.Unlock()
	if during != nil {
		during()
	}
	if f.err != nil || f.cancelled {
		return nil, f.cancelled, f.err
	}
	if f.out != nil {
		return f.out, false, nil
	}
	return img, false, nil
}

func (f *fakeEditor) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func fakeCapture(img image.Image, err error) func(int) (image.Image, error) {
	return func(int) (image.Image, error) { return img, err }
}

func TestRunOnceCopiesEditedImage(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 40, 20))
	crop := image.NewRGBA(image.Rect(0, 0, 10, 5))
	ed := &fakeEditor{out: crop}
	var copied image.Image
	var busy []bool

	l := New(Options{
		Editor:  ed,
		Capture: fakeCapture(base, nil),
		Copy:    func(img image.Image) error { copied = img; return nil },
		Mode:    session.ModeWholeScreen,
		OnBusy:  func(b bool) { busy = append(busy, b) },
	})
	if err := l.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if copied != crop {
		t.Fatal("expected the edited image on the clipboard")
	}
	if len(ed.modes) != 1 || ed.modes[0] != session.ModeWholeScreen {
		t.Errorf("editor modes = %v", ed.modes)
	}
	if len(busy) != 2 || !busy[0] || busy[1] {
		t.Errorf("busy transitions = %v, want [true false]", busy)
	}
}

func TestRunOnceCancelled(t *testing.T) {
	ed := &fakeEditor{cancelled: true}
	copyCalled := false
	l := New(Options{
		Editor:  ed,
		Capture: fakeCapture(image.NewRGBA(image.Rect(0, 0, 4, 4)), nil),
		Copy:    func(image.Image) error { copyCalled = true; return nil },
	})
	if err := l.RunOnce(context.Background()); !errors.Is(err, ErrCancelled) {
		t.Fatalf("err = %v, want ErrCancelled", err)
	}
	if copyCalled {
		t.Fatal("cancel must not touch the clipboard")
	}
}

func TestRunOnceCaptureFailureSkipsEditor(t *testing.T) {
	for _, capErr := range []error{screenshot.ErrNoDisplay, screenshot.ErrBlankCapture} {
		ed := &fakeEditor{}
		l := New(Options{
			Editor:  ed,
			Capture: fakeCapture(nil, capErr),
			Copy:    func(image.Image) error { t.Fatal("copy called"); return nil },
		})
		err := l.RunOnce(context.Background())
		if !errors.Is(err, capErr) {
			t.Errorf("err = %v, want %v", err, capErr)
		}
		if ed.count() != 0 {
			t.Errorf("editor opened after %v", capErr)
		}
	}
}

func TestRunOnceErrors(t *testing.T) {
	editErr := errors.New("window failed")
	l := New(Options{
		Editor:  &fakeEditor{err: editErr},
		Capture: fakeCapture(image.NewRGBA(image.Rect(0, 0, 4, 4)), nil),
		Copy:    func(image.Image) error { return nil },
	})
	if err := l.RunOnce(context.Background()); !errors.Is(err, editErr) {
		t.Errorf("err = %v, want %v", err, editErr)
	}

	copyErr := errors.New("pasteboard unavailable")
	l = New(Options{
		Editor:  &fakeEditor{},
		Capture: fakeCapture(image.NewRGBA(image.Rect(0, 0, 4, 4)), nil),
		Copy:    func(image.Image) error { return copyErr },
	})
	if err := l.RunOnce(context.Background()); !errors.Is(err, copyErr) {
		t.Errorf("err = %v, want %v", err, copyErr)
	}
}

func TestTriggerNeverBlocks(t *testing.T) {
	l := New(Options{Editor: &fakeEditor{}})
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			l.Trigger()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Trigger blocked")
	}
	if n := len(l.triggers); n != 1 {
		t.Fatalf("pending triggers = %d, want 1", n)
	}
}

func TestRunDropsTriggersDuringSession(t *testing.T) {
	ed := &fakeEditor{}
	copied := make(chan struct{}, 4)
	l := New(Options{
		Editor:  ed,
		Capture: fakeCapture(image.NewRGBA(image.Rect(0, 0, 4, 4)), nil),
		Copy:    func(image.Image) error { copied <- struct{}{}; return nil },
	})
	ed.during = func() {
		// hotkey mashed while the overlay is up
		l.Trigger()
		l.Trigger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan error, 1)
	go func() { ran <- l.Run(ctx) }()

	wait := func() {
		t.Helper()
		select {
		case <-copied:
		case <-time.After(2 * time.Second):
			t.Fatal("session did not complete")
		}
	}

	l.Trigger()
	wait()
	ed.mu.Lock()
	ed.during = nil
	ed.mu.Unlock()
	l.Trigger()
	wait()

	cancel()
	if err := <-ran; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v", err)
	}
	if n := ed.count(); n != 2 {
		t.Fatalf("editor opened %d times, want 2", n)
	}
}

func TestStartHotkeyEmptyComboIsNoop(t *testing.T) {
	l := New(Options{Editor: &fakeEditor{}})
	if err := l.StartHotkey(context.Background(), ""); err != nil {
		t.Fatalf("StartHotkey: %v", err)
	}
}
