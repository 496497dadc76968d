package tray

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const (
	captureLabel = "Take Screenshot"
	busyLabel    = "Capturing..."
)

type Config struct {
	Title     string
	Hotkey    string
	OnCapture func()
}

// Tray is the menu-bar item. Its methods must run on the UI goroutine.
type Tray struct {
	menu    *fyne.Menu
	capture *fyne.MenuItem
}

// New builds the tray menu: a capture action and, when a hotkey is configured,
// a disabled line reminding the user of it. fyne appends Quit itself.
func New(cfg Config) *Tray {
	t := &Tray{}
	t.capture = fyne.NewMenuItem(captureLabel, func() {
		if cfg.OnCapture != nil {
			cfg.OnCapture()
		}
	})
	items := []*fyne.MenuItem{t.capture}
	if cfg.Hotkey != "" {
		hint := fyne.NewMenuItem(fmt.Sprintf("Hotkey: %s", cfg.Hotkey), nil)
		hint.Disabled = true
		items = append(items, fyne.NewMenuItemSeparator(), hint)
	}
	t.menu = fyne.NewMenu(cfg.Title, items...)
	return t
}

func (t *Tray) Menu() *fyne.Menu { return t.menu }

// Install attaches the menu and icon to the app. It reports false on drivers
// without a system tray.
func (t *Tray) Install(app fyne.App) bool {
	d, ok := app.(desktop.App)
	if !ok {
		log.Printf("tray: driver has no system tray")
		return false
	}
	d.SetSystemTrayMenu(t.menu)
	d.SetSystemTrayIcon(Icon())
	return true
}

// SetBusy disables the capture item while an editing session is open.
func (t *Tray) SetBusy(busy bool) {
	if busy {
		t.capture.Label = busyLabel
	} else {
		t.capture.Label = captureLabel
	}
	t.capture.Disabled = busy
	t.menu.Refresh()
}
