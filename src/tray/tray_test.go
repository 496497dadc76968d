package tray

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestMenuItems(t *testing.T) {
	tests := []struct {
		name   string
		hotkey string
		want   []string
	}{
		{"with hotkey", "Cmd+Alt+S", []string{"Take Screenshot", "", "Hotkey: Cmd+Alt+S"}},
		{"without hotkey", "", []string{"Take Screenshot"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(Config{Title: "Clarity", Hotkey: tt.hotkey})
			items := tr.Menu().Items
			if len(items) != len(tt.want) {
				t.Fatalf("got %d items, want %d", len(items), len(tt.want))
			}
			for i, item := range items {
				if item.Label != tt.want[i] {
					t.Errorf("item %d label = %q, want %q", i, item.Label, tt.want[i])
				}
			}
			if len(items) == 3 && (!items[1].IsSeparator || !items[2].Disabled) {
				t.Error("hotkey hint should be a disabled item after a separator")
			}
		})
	}
}

func TestCaptureItemTriggers(t *testing.T) {
	fired := 0
	tr := New(Config{Title: "Clarity", OnCapture: func() { fired++ }})
	tr.Menu().Items[0].Action()
	if fired != 1 {
		t.Fatalf("OnCapture fired %d times, want 1", fired)
	}
}

func TestSetBusy(t *testing.T) {
	test.NewTempApp(t)
	tr := New(Config{Title: "Clarity"})
	tr.SetBusy(true)
	if item := tr.Menu().Items[0]; !item.Disabled || item.Label != busyLabel {
		t.Fatalf("busy item = %q disabled=%v", item.Label, item.Disabled)
	}
	tr.SetBusy(false)
	if item := tr.Menu().Items[0]; item.Disabled || item.Label != captureLabel {
		t.Fatalf("idle item = %q disabled=%v", item.Label, item.Disabled)
	}
}

func TestInstallWithoutSystemTray(t *testing.T) {
	a := test.NewTempApp(t)
	if New(Config{Title: "Clarity"}).Install(a) {
		t.Log("test driver reports a system tray")
	}
}

func TestIcon(t *testing.T) {
	test.NewTempApp(t)
	if res := Icon(); res == nil || len(res.Content()) == 0 {
		t.Fatal("icon resource is empty")
	}
}
