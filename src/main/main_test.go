package main

import (
	"testing"
)

func TestNormalizeLegacyArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		out  []string
	}{
		{
			name: "Normalizes long single dash flags",
			in:   []string{"clarity", "-run-once", "-display", "1"},
			out:  []string{"clarity", "--run-once", "--display", "1"},
		},
		{
			name: "Normalizes equals form",
			in:   []string{"clarity", "-mode=screen", "-hotkey=Cmd+Shift+2"},
			out:  []string{"clarity", "--mode=screen", "--hotkey=Cmd+Shift+2"},
		},
		{
			name: "Leaves other flags unchanged",
			in:   []string{"clarity", "--run-once", "--other", "-x"},
			out:  []string{"clarity", "--run-once", "--other", "-x"},
		},
		{
			name: "Empty",
			in:   []string{},
			out:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeLegacyArgs(tt.in)
			if len(got) != len(tt.out) {
				t.Fatalf("Expected len=%d, got %d", len(tt.out), len(got))
			}
			for i := range got {
				if got[i] != tt.out[i] {
					t.Fatalf("Expected arg[%d]=%q, got %q", i, tt.out[i], got[i])
				}
			}
		})
	}
}

func TestNewRootCmdParsesFlags(t *testing.T) {
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	if err := cmd.ParseFlags([]string{"--run-once", "--mode", "screen", "--display", "1", "--hotkey", "Ctrl+Alt+X"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if !opts.runOnce {
		t.Fatal("Expected runOnce=true")
	}
	lo := opts.loadOptions()
	if lo.DefaultModeOverride != "screen" || lo.DisplayOverride != 1 || lo.HotkeyOverride != "Ctrl+Alt+X" {
		t.Fatalf("unexpected load options %+v", lo)
	}
}

func TestDisplayFlagDefaultsToUnset(t *testing.T) {
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if got := opts.loadOptions().DisplayOverride; got >= 0 {
		t.Fatalf("DisplayOverride = %d, want negative (unset)", got)
	}
}
