package runtimeinit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clarity/src/config"
	"clarity/src/session"
)

func TestBootstrapResolvesModeAndLogging(t *testing.T) {
	t.Setenv(config.AltEnvPathVar, filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("HOTKEY", "")
	t.Setenv("ENABLE_FILE_LOGGING", "true")

	var loggingEnabled *bool
	rt, err := Bootstrap(Options{
		LoadOptions:   config.LoadOptions{DefaultModeOverride: "screen", DisplayOverride: 2},
		SetupLogging:  func(enable bool) { loggingEnabled = &enable },
		SkipClipboard: true,
	})
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if rt.Mode != session.ModeWholeScreen {
		t.Errorf("mode = %s, want whole-screen", rt.Mode)
	}
	if rt.Config.Display != 2 {
		t.Errorf("display = %d, want 2", rt.Config.Display)
	}
	if rt.Config.Hotkey != config.DefaultHotkey {
		t.Errorf("hotkey = %q, want default", rt.Config.Hotkey)
	}
	if loggingEnabled == nil || !*loggingEnabled {
		t.Error("SetupLogging should receive ENABLE_FILE_LOGGING")
	}
}

func TestBootstrapConfigError(t *testing.T) {
	t.Setenv(config.AltEnvPathVar, "")
	t.Setenv("DISPLAY_INDEX", "-3")
	if _, err := Bootstrap(Options{LoadOptions: config.LoadOptions{DisplayOverride: -1}, SkipClipboard: true}); err == nil {
		t.Fatal("expected an error for a negative DISPLAY_INDEX")
	}
}

func TestBootstrapRejectsUnknownMode(t *testing.T) {
	t.Setenv(config.AltEnvPathVar, "")
	t.Setenv("DEFAULT_MODE", "bogus")
	_, err := Bootstrap(Options{LoadOptions: config.LoadOptions{DisplayOverride: -1}, SkipClipboard: true})
	if err == nil || !strings.Contains(err.Error(), config.DefaultModeEnvVar) {
		t.Fatalf("err = %v, want an invalid %s error", err, config.DefaultModeEnvVar)
	}
}

func TestBootstrapReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clarity.env")
	if err := os.WriteFile(path, []byte("DEFAULT_MODE=whole\nHOTKEY=Ctrl+Shift+4\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(config.AltEnvPathVar, path)
	unsetenv(t, "DEFAULT_MODE", "HOTKEY")

	rt, err := Bootstrap(Options{LoadOptions: config.LoadOptions{DisplayOverride: -1}, SkipClipboard: true})
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if rt.Mode != session.ModeWholeScreen || rt.Config.Hotkey != "Ctrl+Shift+4" {
		t.Fatalf("got mode=%s hotkey=%q", rt.Mode, rt.Config.Hotkey)
	}
}

// unsetenv clears keys for the test so godotenv is allowed to set them.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}
