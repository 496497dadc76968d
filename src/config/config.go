package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	AltEnvPathVar     = "CLARITY_ENV"
	DefaultHotkey     = "Cmd+Alt+S"
	DefaultModeEnvVar = "DEFAULT_MODE"
	DefaultModeRect   = "rectangle"
	DefaultModeScreen = "screen"
)

type LoadOptions struct {
	DefaultModeOverride string
	// DisplayOverride selects a display index; negative means "not set".
	DisplayOverride int
	HotkeyOverride  string
}

type Config struct {
	EnableFileLogging bool
	Hotkey            string
	DefaultMode       string
	Display           int
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{DisplayOverride: -1})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Load configuration from sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) If not found, use CLARITY_ENV as a path to a config file
	if envPath := resolveEnvPath(); envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", envPath, err)
		}
	}

	display := 0
	if v := os.Getenv("DISPLAY_INDEX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("DISPLAY_INDEX must be a non-negative integer, got %q", v)
		}
		display = n
	}
	if opts.DisplayOverride >= 0 {
		display = opts.DisplayOverride
	}

	hotkey := getEnvWithDefault("HOTKEY", DefaultHotkey)
	if override := strings.TrimSpace(opts.HotkeyOverride); override != "" {
		hotkey = override
	}

	cfg := &Config{
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		Hotkey:            hotkey,
		DefaultMode:       resolveDefaultModeValue(opts),
		Display:           display,
	}

	return cfg, nil
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(AltEnvPathVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// resolveDefaultMode canonicalizes the known aliases. Anything else is returned
// as given so the mode parser can reject it.
func resolveDefaultMode(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "", "rect", "rectangle":
		return DefaultModeRect
	case "screen", "whole", "fullscreen":
		return DefaultModeScreen
	default:
		return v
	}
}

func resolveDefaultModeValue(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.DefaultModeOverride); override != "" {
		return resolveDefaultMode(override)
	}
	return resolveDefaultMode(os.Getenv(DefaultModeEnvVar))
}
